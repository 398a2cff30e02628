package utils

// Palette colors the chart series. A player's color is derived from its
// position in the current query's distinct-player list, computed fresh
// per view instead of carried as process-wide state.
var Palette = []string{"blue", "darkorange", "green", "red", "purple", "maroon"}

func ColorFor(index int) string {
	if index < 0 {
		index = -index
	}
	return Palette[index%len(Palette)]
}
