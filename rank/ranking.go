package rank

import "sort"

type Standing struct {
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
}

// Ranking is the final standings of a range plus the per-player series
// feeding the running-score chart.
type Ranking struct {
	Standings []Standing       `json:"standings"`
	Series    map[string][]int `json:"series"`
}

// Ranking sorts players by final cumulative score, descending. Equal
// scores keep their first-appearance order; no secondary key is
// applied. Every chart series starts with an explicit zero so the
// curves leave the origin whatever the number of parties.
func (d *Data) Ranking() *Ranking {
	standings := make([]Standing, 0, len(d.Players))
	series := make(map[string][]int, len(d.Players))

	for _, player := range d.Players {
		cumul := d.Cumul[player]
		final := 0
		if len(cumul) > 0 {
			final = cumul[len(cumul)-1]
		}
		standings = append(standings, Standing{Nickname: player, Score: final})
		series[player] = append([]int{0}, cumul...)
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})

	return &Ranking{Standings: standings, Series: series}
}
