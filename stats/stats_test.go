package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarotrack/rank"
	"tarotrack/tarot"
)

func fourSeatData(t *testing.T) *rank.Data {
	t.Helper()
	rows := []rank.DonneRow{
		{
			Hand:  rank.Hand{ID: 1, PartieID: 1, Donne: tarot.Donne{Contract: tarot.Garde, Bouts: 1, Points: 51}},
			Roles: rank.Roles{Preneur: "Romain", Defense: []string{"Ludo", "Emeline", "Eddy"}},
		},
		{
			Hand:  rank.Hand{ID: 2, PartieID: 1, Donne: tarot.Donne{Contract: tarot.GardeSans, Bouts: 1, Points: 40}},
			Roles: rank.Roles{Preneur: "Ludo", Defense: []string{"Romain", "Emeline", "Eddy"}},
		},
		{
			Hand:  rank.Hand{ID: 3, PartieID: 2, Donne: tarot.Donne{Contract: tarot.Garde, Bouts: 2, Points: 41}},
			Roles: rank.Roles{Preneur: "Emeline", Defense: []string{"Romain", "Ludo", "Eddy"}},
		},
	}
	data, err := rank.NewData(rows, 4)
	require.NoError(t, err)
	return data
}

func TestBuildFourSeat(t *testing.T) {
	s := Build(fourSeatData(t))

	romain := s.Players["Romain"]
	require.NotNil(t, romain)
	assert.Equal(t, 3, romain.Donnes)
	assert.Equal(t, 1, romain.Preneur)
	assert.Equal(t, 2, romain.Defense)
	assert.Equal(t, map[string]int{"G": 1}, romain.Contracts)
	assert.Equal(t, map[int]int{1: 1}, romain.Bouts)
	assert.Equal(t, 150, romain.PointsPreneur)
	assert.Equal(t, 94, romain.PointsDefense)
	assert.Equal(t, 244, romain.Points)

	ludo := s.Players["Ludo"]
	assert.Equal(t, -432, ludo.PointsPreneur)
	assert.Equal(t, -100, ludo.PointsDefense)
	assert.Equal(t, -532, ludo.Points)

	assert.Equal(t, 3, s.Global.Donnes)
	assert.Equal(t, 2, s.Global.Parties)
	assert.Equal(t, 4, s.Global.NbPlayers)
	assert.Equal(t, map[string]int{"G": 2, "GS": 1}, s.Global.Contracts)
	assert.Nil(t, s.Global.Tetes)
}

// At 3- and 4-seat tables the appele, tete and per-partner breakdowns do
// not exist and must be absent from the JSON form, not zero-filled.
func TestBuildFourSeatOmitsFiveSeatFields(t *testing.T) {
	s := Build(fourSeatData(t))

	raw, err := json.Marshal(s.Players["Romain"])
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.NotContains(t, fields, "appele")
	assert.NotContains(t, fields, "points_appele")
	assert.NotContains(t, fields, "tetes")
	assert.NotContains(t, fields, "par_appele")
}

func TestBuildFiveSeat(t *testing.T) {
	rows := []rank.DonneRow{
		{
			Hand: rank.Hand{ID: 1, PartieID: 1, Tete: "R coeur", Donne: tarot.Donne{Contract: tarot.Garde, Bouts: 1, Points: 51}},
			Roles: rank.Roles{
				Preneur: "Aurore",
				Appele:  "Romain",
				Defense: []string{"Ludo", "Emeline", "Eddy"},
			},
		},
		{
			Hand: rank.Hand{ID: 2, PartieID: 1, Tete: "D pique", Donne: tarot.Donne{Contract: tarot.GardeSans, Bouts: 1, Points: 40}},
			Roles: rank.Roles{
				Preneur: "Aurore",
				Appele:  tarot.NicknameSolo,
				Defense: []string{"Romain", "Ludo", "Emeline", "Eddy"},
			},
		},
	}
	data, err := rank.NewData(rows, 5)
	require.NoError(t, err)
	s := Build(data)

	aurore := s.Players["Aurore"]
	require.NotNil(t, aurore)
	assert.Equal(t, 2, aurore.Preneur)
	assert.Equal(t, -476, aurore.PointsPreneur)
	assert.Equal(t, map[string]int{"R coeur": 1, "D pique": 1}, aurore.Tetes)
	require.Contains(t, aurore.ParAppele, "Romain")
	require.Contains(t, aurore.ParAppele, tarot.NicknameSolo)
	assert.Equal(t, map[string]int{"G": 1}, aurore.ParAppele["Romain"].Contracts)
	assert.Equal(t, map[string]int{"G": 100}, aurore.ParAppele["Romain"].Points)
	assert.Equal(t, map[string]int{"GS": -576}, aurore.ParAppele[tarot.NicknameSolo].Points)

	romain := s.Players["Romain"]
	assert.Equal(t, 1, romain.Appele)
	assert.Equal(t, 1, romain.Defense)
	assert.Equal(t, 2, romain.Donnes)
	assert.Equal(t, 50, romain.PointsAppele)
	assert.Equal(t, 144, romain.PointsDefense)
	assert.Equal(t, 194, romain.Points)

	// The placeholder is not a player and accumulates nothing itself.
	assert.NotContains(t, s.Players, tarot.NicknameSolo)
	assert.Equal(t, map[string]int{"R coeur": 1, "D pique": 1}, s.Global.Tetes)
}
