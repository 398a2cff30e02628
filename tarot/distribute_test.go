package tarot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistribute(t *testing.T) {
	tests := []struct {
		description string
		result      int
		appele      string
		tableOf     int
		expected    Repartition
	}{
		{"three players", 100, "", 3, Repartition{Preneur: 200, Defense: -100}},
		{"four players", 100, "", 4, Repartition{Preneur: 300, Defense: -100}},
		{"five players with called partner", 100, "Aurore", 5, Repartition{Preneur: 200, Appele: 100, Defense: -100}},
		{"five players called card in the chien", 50, NicknameChien, 5, Repartition{Preneur: 200, Defense: -50}},
		{"five players taker called himself", 50, NicknameSolo, 5, Repartition{Preneur: 200, Defense: -50}},
		{"lost donne flips every share", -70, "Aurore", 5, Repartition{Preneur: -140, Appele: -70, Defense: 70}},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			rep, err := Distribute(tc.result, tc.appele, tc.tableOf)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, rep)
		})
	}
}

func TestDistributeRejectsUnknownTable(t *testing.T) {
	_, err := Distribute(100, "", 5)
	assert.Error(t, err, "five players without appele has no repartition")
	_, err = Distribute(100, "", 7)
	assert.Error(t, err)
}

// The shares of every seat of a donne must sum to zero once multiplied
// out over the table-size-derived number of defenders.
func TestDistributeIsZeroSum(t *testing.T) {
	tests := []struct {
		description string
		appele      string
		tableOf     int
		defenders   int
	}{
		{"three players, two defenders", "", 3, 2},
		{"four players, three defenders", "", 4, 3},
		{"five players with partner, three defenders", "Ludo", 5, 3},
		{"five players alone, four defenders", NicknameSolo, 5, 4},
		{"six players play as five plus a pnj", "Ludo", 5, 3},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			for _, result := range []int{-306, -1, 0, 50, 136, 999} {
				rep, err := Distribute(result, tc.appele, tc.tableOf)
				require.NoError(t, err)
				sum := rep.Preneur + rep.Appele + tc.defenders*rep.Defense
				assert.Zero(t, sum, "result %d", result)
			}
		})
	}
}
