package tarot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultPlainContracts(t *testing.T) {
	tests := []struct {
		description string
		donne       Donne
		expected    int
	}{
		{"garde sans made with one bout", Donne{Contract: GardeSans, Bouts: 1, Points: 60}, 136},
		{"garde sans lost with one bout", Donne{Contract: GardeSans, Bouts: 1, Points: 40}, -144},
		{"garde made exactly at target", Donne{Contract: Garde, Bouts: 2, Points: 41}, 50},
		{"garde lost half a point short", Donne{Contract: Garde, Bouts: 2, Points: 40.5}, -52},
		{"garde contre lost with no bout", Donne{Contract: GardeContre, Bouts: 0, Points: 30}, -306},
		{"half point rounds up on a win", Donne{Contract: Garde, Bouts: 3, Points: 40.5}, 60},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			result, err := tc.donne.Result()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestResultSignMatchesTarget(t *testing.T) {
	for bouts, target := range map[int]int{0: 56, 1: 51, 2: 41, 3: 36} {
		for points := 0.0; points <= 91; points += 0.5 {
			donne := Donne{Contract: Garde, Bouts: bouts, Points: points}
			result, err := donne.Result()
			require.NoError(t, err)
			if points >= float64(target) {
				assert.Positive(t, result, "bouts %d points %v", bouts, points)
			} else {
				assert.Negative(t, result, "bouts %d points %v", bouts, points)
			}
		}
	}
}

func TestResultPoignee(t *testing.T) {
	base := Donne{Contract: GardeSans, Bouts: 1, Points: 60}

	simple := base
	simple.Poignee = PoigneeSimple
	result, err := simple.Result()
	require.NoError(t, err)
	assert.Equal(t, 156, result)

	// On a lost donne the poignee still profits the winning side: it is
	// added before the sign multiplication.
	lost := Donne{Contract: GardeSans, Bouts: 1, Points: 40, Poignee: PoigneeTriple}
	result, err = lost.Result()
	require.NoError(t, err)
	assert.Equal(t, -184, result)
}

func TestResultPetitAuBoutIndependentOfOutcome(t *testing.T) {
	// The petit bonus keeps its own direction whether the contract was
	// made or not: +10*coef when won, -10*coef when lost.
	won := Donne{Contract: GardeSans, Bouts: 1, Points: 60, Petit: PetitGagne}
	result, err := won.Result()
	require.NoError(t, err)
	assert.Equal(t, 136+40, result)

	wonButChuted := Donne{Contract: GardeSans, Bouts: 1, Points: 40, Petit: PetitGagne}
	result, err = wonButChuted.Result()
	require.NoError(t, err)
	assert.Equal(t, -144+40, result)

	lostButMade := Donne{Contract: GardeSans, Bouts: 1, Points: 60, Petit: PetitPerdu}
	result, err = lostButMade.Result()
	require.NoError(t, err)
	assert.Equal(t, 136-40, result)
}

func TestResultChelems(t *testing.T) {
	tests := []struct {
		description string
		donne       Donne
		expected    int
	}{
		{"petit chelem", Donne{Contract: Garde, Bouts: 3, Points: 80, PetitChelem: true}, (44+25)*2 + 200},
		{"grand chelem announced and made", Donne{Contract: Garde, Bouts: 3, Points: 91, GrandChelem: GrandChelemReussi}, (55+25)*2 + 200},
		{"grand chelem made without announcing", Donne{Contract: Garde, Bouts: 3, Points: 91, GrandChelem: GrandChelemSansAnnonce}, (55+25)*2 + 400},
		{"grand chelem announced and failed", Donne{Contract: Garde, Bouts: 3, Points: 60, GrandChelem: GrandChelemRate}, (24+25)*2 - 200},
		{"failed grand chelem on a lost donne still costs", Donne{Contract: Garde, Bouts: 3, Points: 20, GrandChelem: GrandChelemRate}, -((16+25)*2 + 200)},
		{"both chelems sum their bonuses", Donne{Contract: Garde, Bouts: 3, Points: 91, PetitChelem: true, GrandChelem: GrandChelemSansAnnonce}, (55+25)*2 + 200 + 400},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			result, err := tc.donne.Result()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestResultRejectsInvalidDonnes(t *testing.T) {
	tests := []struct {
		description string
		donne       Donne
	}{
		{"missing contract", Donne{Bouts: 1, Points: 50}},
		{"negative points", Donne{Contract: Garde, Bouts: 1, Points: -1}},
		{"points above 91", Donne{Contract: Garde, Bouts: 1, Points: 91.5}},
		{"points off the half-point grid", Donne{Contract: Garde, Bouts: 1, Points: 50.2}},
		{"four bouts", Donne{Contract: Garde, Bouts: 4, Points: 50}},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			_, err := tc.donne.Result()
			assert.Error(t, err)
		})
	}
}

func TestParseRoundTrips(t *testing.T) {
	for _, c := range []Contract{Garde, GardeSans, GardeContre} {
		parsed, err := ParseContract(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}
	_, err := ParseContract("P")
	assert.Error(t, err)

	for _, p := range []Poignee{PoigneeNone, PoigneeSimple, PoigneeDouble, PoigneeTriple} {
		parsed, err := ParsePoignee(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	for _, g := range []GrandChelem{GrandChelemNone, GrandChelemReussi, GrandChelemSansAnnonce, GrandChelemRate} {
		parsed, err := ParseGrandChelem(g.String())
		require.NoError(t, err)
		assert.Equal(t, g, parsed)
	}
}
