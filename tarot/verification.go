package tarot

import (
	"fmt"
	"strings"
)

// Entry-form consistency thresholds: a petit chelem cannot be claimed
// under 69 attack points, a successful grand chelem under 86.5.
const (
	petitChelemMinPoints = 69
	grandChelemMinPoints = 86.5
)

// CheckDonne applies the consistency rules the entry form enforces on
// top of Validate. Declaring both chelems together is allowed: a grand
// chelem implies the small one and both bonuses are summed.
func CheckDonne(d Donne) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.PetitChelem && d.Points < petitChelemMinPoints {
		return fmt.Errorf("petit chelem declared with only %v points", d.Points)
	}
	succeeded := d.GrandChelem == GrandChelemReussi || d.GrandChelem == GrandChelemSansAnnonce
	if succeeded && d.Points < grandChelemMinPoints {
		return fmt.Errorf("grand chelem declared with only %v points", d.Points)
	}
	return nil
}

// NicknameValid reports whether a new nickname is long enough and not
// already taken, case-insensitively.
func NicknameValid(nickname string, existing []string) bool {
	if len(nickname) <= 3 {
		return false
	}
	for _, other := range existing {
		if strings.EqualFold(nickname, other) {
			return false
		}
	}
	return true
}
