package tarot

import (
	"fmt"
	"math"
)

// Bouts held by the taker set the point threshold the attack must reach.
var targets = [4]int{56, 51, 41, 36}

// Donne holds the declared parameters of one played hand. Points are
// always from the taker's perspective, in half-point steps.
type Donne struct {
	Contract    Contract
	Bouts       int
	Points      float64
	Poignee     Poignee
	Petit       Petit
	PetitChelem bool
	GrandChelem GrandChelem
}

func (d Donne) Validate() error {
	if d.Contract.Coefficient() == 0 {
		return fmt.Errorf("donne has no valid contract")
	}
	if d.Bouts < 0 || d.Bouts > 3 {
		return fmt.Errorf("bout count %d outside 0-3", d.Bouts)
	}
	if d.Points < 0 || d.Points > 91 {
		return fmt.Errorf("points %v outside [0, 91]", d.Points)
	}
	if math.Mod(d.Points*2, 1) != 0 {
		return fmt.Errorf("points %v not a half-point step", d.Points)
	}
	return nil
}

// Result computes the signed value of the donne.
//
// The poignee bonus is the only term added before the final sign
// multiplication. Petit and chelem bonuses are accumulated already
// multiplied by the sign, so the closing multiplication cancels it and
// their direction depends only on their own outcome, not on whether the
// contract was made. This ordering matches the recorded scores exactly
// and must not be simplified.
func (d Donne) Result() (int, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	coef := d.Contract.Coefficient()
	target := targets[d.Bouts]

	sign := 1
	var points int
	if d.Points >= float64(target) {
		points = int(math.Ceil(d.Points))
	} else {
		sign = -1
		points = int(math.Floor(d.Points))
	}

	diff := target - points
	if diff < 0 {
		diff = -diff
	}
	result := (diff + 25) * coef

	if d.Poignee != PoigneeNone {
		result += d.Poignee.Bonus()
	}
	switch d.Petit {
	case PetitGagne:
		result += 10 * coef * sign
	case PetitPerdu:
		result += -10 * coef * sign
	}
	if d.PetitChelem {
		result += 200 * sign
	}
	if d.GrandChelem != GrandChelemNone {
		result += d.GrandChelem.Bonus() * sign
	}

	return result * sign, nil
}
