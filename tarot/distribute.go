package tarot

import "fmt"

// Protected placeholder nicknames used when the taker plays without a
// real partner at 5-seat tables. They are seeded in the database and
// can never be deleted or deactivated.
const (
	NicknameChien = "Chien"
	NicknameSolo  = "Solo"
)

func IsPlaceholder(nickname string) bool {
	return nickname == NicknameChien || nickname == NicknameSolo
}

// Repartition is the per-role share of a donne's result. Every defender
// is credited the full Defense value, not a division of it; the PNJ of a
// 6-seat table always receives zero.
type Repartition struct {
	Preneur int `json:"preneur"`
	Appele  int `json:"appele"`
	Defense int `json:"defense"`
}

// Distribute splits a donne result between the seats of a table. appele
// is the called partner's nickname: empty at 3- and 4-seat tables, a
// placeholder when the taker played alone at a 5-seat table.
func Distribute(result int, appele string, tableOf int) (Repartition, error) {
	switch {
	case IsPlaceholder(appele):
		return Repartition{Preneur: result * 4, Defense: -result}, nil
	case tableOf == 3:
		return Repartition{Preneur: result * 2, Defense: -result}, nil
	case tableOf == 4:
		return Repartition{Preneur: result * 3, Defense: -result}, nil
	case tableOf >= 5 && appele != "":
		return Repartition{Preneur: result * 2, Appele: result, Defense: -result}, nil
	}
	return Repartition{}, fmt.Errorf("no repartition for table of %d with appele %q", tableOf, appele)
}
