package db

import (
	"fmt"
	"time"

	"tarotrack/rank"
	"tarotrack/tarot"
)

type Player struct {
	ID        int64  `db:"id"`
	Nickname  string `db:"nickname"`
	Surname   string `db:"surname"`
	Firstname string `db:"firstname"`
	Active    bool   `db:"active"`
	Protect   bool   `db:"protect"`
}

type Partie struct {
	ID      int64     `db:"id"`
	Date    time.Time `db:"date_"`
	TableOf int       `db:"table_of"`
}

// DonneRow is the stored form of a donne; enum fields are kept as their
// canonical string tokens.
type DonneRow struct {
	ID          int64   `db:"id"`
	PartieID    int64   `db:"partie_id"`
	NbBout      int     `db:"nb_bout"`
	Contract    string  `db:"contract"`
	Tete        string  `db:"tete"`
	Point       float64 `db:"point"`
	Petit       string  `db:"petit"`
	Poignee     string  `db:"poignee"`
	PetitChelem bool    `db:"petit_chelem"`
	GrandChelem string  `db:"grand_chelem"`
}

// ToHand decodes the stored tokens back into the domain form consumed
// by the aggregation pipeline.
func (r DonneRow) ToHand() (rank.Hand, error) {
	contract, err := tarot.ParseContract(r.Contract)
	if err != nil {
		return rank.Hand{}, fmt.Errorf("donne %d: %w", r.ID, err)
	}
	poignee, err := tarot.ParsePoignee(r.Poignee)
	if err != nil {
		return rank.Hand{}, fmt.Errorf("donne %d: %w", r.ID, err)
	}
	petit, err := tarot.ParsePetit(r.Petit)
	if err != nil {
		return rank.Hand{}, fmt.Errorf("donne %d: %w", r.ID, err)
	}
	grandChelem, err := tarot.ParseGrandChelem(r.GrandChelem)
	if err != nil {
		return rank.Hand{}, fmt.Errorf("donne %d: %w", r.ID, err)
	}
	return rank.Hand{
		ID:       r.ID,
		PartieID: r.PartieID,
		Tete:     r.Tete,
		Donne: tarot.Donne{
			Contract:    contract,
			Bouts:       r.NbBout,
			Points:      r.Point,
			Poignee:     poignee,
			Petit:       petit,
			PetitChelem: r.PetitChelem,
			GrandChelem: grandChelem,
		},
	}, nil
}

// DonneInput is one donne of a finalized partie, with its seats.
type DonneInput struct {
	Tete    string
	Donne   tarot.Donne
	Preneur string
	Appele  string
	Defense []string
	Pnj     string
}
