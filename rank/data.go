// Package rank rebuilds per-player score tables from the recorded
// donnes of a date range. Everything here is a pure pass over the rows
// handed in by the store: recomputing the whole table on every query
// keeps the results independent of entry order.
package rank

import (
	"fmt"

	"github.com/samber/lo"

	"tarotrack/tarot"
)

// Hand is one stored donne before its roles are joined on. Tete is the
// called card of 5-seat games; it plays no part in scoring.
type Hand struct {
	ID       int64
	PartieID int64
	Tete     string
	Donne    tarot.Donne
}

// Roles maps the seats of one donne to player nicknames. Defense keeps
// the stored seat order; the order itself carries no meaning.
type Roles struct {
	Preneur string
	Appele  string
	Defense []string
	Pnj     string
}

type DonneRow struct {
	Hand
	Roles Roles
}

// RoleError reports a donne whose stored role assignments do not
// resolve to the role set its table size requires. The aggregation run
// aborts on it: skipping the donne would corrupt every later total.
type RoleError struct {
	DonneID int64
	Reason  string
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("donne %d: %s", e.DonneID, e.Reason)
}

// Assemble joins the per-role lookup maps onto the hand sequence and
// validates every donne against the role set of the table size.
func Assemble(hands []Hand, preneurs, appeles, pnjs map[int64]string,
	defenses map[int64][]string, tableOf int) ([]DonneRow, error) {

	rows := make([]DonneRow, 0, len(hands))
	for _, hand := range hands {
		row := DonneRow{
			Hand: hand,
			Roles: Roles{
				Preneur: preneurs[hand.ID],
				Appele:  appeles[hand.ID],
				Defense: defenses[hand.ID],
				Pnj:     pnjs[hand.ID],
			},
		}
		if err := CheckRoles(row, tableOf); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CheckRoles validates one donne against the role set its table size
// requires: exactly one preneur, the table-size-derived defender count,
// an appele only at 5 seats, and no player in two roles.
func CheckRoles(row DonneRow, tableOf int) error {
	roles := row.Roles
	if roles.Preneur == "" {
		return &RoleError{row.ID, "no preneur"}
	}

	wantDefense := 0
	switch {
	case tableOf == 3 || tableOf == 4:
		if roles.Appele != "" {
			return &RoleError{row.ID, fmt.Sprintf("appele at a table of %d", tableOf)}
		}
		if roles.Pnj != "" {
			return &RoleError{row.ID, fmt.Sprintf("pnj at a table of %d", tableOf)}
		}
		wantDefense = tableOf - 1
	case tableOf == 5:
		if roles.Appele == "" {
			return &RoleError{row.ID, "no appele at a table of 5"}
		}
		wantDefense = 3
		if tarot.IsPlaceholder(roles.Appele) {
			wantDefense = 4
		}
	default:
		return &RoleError{row.ID, fmt.Sprintf("unsupported table of %d", tableOf)}
	}
	if len(roles.Defense) != wantDefense {
		return &RoleError{row.ID, fmt.Sprintf("%d defenders, want %d", len(roles.Defense), wantDefense)}
	}

	seated := append([]string{roles.Preneur}, roles.Defense...)
	if roles.Appele != "" && !tarot.IsPlaceholder(roles.Appele) {
		seated = append(seated, roles.Appele)
	}
	if roles.Pnj != "" {
		seated = append(seated, roles.Pnj)
	}
	if len(lo.Uniq(seated)) != len(seated) {
		return &RoleError{row.ID, "a player fills more than one role"}
	}
	return nil
}

// Data holds the per-player tables of a filtered range. Deltas has one
// value per included donne (0 where the player did not score), Cumul
// one running total per completed partie. Players who never appear in
// the range are absent from every table.
type Data struct {
	TableOf int
	Rows    []DonneRow

	// Players in order of first appearance within the range.
	Players []string
	Parties []int64
	Deltas  map[string][]int
	Cumul   map[string][]int
}

func NewData(rows []DonneRow, tableOf int) (*Data, error) {
	d := &Data{
		TableOf: tableOf,
		Rows:    rows,
		Deltas:  make(map[string][]int),
		Cumul:   make(map[string][]int),
	}
	d.collectPlayers()
	if err := d.fillDeltas(); err != nil {
		return nil, err
	}
	d.fillCumul()
	return d, nil
}

func (d *Data) collectPlayers() {
	var seen []string
	for _, row := range d.Rows {
		seen = append(seen, row.Roles.Preneur)
		if row.Roles.Appele != "" && !tarot.IsPlaceholder(row.Roles.Appele) {
			seen = append(seen, row.Roles.Appele)
		}
		seen = append(seen, row.Roles.Defense...)
		if row.Roles.Pnj != "" {
			seen = append(seen, row.Roles.Pnj)
		}
	}
	d.Players = lo.Uniq(seen)
	for _, player := range d.Players {
		d.Deltas[player] = make([]int, len(d.Rows))
	}
}

func (d *Data) fillDeltas() error {
	for i, row := range d.Rows {
		result, err := row.Donne.Result()
		if err != nil {
			return fmt.Errorf("donne %d: %w", row.ID, err)
		}
		rep, err := tarot.Distribute(result, row.Roles.Appele, d.TableOf)
		if err != nil {
			return fmt.Errorf("donne %d: %w", row.ID, err)
		}

		d.Deltas[row.Roles.Preneur][i] = rep.Preneur
		if row.Roles.Appele != "" && !tarot.IsPlaceholder(row.Roles.Appele) {
			d.Deltas[row.Roles.Appele][i] = rep.Appele
		}
		for _, defender := range row.Roles.Defense {
			d.Deltas[defender][i] = rep.Defense
		}
		// A pnj sat at the table but scores nothing; the zero row is
		// already in place.
	}
	return nil
}

// fillCumul groups deltas per partie and prefix-sums them, so every
// partie boundary is a valid sampling point for the ranking series.
func (d *Data) fillCumul() {
	d.Parties = lo.Uniq(lo.Map(d.Rows, func(row DonneRow, _ int) int64 {
		return row.PartieID
	}))

	for _, player := range d.Players {
		cumul := make([]int, len(d.Parties))
		running := 0
		for p, partieID := range d.Parties {
			for i, row := range d.Rows {
				if row.PartieID == partieID {
					running += d.Deltas[player][i]
				}
			}
			cumul[p] = running
		}
		d.Cumul[player] = cumul
	}
}

func (d *Data) NumberOfDonnes() int {
	return len(d.Rows)
}

func (d *Data) NumberOfParties() int {
	return len(d.Parties)
}
