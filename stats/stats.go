// Package stats derives per-player and global breakdowns from an
// aggregated range of donnes.
package stats

import (
	"tarotrack/rank"
	"tarotrack/tarot"
)

// CalledStats is the 5-seat cross-tab of one preneur with one called
// partner: how often each contract was bid together and what it earned
// the preneur.
type CalledStats struct {
	Contracts map[string]int `json:"contracts"`
	Points    map[string]int `json:"points"`
}

// PlayerStats accumulates one player's counts and point totals over the
// filtered range. The appele, tete and per-partner parts only exist at
// 5-seat tables; elsewhere they stay empty and are omitted from JSON.
type PlayerStats struct {
	Donnes        int            `json:"nb_donnes"`
	Preneur       int            `json:"preneur"`
	Defense       int            `json:"defense"`
	Points        int            `json:"points"`
	PointsPreneur int            `json:"points_preneur"`
	PointsDefense int            `json:"points_defense"`
	Contracts     map[string]int `json:"contracts"`
	Bouts         map[int]int    `json:"bouts"`

	Appele       int                     `json:"appele,omitempty"`
	PointsAppele int                     `json:"points_appele,omitempty"`
	Tetes        map[string]int          `json:"tetes,omitempty"`
	ParAppele    map[string]*CalledStats `json:"par_appele,omitempty"`
}

type GlobalStats struct {
	Donnes    int            `json:"nb_donnes"`
	Parties   int            `json:"nb_parties"`
	NbPlayers int            `json:"nb_players"`
	Players   []string       `json:"players"`
	Contracts map[string]int `json:"contracts"`
	Tetes     map[string]int `json:"tetes,omitempty"`
}

type Stats struct {
	TableOf int                     `json:"table_of"`
	Players map[string]*PlayerStats `json:"players"`
	Global  GlobalStats             `json:"global"`
}

// Build walks the aggregated rows once and fills every breakdown.
func Build(data *rank.Data) *Stats {
	s := &Stats{
		TableOf: data.TableOf,
		Players: make(map[string]*PlayerStats, len(data.Players)),
		Global: GlobalStats{
			Donnes:    data.NumberOfDonnes(),
			Parties:   data.NumberOfParties(),
			NbPlayers: len(data.Players),
			Players:   data.Players,
			Contracts: make(map[string]int),
		},
	}
	if data.TableOf == 5 {
		s.Global.Tetes = make(map[string]int)
	}
	for _, player := range data.Players {
		s.Players[player] = newPlayerStats(data.TableOf)
	}

	for i, row := range data.Rows {
		s.accumulatePreneur(data, row, i)
		if data.TableOf == 5 {
			s.accumulateAppele(data, row, i)
		}
		s.accumulateDefense(data, row, i)

		s.Global.Contracts[row.Donne.Contract.String()]++
		if data.TableOf == 5 {
			s.Global.Tetes[row.Tete]++
		}
	}
	return s
}

func newPlayerStats(tableOf int) *PlayerStats {
	ps := &PlayerStats{
		Contracts: make(map[string]int),
		Bouts:     make(map[int]int),
	}
	if tableOf == 5 {
		ps.Tetes = make(map[string]int)
		ps.ParAppele = make(map[string]*CalledStats)
	}
	return ps
}

func (s *Stats) accumulatePreneur(data *rank.Data, row rank.DonneRow, i int) {
	ps := s.Players[row.Roles.Preneur]
	delta := data.Deltas[row.Roles.Preneur][i]
	contract := row.Donne.Contract.String()

	ps.Preneur++
	ps.Donnes++
	ps.Contracts[contract]++
	ps.Bouts[row.Donne.Bouts]++
	ps.PointsPreneur += delta
	ps.Points += delta

	if data.TableOf == 5 {
		ps.Tetes[row.Tete]++
		called, ok := ps.ParAppele[row.Roles.Appele]
		if !ok {
			called = &CalledStats{
				Contracts: make(map[string]int),
				Points:    make(map[string]int),
			}
			ps.ParAppele[row.Roles.Appele] = called
		}
		called.Contracts[contract]++
		called.Points[contract] += delta
	}
}

func (s *Stats) accumulateAppele(data *rank.Data, row rank.DonneRow, i int) {
	if tarot.IsPlaceholder(row.Roles.Appele) {
		return
	}
	ps := s.Players[row.Roles.Appele]
	delta := data.Deltas[row.Roles.Appele][i]

	ps.Appele++
	ps.Donnes++
	ps.PointsAppele += delta
	ps.Points += delta
}

func (s *Stats) accumulateDefense(data *rank.Data, row rank.DonneRow, i int) {
	for _, defender := range row.Roles.Defense {
		ps := s.Players[defender]
		delta := data.Deltas[defender][i]

		ps.Defense++
		ps.Donnes++
		ps.PointsDefense += delta
		ps.Points += delta
	}
}
