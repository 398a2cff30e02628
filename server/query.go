package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tarotrack/db"
	"tarotrack/parser"
	"tarotrack/rank"
	"tarotrack/stats"
	"tarotrack/tarot"
	"tarotrack/utils"
)

// queryRange reads the start/end/table_of filter. Missing dates are
// seeded from the recorded partie bounds, so a bare query covers the
// whole stored history; the table defaults to five seats, matching the
// ranking screen the query feeds.
func (s *ScoreServer) queryRange(request *http.Request) (time.Time, time.Time, int, error) {
	query := request.URL.Query()

	var start, end time.Time
	var err error
	if query.Get("start") == "" || query.Get("end") == "" {
		start, end, err = s.Db.GetDateBounds()
		if err != nil {
			return time.Time{}, time.Time{}, 0, err
		}
	}
	if raw := query.Get("start"); raw != "" {
		start, err = parseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, 0, err
		}
	}
	if raw := query.Get("end"); raw != "" {
		end, err = parseDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, 0, err
		}
	}

	tableOf := 5
	if raw := query.Get("table_of"); raw != "" {
		tableOf, err = strconv.Atoi(raw)
		if err != nil {
			return time.Time{}, time.Time{}, 0, fmt.Errorf("bad table_of %q", raw)
		}
	}
	if tableOf < 3 || tableOf > 5 {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("table_of %d outside 3-5", tableOf)
	}
	return start, end, tableOf, nil
}

func parseDate(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q", raw)
	}
	return parsed, nil
}

// loadData performs the upfront fetches and hands the core a fully
// in-memory sequence: stored donnes, one lookup per role, then the pure
// aggregation pass.
func (s *ScoreServer) loadData(start, end time.Time, tableOf int) (*rank.Data, error) {
	rows, err := s.Db.GetDonnes(start, end, tableOf)
	if err != nil {
		return nil, err
	}
	hands := make([]rank.Hand, 0, len(rows))
	for _, row := range rows {
		hand, err := row.ToHand()
		if err != nil {
			return nil, err
		}
		hands = append(hands, hand)
	}

	preneurs, err := s.Db.GetRole(db.RolePreneur, start, end, tableOf)
	if err != nil {
		return nil, err
	}
	appeles, err := s.Db.GetRole(db.RoleAppele, start, end, tableOf)
	if err != nil {
		return nil, err
	}
	pnjs, err := s.Db.GetRole(db.RolePnj, start, end, tableOf)
	if err != nil {
		return nil, err
	}
	defenses, err := s.Db.GetDefenses(start, end, tableOf)
	if err != nil {
		return nil, err
	}

	assembled, err := rank.Assemble(hands, preneurs, appeles, pnjs, defenses, tableOf)
	if err != nil {
		return nil, err
	}
	return rank.NewData(assembled, tableOf)
}

type rankingResponse struct {
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	TableOf   int               `json:"table_of"`
	Standings []rank.Standing   `json:"standings"`
	Series    map[string][]int  `json:"series"`
	Colors    map[string]string `json:"colors"`
}

func (s *ScoreServer) GetRanking(writer http.ResponseWriter, request *http.Request) {
	start, end, tableOf, err := s.queryRange(request)
	if err != nil {
		s.Logger.Error("Bad ranking query", err)
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	data, err := s.loadData(start, end, tableOf)
	if err != nil {
		s.rangeError(writer, err)
		return
	}
	ranking := data.Ranking()

	colors := make(map[string]string, len(data.Players))
	for i, player := range data.Players {
		colors[player] = utils.ColorFor(i)
	}

	s.sendJSON(writer, rankingResponse{
		Start:     start,
		End:       end,
		TableOf:   tableOf,
		Standings: ranking.Standings,
		Series:    ranking.Series,
		Colors:    colors,
	}, http.StatusOK)
}

func (s *ScoreServer) GetStatistics(writer http.ResponseWriter, request *http.Request) {
	start, end, tableOf, err := s.queryRange(request)
	if err != nil {
		s.Logger.Error("Bad statistics query", err)
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	data, err := s.loadData(start, end, tableOf)
	if err != nil {
		s.rangeError(writer, err)
		return
	}
	s.sendJSON(writer, stats.Build(data), http.StatusOK)
}

// rangeError distinguishes corrupt stored data, which the caller cannot
// fix by changing the query, from plain fetch failures.
func (s *ScoreServer) rangeError(writer http.ResponseWriter, err error) {
	s.Logger.Error("Aggregation run aborted", err)
	var roleErr *rank.RoleError
	if errors.As(err, &roleErr) {
		s.sendJSON(writer, map[string]string{"error": roleErr.Error()}, http.StatusUnprocessableEntity)
		return
	}
	writer.WriteHeader(http.StatusInternalServerError)
}

// donneInput validates one incoming donne and its seats before storage.
func (s *ScoreServer) donneInput(payload parser.DonnePayload, tableOf int, handID int64) (db.DonneInput, error) {
	donne, err := payload.ToDonne()
	if err != nil {
		return db.DonneInput{}, err
	}
	if err := tarot.CheckDonne(donne); err != nil {
		return db.DonneInput{}, err
	}
	row := rank.DonneRow{
		Hand: rank.Hand{ID: handID, Tete: payload.Tete, Donne: donne},
		Roles: rank.Roles{
			Preneur: payload.Preneur,
			Appele:  payload.Appele,
			Defense: payload.Defense,
			Pnj:     payload.Pnj,
		},
	}
	if err := rank.CheckRoles(row, tableOf); err != nil {
		return db.DonneInput{}, err
	}
	return db.DonneInput{
		Tete:    payload.Tete,
		Donne:   donne,
		Preneur: payload.Preneur,
		Appele:  payload.Appele,
		Defense: payload.Defense,
		Pnj:     payload.Pnj,
	}, nil
}
