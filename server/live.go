package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"tarotrack/db"
	"tarotrack/parser"
	"tarotrack/state"
	"tarotrack/utils"
)

// CreateLiveGame opens an in-progress session for a seated group of
// players. Donnes are then entered over the websocket endpoint.
func (s *ScoreServer) CreateLiveGame(writer http.ResponseWriter, request *http.Request) {
	data, err := s.ReadRequestBody(request)
	if err != nil {
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	liveRequest, err := parser.ParseCreateLiveGameRequest(data)
	if err != nil {
		s.Logger.Error("Failed to parse live game request", err)
		writer.WriteHeader(http.StatusBadRequest)
		return
	}

	known, err := s.Db.AllPlayers()
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	knownSet := make(map[string]bool, len(known))
	for _, nickname := range known {
		knownSet[nickname] = true
	}
	for _, nickname := range liveRequest.Players {
		if !knownSet[nickname] {
			s.Logger.Error(fmt.Sprintf("Unknown player %s in live game request", nickname), nil)
			writer.WriteHeader(http.StatusBadRequest)
			return
		}
	}

	gameId := utils.GetRandomGameId(6)
	game, err := state.NewLiveGame(gameId, liveRequest.Players)
	if err != nil {
		s.Logger.Error("Failed to open live game", err)
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	s.LiveGames.SetLiveGame(gameId, game)
	s.Logger.Info(fmt.Sprintf("Live game %s opened for %d players", gameId, len(liveRequest.Players)))
	s.sendJSON(writer, parser.CreateLiveGameResponse{GameId: gameId, TableOf: game.TableOf()}, http.StatusCreated)
}

// HandleLiveGame runs the websocket loop of one live session: donne
// entries come in, the recomputed score table goes out to every
// watcher, and a save command persists the partie and ends the session.
func (s *ScoreServer) HandleLiveGame(writer http.ResponseWriter, request *http.Request) {
	gameId := mux.Vars(request)["gameId"]
	game, err := s.LiveGames.GetLiveGame(gameId)
	if err != nil {
		s.Logger.Error("Unrecognized live game id", err)
		writer.WriteHeader(http.StatusNotFound)
		return
	}

	wssConn := s.UpgradeToWebsocket(writer, request)
	if wssConn == nil {
		return
	}
	watcher := wssConn.RemoteAddr().String()
	game.AddConnection(watcher, wssConn)
	defer func() {
		game.RemoveConnection(watcher)
		wssConn.Close()
	}()

	for {
		command := &parser.LiveCommand{}
		if err := wssConn.ReadJSON(command); err != nil {
			s.Logger.Info(fmt.Sprintf("Watcher left live game %s", gameId))
			return
		}
		if done := s.applyLiveCommand(game, wssConn, command); done {
			return
		}
	}
}

func (s *ScoreServer) applyLiveCommand(game *state.LiveGame, wssConn wsWriter, command *parser.LiveCommand) bool {
	switch command.Action {
	case "add", "replace":
		if command.Donne == nil {
			s.replyError(wssConn, fmt.Errorf("%s command without a donne", command.Action))
			return false
		}
		entry, err := liveEntry(*command.Donne)
		if err != nil {
			s.replyError(wssConn, err)
			return false
		}
		if command.Action == "add" {
			err = game.AddDonne(entry)
		} else {
			err = game.ReplaceDonne(command.Index, entry)
		}
		if err != nil {
			s.replyError(wssConn, err)
			return false
		}
		s.broadcastScores(game)
	case "draw_pnj":
		pnj, err := game.DrawPnj()
		if err != nil {
			s.replyError(wssConn, err)
			return false
		}
		_ = wssConn.WriteJSON(map[string]string{"pnj": pnj})
	case "save":
		partieID, err := s.persistLiveGame(game, command)
		if err != nil {
			s.replyError(wssConn, err)
			return false
		}
		game.Broadcast(parser.SavePartieResponse{PartieId: partieID})
		s.LiveGames.DeleteLiveGame(game.ID())
		s.Logger.Info(fmt.Sprintf("Live game %s saved as partie %d", game.ID(), partieID))
		return true
	default:
		s.replyError(wssConn, fmt.Errorf("unknown action %q", command.Action))
	}
	return false
}

// wsWriter is the slice of the websocket connection the command loop
// writes replies through.
type wsWriter interface {
	WriteJSON(v any) error
}

func (s *ScoreServer) replyError(wssConn wsWriter, err error) {
	s.Logger.Error("Rejected live command", err)
	_ = wssConn.WriteJSON(map[string]string{"error": err.Error()})
}

func (s *ScoreServer) broadcastScores(game *state.LiveGame) {
	scores, err := game.Scores()
	if err != nil {
		s.Logger.Error("Failed to recompute live scores", err)
		return
	}
	game.Broadcast(scores)
}

func (s *ScoreServer) persistLiveGame(game *state.LiveGame, command *parser.LiveCommand) (int64, error) {
	entries := game.Entries()
	if len(entries) == 0 {
		return 0, fmt.Errorf("nothing to save")
	}
	inputs := make([]db.DonneInput, 0, len(entries))
	for _, entry := range entries {
		inputs = append(inputs, db.DonneInput{
			Tete:    entry.Tete,
			Donne:   entry.Donne,
			Preneur: entry.Preneur,
			Appele:  entry.Appele,
			Defense: entry.Defense,
			Pnj:     entry.Pnj,
		})
	}
	return s.Db.InsertPartie(command.Date, game.TableOf(), game.Players(), inputs)
}

func liveEntry(payload parser.DonnePayload) (state.Entry, error) {
	donne, err := payload.ToDonne()
	if err != nil {
		return state.Entry{}, err
	}
	return state.Entry{
		Tete:    payload.Tete,
		Donne:   donne,
		Preneur: payload.Preneur,
		Appele:  payload.Appele,
		Defense: payload.Defense,
		Pnj:     payload.Pnj,
	}, nil
}
