package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"tarotrack/db"
	"tarotrack/logger"
	"tarotrack/parser"
	"tarotrack/state"
	"tarotrack/tarot"
)

const HTTP_API_V1_PREFIX = "/api/v1"

type ScoreServer struct {
	Db          db.Repository
	Logger      logger.Logger
	port        string
	wssUpgrader websocket.Upgrader
	Router      *mux.Router
	LiveGames   state.Store
}

func NewScoreServer(port string) (*ScoreServer, error) {
	repo, err := db.SetupDB(os.Getenv("TAROT_DB"))
	if err != nil {
		return nil, err
	}
	router := mux.NewRouter().PathPrefix(HTTP_API_V1_PREFIX).Subrouter()
	s := &ScoreServer{
		Db:     repo,
		Logger: logger.New("api_server"),
		port:   port,
		wssUpgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		Router:    router,
		LiveGames: state.NewInMemoryLiveGameStore(),
	}
	s.registerRoutes()
	return s, nil
}

func (s *ScoreServer) registerRoutes() {
	s.Router.HandleFunc("/players", s.CreatePlayer).Methods("POST")
	s.Router.HandleFunc("/players", s.ListPlayers).Methods("GET")
	s.Router.HandleFunc("/players", s.UpdatePlayers).Methods("PATCH")
	s.Router.HandleFunc("/dates", s.DateBounds).Methods("GET")
	s.Router.HandleFunc("/ranking", s.GetRanking).Methods("GET")
	s.Router.HandleFunc("/statistics", s.GetStatistics).Methods("GET")
	s.Router.HandleFunc("/games", s.SavePartie).Methods("POST")
	s.Router.HandleFunc("/live", s.CreateLiveGame).Methods("POST")
	s.Router.HandleFunc("/live/{gameId:[a-z]+}", s.HandleLiveGame)
}

func (s *ScoreServer) Run() {
	s.Logger.Info(fmt.Sprintf("Starting server on port %s", s.port))
	sigtermHandler := make(chan os.Signal, 1)
	signal.Notify(sigtermHandler, os.Interrupt)
	go func() {
		<-sigtermHandler
		s.Shutdown()
		os.Exit(0)
	}()
	if err := http.ListenAndServe(fmt.Sprintf(":%s", s.port), s.Router); err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to start server on port %s", s.port), err)
		return
	}
}

func (s *ScoreServer) Shutdown() {
	s.Logger.Info("Shutting down server....")
	s.Db.CloseConnection()
	s.Logger.Info("Goodbye !")
}

func (s *ScoreServer) UpgradeToWebsocket(writer http.ResponseWriter, request *http.Request) *websocket.Conn {
	conn, err := s.wssUpgrader.Upgrade(writer, request, nil)
	if err != nil {
		s.Logger.Error("Failed to upgrade to WS connection", err)
		return nil
	}
	return conn
}

func (s *ScoreServer) ReadRequestBody(request *http.Request) ([]byte, error) {
	bodyReader := request.Body
	bytesRead, err := io.ReadAll(bodyReader)
	if err != nil {
		s.Logger.Error("Failed to read request body", err)
		return nil, err
	}
	return bytesRead, nil
}

func (s *ScoreServer) sendResponse(writer http.ResponseWriter, responseBody []byte, status int) {
	writer.WriteHeader(status)
	if responseBody == nil {
		return
	}
	_, err := writer.Write(responseBody)
	if err != nil {
		s.Logger.Info("Failed to write response body")
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
}

func (s *ScoreServer) sendJSON(writer http.ResponseWriter, payload any, status int) {
	responseBody, err := json.Marshal(payload)
	if err != nil {
		s.sendResponse(writer, nil, http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	s.sendResponse(writer, responseBody, status)
}

func (s *ScoreServer) CreatePlayer(writer http.ResponseWriter, request *http.Request) {
	s.Logger.Info("Creating a new player")
	data, err := s.ReadRequestBody(request)
	if err != nil {
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	playerRequest, err := parser.ParseCreatePlayerRequest(data)
	if err != nil {
		s.Logger.Error("Failed to parse new player request", err)
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	playerRequest.Nickname = strings.TrimSpace(playerRequest.Nickname)

	existing, err := s.Db.AllPlayers()
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !tarot.NicknameValid(playerRequest.Nickname, existing) {
		s.Logger.Error(fmt.Sprintf("Rejected nickname %q", playerRequest.Nickname), nil)
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	player := db.Player{
		Nickname:  playerRequest.Nickname,
		Surname:   playerRequest.Surname,
		Firstname: playerRequest.Firstname,
		Active:    true,
	}
	if err := s.Db.InsertPlayer(player); err != nil {
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	s.sendResponse(writer, nil, http.StatusCreated)
}

func (s *ScoreServer) ListPlayers(writer http.ResponseWriter, request *http.Request) {
	status := request.URL.Query().Get("status")
	var nicknames []string
	var err error
	switch status {
	case "", "active":
		nicknames, err = s.Db.ActivePlayers()
	case "inactive":
		nicknames, err = s.Db.InactivePlayers()
	case "all":
		nicknames, err = s.Db.AllPlayers()
	case "seen":
		// Players who actually sat at a partie of the filtered range.
		start, end, tableOf, rerr := s.queryRange(request)
		if rerr != nil {
			s.Logger.Error("Bad player range query", rerr)
			writer.WriteHeader(http.StatusBadRequest)
			return
		}
		nicknames, err = s.Db.GetDistinctPlayers(start, end, tableOf)
	default:
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.sendJSON(writer, nicknames, http.StatusOK)
}

func (s *ScoreServer) UpdatePlayers(writer http.ResponseWriter, request *http.Request) {
	data, err := s.ReadRequestBody(request)
	if err != nil {
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	updateRequest, err := parser.ParseUpdatePlayersRequest(data)
	if err != nil {
		s.Logger.Error("Failed to parse player update request", err)
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	if err := s.Db.UpdatePlayerStatus(updateRequest.Status); err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.sendResponse(writer, nil, http.StatusOK)
}

func (s *ScoreServer) DateBounds(writer http.ResponseWriter, request *http.Request) {
	start, end, err := s.Db.GetDateBounds()
	if err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}
	s.sendJSON(writer, parser.DatesResponse{Start: start, End: end}, http.StatusOK)
}

// SavePartie records a finalized session. Every donne is validated up
// front: a partie is immutable once stored, so nothing questionable may
// get in.
func (s *ScoreServer) SavePartie(writer http.ResponseWriter, request *http.Request) {
	data, err := s.ReadRequestBody(request)
	if err != nil {
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	partieRequest, err := parser.ParseSavePartieRequest(data)
	if err != nil {
		s.Logger.Error("Failed to parse save partie request", err)
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	if partieRequest.TableOf < 3 || partieRequest.TableOf > 5 {
		s.Logger.Error(fmt.Sprintf("Rejected table of %d", partieRequest.TableOf), nil)
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	// Six players rotate a pnj over donnes of five; any other roster
	// must match the table size exactly.
	sixPlayers := partieRequest.TableOf == 5 && len(partieRequest.Players) == 6
	if len(partieRequest.Players) != partieRequest.TableOf && !sixPlayers {
		s.Logger.Error(fmt.Sprintf("Rejected %d players at a table of %d",
			len(partieRequest.Players), partieRequest.TableOf), nil)
		writer.WriteHeader(http.StatusBadRequest)
		return
	}

	inputs := make([]db.DonneInput, 0, len(partieRequest.Donnes))
	for i, payload := range partieRequest.Donnes {
		if sixPlayers && payload.Pnj == "" {
			s.Logger.Error(fmt.Sprintf("Rejected donne %d", i+1),
				fmt.Errorf("no pnj named for a partie of 6 players"))
			writer.WriteHeader(http.StatusBadRequest)
			return
		}
		input, err := s.donneInput(payload, partieRequest.TableOf, int64(i+1))
		if err != nil {
			s.Logger.Error(fmt.Sprintf("Rejected donne %d", i+1), err)
			writer.WriteHeader(http.StatusBadRequest)
			return
		}
		inputs = append(inputs, input)
	}

	partieID, err := s.Db.InsertPartie(partieRequest.Date, partieRequest.TableOf, partieRequest.Players, inputs)
	if err != nil {
		writer.WriteHeader(http.StatusBadRequest)
		return
	}
	s.sendJSON(writer, parser.SavePartieResponse{PartieId: partieID}, http.StatusCreated)
}
