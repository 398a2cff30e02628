package parser

import (
	"encoding/json"
	"time"

	"tarotrack/tarot"
)

type CreatePlayerRequest struct {
	Nickname  string `json:"nickname"`
	Surname   string `json:"surname"`
	Firstname string `json:"firstname"`
}

type UpdatePlayersRequest struct {
	// Nickname to wanted active flag.
	Status map[string]bool `json:"status"`
}

// DonnePayload is the wire form of one donne with its seats; enum
// fields travel as their canonical tokens.
type DonnePayload struct {
	Contract    string   `json:"contract"`
	Bouts       int      `json:"bouts"`
	Points      float64  `json:"points"`
	Poignee     string   `json:"poignee,omitempty"`
	Petit       string   `json:"petit,omitempty"`
	PetitChelem bool     `json:"petit_chelem,omitempty"`
	GrandChelem string   `json:"grand_chelem,omitempty"`
	Tete        string   `json:"tete,omitempty"`
	Preneur     string   `json:"preneur"`
	Appele      string   `json:"appele,omitempty"`
	Defense     []string `json:"defense"`
	Pnj         string   `json:"pnj,omitempty"`
}

// ToDonne decodes the enum tokens; unknown tokens are a caller error.
func (p DonnePayload) ToDonne() (tarot.Donne, error) {
	contract, err := tarot.ParseContract(p.Contract)
	if err != nil {
		return tarot.Donne{}, err
	}
	poignee, err := tarot.ParsePoignee(p.Poignee)
	if err != nil {
		return tarot.Donne{}, err
	}
	petit, err := tarot.ParsePetit(p.Petit)
	if err != nil {
		return tarot.Donne{}, err
	}
	grandChelem, err := tarot.ParseGrandChelem(p.GrandChelem)
	if err != nil {
		return tarot.Donne{}, err
	}
	return tarot.Donne{
		Contract:    contract,
		Bouts:       p.Bouts,
		Points:      p.Points,
		Poignee:     poignee,
		Petit:       petit,
		PetitChelem: p.PetitChelem,
		GrandChelem: grandChelem,
	}, nil
}

type SavePartieRequest struct {
	Date    time.Time      `json:"date"`
	TableOf int            `json:"table_of"`
	Players []string       `json:"players"`
	Donnes  []DonnePayload `json:"donnes"`
}

type SavePartieResponse struct {
	PartieId int64 `json:"partie_id"`
}

type CreateLiveGameRequest struct {
	Players []string `json:"players"`
}

type CreateLiveGameResponse struct {
	GameId  string `json:"game_id"`
	TableOf int    `json:"table_of"`
}

// LiveCommand is one websocket message of a live session.
type LiveCommand struct {
	// One of "add", "replace", "draw_pnj", "save".
	Action string        `json:"action"`
	Index  int           `json:"index,omitempty"`
	Donne  *DonnePayload `json:"donne,omitempty"`
	Date   time.Time     `json:"date,omitempty"`
}

type DatesResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func ParseCreatePlayerRequest(data []byte) (*CreatePlayerRequest, error) {
	request := &CreatePlayerRequest{}
	err := json.Unmarshal(data, request)
	return request, err
}

func ParseUpdatePlayersRequest(data []byte) (*UpdatePlayersRequest, error) {
	request := &UpdatePlayersRequest{}
	err := json.Unmarshal(data, request)
	return request, err
}

func ParseSavePartieRequest(data []byte) (*SavePartieRequest, error) {
	request := &SavePartieRequest{}
	err := json.Unmarshal(data, request)
	return request, err
}

func ParseCreateLiveGameRequest(data []byte) (*CreateLiveGameRequest, error) {
	request := &CreateLiveGameRequest{}
	err := json.Unmarshal(data, request)
	return request, err
}
