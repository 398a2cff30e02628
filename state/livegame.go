// Package state tracks sessions being played: donnes are entered one by
// one and the score table is pushed to watchers until the partie is
// finalized and persisted.
package state

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-set/v2"
	"github.com/samber/lo"

	"tarotrack/rank"
	"tarotrack/tarot"
	"tarotrack/utils"
)

// Entry is one donne entered during a live session.
type Entry struct {
	Tete    string      `json:"tete,omitempty"`
	Donne   tarot.Donne `json:"donne"`
	Preneur string      `json:"preneur"`
	Appele  string      `json:"appele,omitempty"`
	Defense []string    `json:"defense"`
	Pnj     string      `json:"pnj,omitempty"`
}

// LiveGame is one in-progress session. Scores are never patched in
// place: every read recomputes the table from the entry list, so an
// edited donne cannot leave stale totals behind.
type LiveGame struct {
	id      string
	players []string
	seated  *set.Set[string]
	tableOf int

	pnjPool []string
	lastPnj string

	entries     []Entry
	connections map[string]*websocket.Conn
	mut         sync.Mutex
}

func NewLiveGame(id string, players []string) (*LiveGame, error) {
	if len(players) < 3 || len(players) > 6 {
		return nil, fmt.Errorf("a partie needs 3 to 6 players, got %d", len(players))
	}
	tableOf := len(players)
	if tableOf > 5 {
		// Six players rotate a pnj and play donnes of five.
		tableOf = 5
	}
	g := &LiveGame{
		id:          id,
		players:     players,
		seated:      set.From(players),
		tableOf:     tableOf,
		connections: make(map[string]*websocket.Conn),
	}
	if len(players) == 6 {
		g.pnjPool = append([]string{}, players...)
	}
	return g, nil
}

func (g *LiveGame) ID() string {
	return g.id
}

func (g *LiveGame) Players() []string {
	return g.players
}

func (g *LiveGame) TableOf() int {
	return g.tableOf
}

// DrawPnj picks the next non-playing player of a 6-player session: a
// random draw from the remaining pool, never the same player twice in a
// row, pool refilled once everyone sat out.
func (g *LiveGame) DrawPnj() (string, error) {
	g.mut.Lock()
	defer g.mut.Unlock()
	if len(g.players) != 6 {
		return "", fmt.Errorf("no pnj at a table of %d players", len(g.players))
	}
	if len(g.pnjPool) == 0 {
		g.pnjPool = append([]string{}, g.players...)
	}
	pnj := utils.RandomExcluding(g.pnjPool, g.lastPnj)
	g.pnjPool = utils.Remove(g.pnjPool, pnj)
	g.lastPnj = pnj
	return pnj, nil
}

// AddDonne validates and appends one donne entry.
func (g *LiveGame) AddDonne(entry Entry) error {
	g.mut.Lock()
	defer g.mut.Unlock()
	if err := g.checkEntry(entry); err != nil {
		return err
	}
	g.entries = append(g.entries, entry)
	return nil
}

// ReplaceDonne swaps an already entered donne, as the score table
// allows editing any row of the running partie.
func (g *LiveGame) ReplaceDonne(index int, entry Entry) error {
	g.mut.Lock()
	defer g.mut.Unlock()
	if index < 0 || index >= len(g.entries) {
		return fmt.Errorf("no donne at index %d", index)
	}
	if err := g.checkEntry(entry); err != nil {
		return err
	}
	g.entries[index] = entry
	return nil
}

func (g *LiveGame) checkEntry(entry Entry) error {
	if err := tarot.CheckDonne(entry.Donne); err != nil {
		return err
	}
	row := rank.DonneRow{
		Hand: rank.Hand{ID: int64(len(g.entries) + 1), Tete: entry.Tete, Donne: entry.Donne},
		Roles: rank.Roles{
			Preneur: entry.Preneur,
			Appele:  entry.Appele,
			Defense: entry.Defense,
			Pnj:     entry.Pnj,
		},
	}
	if err := rank.CheckRoles(row, g.tableOf); err != nil {
		return err
	}
	// The role check runs at the donne's table size, where a pnj is
	// optional; whether one must sit out is a property of the session.
	if len(g.players) == 6 && entry.Pnj == "" {
		return fmt.Errorf("a partie of 6 players needs a pnj on every donne")
	}
	if len(g.players) < 6 && entry.Pnj != "" {
		return fmt.Errorf("no pnj at a partie of %d players", len(g.players))
	}
	for _, nickname := range append([]string{entry.Preneur, entry.Pnj, entry.Appele}, entry.Defense...) {
		if nickname == "" || tarot.IsPlaceholder(nickname) {
			continue
		}
		if !g.seated.Contains(nickname) {
			return fmt.Errorf("%s is not seated at this partie", nickname)
		}
	}
	return nil
}

func (g *LiveGame) Entries() []Entry {
	g.mut.Lock()
	defer g.mut.Unlock()
	return append([]Entry{}, g.entries...)
}

// Scores recomputes the whole per-player table from scratch. Series are
// zero-prefixed cumulative curves for the in-game chart; Totals the
// current standing of each player.
type Scores struct {
	Series map[string][]int `json:"series"`
	Totals map[string]int   `json:"totals"`
}

func (g *LiveGame) Scores() (*Scores, error) {
	g.mut.Lock()
	defer g.mut.Unlock()

	scores := &Scores{
		Series: make(map[string][]int, len(g.players)),
		Totals: make(map[string]int, len(g.players)),
	}
	for _, player := range g.players {
		scores.Series[player] = []int{0}
	}

	for i, entry := range g.entries {
		result, err := entry.Donne.Result()
		if err != nil {
			return nil, fmt.Errorf("donne %d: %w", i+1, err)
		}
		rep, err := tarot.Distribute(result, entry.Appele, g.tableOf)
		if err != nil {
			return nil, fmt.Errorf("donne %d: %w", i+1, err)
		}
		for _, player := range g.players {
			// A player the donne names in no role, the pnj included,
			// scores zero.
			delta := 0
			switch {
			case player == entry.Preneur:
				delta = rep.Preneur
			case player == entry.Appele:
				delta = rep.Appele
			case lo.Contains(entry.Defense, player):
				delta = rep.Defense
			}
			scores.Totals[player] += delta
			scores.Series[player] = append(scores.Series[player], scores.Totals[player])
		}
	}
	return scores, nil
}

func (g *LiveGame) AddConnection(watcher string, conn *websocket.Conn) {
	g.mut.Lock()
	defer g.mut.Unlock()
	g.connections[watcher] = conn
}

func (g *LiveGame) RemoveConnection(watcher string) {
	g.mut.Lock()
	defer g.mut.Unlock()
	delete(g.connections, watcher)
}

// Broadcast pushes a payload to every connected watcher.
func (g *LiveGame) Broadcast(payload any) {
	g.mut.Lock()
	defer g.mut.Unlock()
	for _, conn := range g.connections {
		// A dead connection is dropped on its own read loop.
		_ = conn.WriteJSON(payload)
	}
}
