package state

import (
	"fmt"
	"sync"
)

type Store interface {
	GetLiveGame(gameId string) (*LiveGame, error)
	SetLiveGame(gameId string, g *LiveGame)
	DeleteLiveGame(gameId string)
}

type InMemoryLiveGameStore struct {
	store map[string]*LiveGame
	mut   sync.RWMutex
}

func NewInMemoryLiveGameStore() *InMemoryLiveGameStore {
	return &InMemoryLiveGameStore{store: make(map[string]*LiveGame)}
}

func (i *InMemoryLiveGameStore) GetLiveGame(gameId string) (*LiveGame, error) {
	i.mut.RLock()
	defer i.mut.RUnlock()
	game, exists := i.store[gameId]
	if !exists {
		return nil, fmt.Errorf("no live partie with id %s", gameId)
	}
	return game, nil
}

func (i *InMemoryLiveGameStore) SetLiveGame(gameId string, game *LiveGame) {
	i.mut.Lock()
	defer i.mut.Unlock()
	i.store[gameId] = game
}

func (i *InMemoryLiveGameStore) DeleteLiveGame(gameId string) {
	i.mut.Lock()
	defer i.mut.Unlock()
	delete(i.store, gameId)
}
