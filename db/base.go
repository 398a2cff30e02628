package db

import (
	"time"

	"tarotrack/logger"

	_ "github.com/mattn/go-sqlite3"
)

// Role names the three one-player-per-donne join tables. Defenders have
// their own accessor because a donne holds up to four of them.
type Role string

const (
	RolePreneur Role = "preneur"
	RoleAppele  Role = "appele"
	RolePnj     Role = "pnj"
)

type Repository interface {
	SetupConnection(database string) error
	CloseConnection()

	InsertPlayer(player Player) error
	ActivePlayers() ([]string, error)
	InactivePlayers() ([]string, error)
	AllPlayers() ([]string, error)
	UpdatePlayerStatus(status map[string]bool) error

	InsertPartie(date time.Time, tableOf int, players []string, donnes []DonneInput) (int64, error)

	GetDonnes(start, end time.Time, tableOf int) ([]DonneRow, error)
	GetRole(role Role, start, end time.Time, tableOf int) (map[int64]string, error)
	GetDefenses(start, end time.Time, tableOf int) (map[int64][]string, error)
	GetDistinctPlayers(start, end time.Time, tableOf int) ([]string, error)
	GetDateBounds() (start, end time.Time, err error)
}

func SetupDB(dbName string) (Repository, error) {
	var repository Repository = &SqliteStore{
		Logger: logger.New("database"),
	}
	err := repository.SetupConnection(dbName)
	return repository, err
}
