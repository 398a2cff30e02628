package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tarotrack/logger"
	"tarotrack/tarot"
)

var schema = `CREATE TABLE IF NOT EXISTS player (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  nickname varchar NOT NULL UNIQUE,
  surname varchar NOT NULL DEFAULT '',
  firstname varchar NOT NULL DEFAULT '',
  active boolean NOT NULL,
  protect boolean NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS partie (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  date_ datetime NOT NULL UNIQUE,
  table_of int NOT NULL
);

CREATE TABLE IF NOT EXISTS partie_player (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  partie_id int NOT NULL REFERENCES partie(id) ON DELETE CASCADE,
  player_id int NOT NULL REFERENCES player(id)
);

CREATE TABLE IF NOT EXISTS donne (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  partie_id int NOT NULL REFERENCES partie(id) ON DELETE CASCADE,
  nb_bout int NOT NULL,
  contract varchar NOT NULL,
  tete varchar NOT NULL DEFAULT '',
  point float NOT NULL,
  petit varchar NOT NULL DEFAULT '',
  poignee varchar NOT NULL DEFAULT '',
  petit_chelem boolean NOT NULL DEFAULT false,
  grand_chelem varchar NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS preneur (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  donne_id int NOT NULL UNIQUE REFERENCES donne(id) ON DELETE CASCADE,
  player_id int NOT NULL REFERENCES player(id)
);

CREATE TABLE IF NOT EXISTS appele (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  donne_id int NOT NULL UNIQUE REFERENCES donne(id) ON DELETE CASCADE,
  player_id int NOT NULL REFERENCES player(id)
);

CREATE TABLE IF NOT EXISTS defense (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  donne_id int NOT NULL REFERENCES donne(id) ON DELETE CASCADE,
  player_id int NOT NULL REFERENCES player(id),
  number int NOT NULL
);

CREATE TABLE IF NOT EXISTS pnj (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  donne_id int NOT NULL UNIQUE REFERENCES donne(id) ON DELETE CASCADE,
  player_id int NOT NULL REFERENCES player(id)
);`

type SqliteStore struct {
	Conn   *sqlx.DB
	Logger logger.Logger
}

func (s *SqliteStore) SetupConnection(database string) error {
	db, err := sqlx.Connect("sqlite3", database)
	if err != nil {
		s.Logger.Error("Database setup failed", err)
		return err
	}
	s.Conn = db
	// Sqlite allows a single writer; one pooled connection also keeps
	// an in-memory database from being split across connections.
	s.Conn.SetMaxOpenConns(1)
	s.Conn.MustExec(schema)
	if err := s.seedPlaceholders(); err != nil {
		s.Logger.Error("Failed to seed placeholder players", err)
		return err
	}
	s.Logger.Info(fmt.Sprintf("Database %s setup successfully", database))
	return nil
}

// seedPlaceholders inserts the protected non-human players used when a
// 5-seat taker has no real partner. They are created once and can never
// be deleted or deactivated.
func (s *SqliteStore) seedPlaceholders() error {
	sql := `INSERT OR IGNORE INTO player(nickname, active, protect) VALUES(?, false, true);`
	for _, nickname := range []string{tarot.NicknameChien, tarot.NicknameSolo} {
		if _, err := s.Conn.Exec(sql, nickname); err != nil {
			return err
		}
	}
	return nil
}

func (s *SqliteStore) CloseConnection() {
	s.Logger.Info("Closing database connection")
	if err := s.Conn.Close(); err != nil {
		s.Logger.Error("Failed to tear down database connection", err)
		return
	}
	s.Logger.Info("Database connection closed successfully")
}

func (s *SqliteStore) InsertPlayer(player Player) error {
	sql := `INSERT INTO player(nickname, surname, firstname, active, protect) VALUES(?, ?, ?, ?, false);`
	_, err := s.Conn.Exec(sql, player.Nickname, player.Surname, player.Firstname, player.Active)
	if err != nil {
		s.Logger.Error("Failed to save player", err)
		return err
	}
	s.Logger.Info(fmt.Sprintf("Player %s saved", player.Nickname))
	return nil
}

func (s *SqliteStore) ActivePlayers() ([]string, error) {
	nicknames := []string{}
	err := s.Conn.Select(&nicknames, `SELECT nickname FROM player WHERE active = true ORDER BY nickname;`)
	return nicknames, err
}

func (s *SqliteStore) InactivePlayers() ([]string, error) {
	nicknames := []string{}
	sql := `SELECT nickname FROM player WHERE active = false AND protect = false ORDER BY nickname;`
	err := s.Conn.Select(&nicknames, sql)
	return nicknames, err
}

func (s *SqliteStore) AllPlayers() ([]string, error) {
	nicknames := []string{}
	err := s.Conn.Select(&nicknames, `SELECT nickname FROM player ORDER BY nickname;`)
	return nicknames, err
}

// UpdatePlayerStatus toggles the active flag per nickname. Protected
// placeholders are skipped by the predicate.
func (s *SqliteStore) UpdatePlayerStatus(status map[string]bool) error {
	txn, err := s.Conn.Beginx()
	if err != nil {
		s.Logger.Error("Failed to update player status", err)
		return err
	}
	defer txn.Rollback()

	sql := `UPDATE player SET active = ? WHERE nickname = ? AND protect = false;`
	for nickname, active := range status {
		if _, err := txn.Exec(sql, active, nickname); err != nil {
			s.Logger.Error(fmt.Sprintf("Failed to update status of %s", nickname), err)
			return err
		}
	}
	return txn.Commit()
}

// InsertPartie writes a finalized session in one transaction: the
// partie, its participant joins, every donne and its role rows. A
// partie is immutable once committed.
func (s *SqliteStore) InsertPartie(date time.Time, tableOf int, players []string, donnes []DonneInput) (int64, error) {
	txn, err := s.Conn.Beginx()
	if err != nil {
		s.Logger.Error("Failed to open InsertPartie txn", err)
		return 0, err
	}
	defer txn.Rollback()

	res, err := txn.Exec(`INSERT INTO partie(date_, table_of) VALUES(?, ?);`, date, tableOf)
	if err != nil {
		s.Logger.Error("Failed to insert partie", err)
		return 0, err
	}
	partieID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, nickname := range players {
		playerID, err := s.playerID(txn, nickname)
		if err != nil {
			return 0, err
		}
		_, err = txn.Exec(`INSERT INTO partie_player(partie_id, player_id) VALUES(?, ?);`, partieID, playerID)
		if err != nil {
			s.Logger.Error("Failed to insert partie player", err)
			return 0, err
		}
	}

	for _, donne := range donnes {
		if err := s.insertDonne(txn, partieID, donne); err != nil {
			return 0, err
		}
	}

	if err := txn.Commit(); err != nil {
		s.Logger.Error("Failed to commit InsertPartie txn", err)
		return 0, err
	}
	s.Logger.Info(fmt.Sprintf("Partie %d saved with %d donnes", partieID, len(donnes)))
	return partieID, nil
}

func (s *SqliteStore) insertDonne(txn *sqlx.Tx, partieID int64, donne DonneInput) error {
	insertSQL := `INSERT INTO donne(partie_id, nb_bout, contract, tete, point, petit, poignee, petit_chelem, grand_chelem)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?);`
	res, err := txn.Exec(insertSQL, partieID, donne.Donne.Bouts, donne.Donne.Contract.String(),
		donne.Tete, donne.Donne.Points, donne.Donne.Petit.String(), donne.Donne.Poignee.String(),
		donne.Donne.PetitChelem, donne.Donne.GrandChelem.String())
	if err != nil {
		s.Logger.Error("Failed to insert donne", err)
		return err
	}
	donneID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if err := s.insertRole(txn, "preneur", donneID, donne.Preneur); err != nil {
		return err
	}
	if donne.Appele != "" {
		if err := s.insertRole(txn, "appele", donneID, donne.Appele); err != nil {
			return err
		}
	}
	if donne.Pnj != "" {
		if err := s.insertRole(txn, "pnj", donneID, donne.Pnj); err != nil {
			return err
		}
	}
	for i, defender := range donne.Defense {
		playerID, err := s.playerID(txn, defender)
		if err != nil {
			return err
		}
		_, err = txn.Exec(`INSERT INTO defense(donne_id, player_id, number) VALUES(?, ?, ?);`, donneID, playerID, i+1)
		if err != nil {
			s.Logger.Error("Failed to insert defense row", err)
			return err
		}
	}
	return nil
}

func (s *SqliteStore) insertRole(txn *sqlx.Tx, table string, donneID int64, nickname string) error {
	playerID, err := s.playerID(txn, nickname)
	if err != nil {
		return err
	}
	sql := fmt.Sprintf(`INSERT INTO %s(donne_id, player_id) VALUES(?, ?);`, table)
	if _, err := txn.Exec(sql, donneID, playerID); err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to insert %s row", table), err)
		return err
	}
	return nil
}

func (s *SqliteStore) playerID(txn *sqlx.Tx, nickname string) (int64, error) {
	var id int64
	err := txn.Get(&id, `SELECT id FROM player WHERE nickname = ?;`, nickname)
	if err != nil {
		s.Logger.Error(fmt.Sprintf("Unknown player %s", nickname), err)
		return 0, fmt.Errorf("unknown player %q: %w", nickname, err)
	}
	return id, nil
}

func (s *SqliteStore) GetDonnes(start, end time.Time, tableOf int) ([]DonneRow, error) {
	donnes := []DonneRow{}
	sql := `SELECT d.id, d.partie_id, d.nb_bout, d.contract, d.tete, d.point, d.petit, d.poignee, d.petit_chelem, d.grand_chelem
	FROM donne d
	JOIN partie g ON g.id = d.partie_id
	WHERE g.date_ BETWEEN ? AND ? AND g.table_of = ?
	ORDER BY g.date_, d.id;`
	err := s.Conn.Select(&donnes, sql, start, end, tableOf)
	if err != nil {
		s.Logger.Error("Failed to fetch donnes", err)
		return nil, err
	}
	return donnes, nil
}

type roleRow struct {
	DonneID  int64  `db:"donne_id"`
	Nickname string `db:"nickname"`
	Number   int    `db:"number"`
}

func (s *SqliteStore) GetRole(role Role, start, end time.Time, tableOf int) (map[int64]string, error) {
	switch role {
	case RolePreneur, RoleAppele, RolePnj:
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
	rows := []roleRow{}
	sql := fmt.Sprintf(`SELECT r.donne_id, p.nickname, 0 AS number
	FROM %s r
	JOIN donne d ON d.id = r.donne_id
	JOIN partie g ON g.id = d.partie_id
	JOIN player p ON p.id = r.player_id
	WHERE g.date_ BETWEEN ? AND ? AND g.table_of = ?;`, role)
	if err := s.Conn.Select(&rows, sql, start, end, tableOf); err != nil {
		s.Logger.Error(fmt.Sprintf("Failed to fetch %s rows", role), err)
		return nil, err
	}
	byDonne := make(map[int64]string, len(rows))
	for _, row := range rows {
		byDonne[row.DonneID] = row.Nickname
	}
	return byDonne, nil
}

func (s *SqliteStore) GetDefenses(start, end time.Time, tableOf int) (map[int64][]string, error) {
	rows := []roleRow{}
	sql := `SELECT r.donne_id, p.nickname, r.number
	FROM defense r
	JOIN donne d ON d.id = r.donne_id
	JOIN partie g ON g.id = d.partie_id
	JOIN player p ON p.id = r.player_id
	WHERE g.date_ BETWEEN ? AND ? AND g.table_of = ?
	ORDER BY r.donne_id, r.number;`
	if err := s.Conn.Select(&rows, sql, start, end, tableOf); err != nil {
		s.Logger.Error("Failed to fetch defense rows", err)
		return nil, err
	}
	byDonne := make(map[int64][]string)
	for _, row := range rows {
		byDonne[row.DonneID] = append(byDonne[row.DonneID], row.Nickname)
	}
	return byDonne, nil
}

func (s *SqliteStore) GetDistinctPlayers(start, end time.Time, tableOf int) ([]string, error) {
	nicknames := []string{}
	sql := `SELECT DISTINCT p.nickname
	FROM partie_player pp
	JOIN partie g ON g.id = pp.partie_id
	JOIN player p ON p.id = pp.player_id
	WHERE g.date_ BETWEEN ? AND ? AND g.table_of = ?
	ORDER BY p.nickname;`
	err := s.Conn.Select(&nicknames, sql, start, end, tableOf)
	if err != nil {
		s.Logger.Error("Failed to fetch distinct players", err)
		return nil, err
	}
	return nicknames, nil
}

// GetDateBounds returns the dates of the first and last recorded
// parties, used to seed a default query range. An empty store returns
// zero times without error.
func (s *SqliteStore) GetDateBounds() (time.Time, time.Time, error) {
	var first, last Partie
	err := s.Conn.Get(&first, `SELECT id, date_, table_of FROM partie ORDER BY date_ ASC LIMIT 1;`)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, time.Time{}, nil
	}
	if err != nil {
		s.Logger.Error("Failed to fetch date bounds", err)
		return time.Time{}, time.Time{}, err
	}
	if err := s.Conn.Get(&last, `SELECT id, date_, table_of FROM partie ORDER BY date_ DESC LIMIT 1;`); err != nil {
		s.Logger.Error("Failed to fetch date bounds", err)
		return time.Time{}, time.Time{}, err
	}
	return first.Date, last.Date, nil
}
