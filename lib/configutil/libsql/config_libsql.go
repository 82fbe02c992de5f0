package configlibsql

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct is the database section of a service config. Either a local
// sqlite file or a remote libsql url may be given; File wins when
// both are set.
type Struct struct {
	File string `json:"file"`
	Url  string `json:"url"`
}

// OpenDB opens the configured database and applies the given schema.
// Local sqlite files are created on first use and forced into WAL
// mode with a single writer connection, see
// https://stackoverflow.com/questions/35804884 for why.
func (config Struct) OpenDB(schema string) (*sql.DB, error) {
	db, err := config.open()
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(schema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return nil, err
	}
	return db, nil
}

func (config Struct) open() (*sql.DB, error) {
	if config.File != "" {
		_, statErr := os.Stat(config.File)
		if os.IsNotExist(statErr) {
			f, err := os.Create(config.File)
			if err != nil {
				return nil, err
			}
			f.Close()
		}

		db, err := sql.Open("sqlite", config.File)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(1)
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	if config.Url != "" {
		return sql.Open("libsql", config.Url)
	}

	return nil, fmt.Errorf("neither a database file nor a url was specified")
}
