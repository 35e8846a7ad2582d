package migrate

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

type Backend string

const (
	Postgres Backend = "postgres"
	Sqlite   Backend = "sqlite"
)

//go:embed migrations
var migrations embed.FS

// MigrateDb applies the cache schema of the backend.
// For Postgres dbURI is a postgresql:// url, for Sqlite the path of the db file.
func MigrateDb(backend Backend, dbURI string) error {
	source, err := iofs.New(migrations, "migrations/"+string(backend))
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL(backend, dbURI))
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func databaseURL(backend Backend, dbURI string) string {
	switch backend {
	case Postgres:
		ret := strings.Replace(dbURI, "postgresql://", "pgx5://", 1)
		return strings.Replace(ret, "postgres://", "pgx5://", 1)
	case Sqlite:
		if strings.HasPrefix(dbURI, "sqlite://") {
			return dbURI
		}
		return fmt.Sprintf("sqlite://%s", dbURI)
	}
	return dbURI
}
