package migration

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run applies the embedded schema migrations on startup so a fresh
// install is usable without external tooling.
func Run(db *gorm.DB, log *zap.Logger) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrap database handle: %w", err)
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dialect := db.Dialector.Name()
	var driver database.Driver
	switch dialect {
	case "postgres":
		driver, err = postgres.WithInstance(sqlDB, &postgres.Config{})
	case "mysql":
		driver, err = mysql.WithInstance(sqlDB, &mysql.Config{})
	case "sqlite":
		driver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	default:
		return fmt.Errorf("unsupported dialect %q", dialect)
	}
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, dialect, driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Not closing the migrator; that would close the shared *sql.DB.

	if errors.Is(upErr, migrate.ErrNoChange) {
		log.Info("schema up to date")
	} else {
		log.Info("schema migrated")
	}
	return nil
}

var Module = fx.Module("migration",
	fx.Invoke(Run),
)
