package migrations

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	upErr  error
	closed bool
}

func (f *fakeMigrator) Up() error {
	return f.upErr
}

func (f *fakeMigrator) Close() (error, error) {
	f.closed = true
	return nil, nil
}

func stubFactories(t *testing.T, m migrator) (capturedSource *string) {
	t.Helper()

	origDriver := driverFactory
	origMigrator := migratorFactory
	t.Cleanup(func() {
		driverFactory = origDriver
		migratorFactory = origMigrator
	})

	var source string
	capturedSource = &source

	driverFactory = func(db *sql.DB, cfg Config) (database.Driver, error) {
		return nil, nil
	}
	migratorFactory = func(sourceURL string, driver database.Driver) (migrator, error) {
		source = sourceURL
		return m, nil
	}

	return capturedSource
}

func TestUpRejectsNilDB(t *testing.T) {
	err := Up(context.Background(), nil, Config{})
	assert.Error(t, err)
}

func TestUpAppliesMigrations(t *testing.T) {
	fake := &fakeMigrator{}
	source := stubFactories(t, fake)

	err := Up(context.Background(), &sql.DB{}, Config{Dir: "migrations"})
	require.NoError(t, err)
	assert.True(t, fake.closed)
	assert.True(t, strings.HasPrefix(*source, "file://"), "source URL should use the file scheme, got %q", *source)
}

func TestUpTreatsNoChangeAsSuccess(t *testing.T) {
	fake := &fakeMigrator{upErr: migrate.ErrNoChange}
	stubFactories(t, fake)

	err := Up(context.Background(), &sql.DB{}, Config{})
	assert.NoError(t, err)
}

func TestUpWrapsMigrationFailure(t *testing.T) {
	upErr := errors.New("dirty database")
	fake := &fakeMigrator{upErr: upErr}
	stubFactories(t, fake)

	err := Up(context.Background(), &sql.DB{}, Config{})
	assert.ErrorIs(t, err, upErr)
}

func TestUpHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Up(ctx, &sql.DB{}, Config{})
	assert.ErrorIs(t, err, context.Canceled)
}
