package database

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/moviegraph/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := Open(config.DatabaseFullConfig{Type: "sqlite", DatabasePath: ":memory:"}, hclog.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(conn) })
	require.NoError(t, Migrate(conn))
	return conn
}

func TestSeedIsIdempotent(t *testing.T) {
	conn := openMemory(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, conn))
	require.NoError(t, Seed(ctx, conn))

	var roles []PersonRole
	require.NoError(t, conn.Order("id").Find(&roles).Error)
	require.Len(t, roles, 3)
	assert.Equal(t, "director", roles[0].Description)
	assert.Equal(t, "composer", roles[2].Description)

	var statuses int64
	require.NoError(t, conn.Model(&MovieStatus{}).Count(&statuses).Error)
	assert.Equal(t, int64(4), statuses)
}

func TestMoviePersonsUniqueTriple(t *testing.T) {
	conn := openMemory(t)
	require.NoError(t, Seed(context.Background(), conn))

	person := Person{FirstName: "Agnès", LastName: "Varda", DateOfBirth: time.Date(1928, 5, 30, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, conn.Create(&person).Error)
	movie := Movie{FrenchTitle: "Cléo de 5 à 7", OriginalTitle: "Cléo de 5 à 7", StatusID: StatusReleased}
	require.NoError(t, conn.Create(&movie).Error)

	link := MoviePersons{MovieID: movie.ID, PersonID: person.ID, RoleID: RoleDirector}
	require.NoError(t, conn.Create(&link).Error)

	dup := MoviePersons{MovieID: movie.ID, PersonID: person.ID, RoleID: RoleDirector}
	assert.Error(t, conn.Create(&dup).Error)

	other := MoviePersons{MovieID: movie.ID, PersonID: person.ID, RoleID: RoleComposer}
	assert.NoError(t, conn.Create(&other).Error)
}

func TestForeignKeysEnforcedOnSQLite(t *testing.T) {
	conn := openMemory(t)
	require.NoError(t, Seed(context.Background(), conn))

	orphan := Movie{FrenchTitle: "Sans statut", OriginalTitle: "No status", StatusID: 99}
	assert.Error(t, conn.Create(&orphan).Error)
}

func TestOpenCreatesSQLiteDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "moviegraph.db")
	conn, err := Open(config.DatabaseFullConfig{Type: "sqlite", DatabasePath: path}, hclog.NewNullLogger())
	require.NoError(t, err)
	defer Close(conn)

	assert.NoError(t, Ping(context.Background(), conn))
	assert.FileExists(t, path)
}

func TestMemoryDatabaseOutlivesConnectionLifetime(t *testing.T) {
	cfg := config.DefaultConfig().Database
	cfg.DatabasePath = ":memory:"
	cfg.ConnMaxLifetime = 50 * time.Millisecond
	cfg.ConnMaxIdleTime = 50 * time.Millisecond

	conn, err := Open(cfg, hclog.NewNullLogger())
	require.NoError(t, err)
	defer Close(conn)
	require.NoError(t, Migrate(conn))

	person := Person{FirstName: "Jacques", LastName: "Demy", DateOfBirth: time.Date(1931, 6, 5, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, conn.Create(&person).Error)

	time.Sleep(150 * time.Millisecond)

	var count int64
	require.NoError(t, conn.Model(&Person{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMemoryURLUsesSingleConnection(t *testing.T) {
	cfg := config.DefaultConfig().Database
	cfg.DatabasePath = filepath.Join(t.TempDir(), "unused", "moviegraph.db")
	cfg.URL = "sqlite://:memory:"

	conn, err := Open(cfg, hclog.NewNullLogger())
	require.NoError(t, err)
	defer Close(conn)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	assert.NoDirExists(t, filepath.Dir(cfg.DatabasePath))

	require.NoError(t, Migrate(conn))
	require.NoError(t, Seed(context.Background(), conn))
	var roles int64
	require.NoError(t, conn.Model(&PersonRole{}).Count(&roles).Error)
	assert.Equal(t, int64(3), roles)
}

func TestFileDatabaseUsesConfiguredPool(t *testing.T) {
	cfg := config.DefaultConfig().Database
	cfg.DatabasePath = filepath.Join(t.TempDir(), "moviegraph.db")
	cfg.MaxOpenConns = 7

	conn, err := Open(cfg, hclog.NewNullLogger())
	require.NoError(t, err)
	defer Close(conn)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	assert.Equal(t, 7, sqlDB.Stats().MaxOpenConnections)
}

func TestOpenRejectsUnknownType(t *testing.T) {
	_, err := Open(config.DatabaseFullConfig{Type: "oracle"}, hclog.NewNullLogger())
	assert.Error(t, err)
}

func TestSeedOnPostgresUsesOnConflict(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: NewGormLogger(hclog.NewNullLogger(), 0, false),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "person_roles"`) + `.*ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "movie_status"`) + `.*ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(3).AddRow(4))
	mock.ExpectCommit()

	require.NoError(t, Seed(context.Background(), conn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonFullName(t *testing.T) {
	assert.Equal(t, "Jean Renoir", Person{FirstName: "Jean", LastName: "Renoir"}.FullName())
}
