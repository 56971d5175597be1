package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mantonx/moviegraph/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return New(db), mock
}

func TestPostgresSearchEscapesWildcards(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "person" WHERE .*LOWER\(first_name\) LIKE \$1 ESCAPE '\\' OR LOWER\(last_name\) LIKE \$2 ESCAPE '\\'.* ORDER BY id`).
		WithArgs(`%50\%%`, `%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "date_of_birth", "date_of_death"}))

	persons, err := repo.SearchPersons(context.Background(), "50%")
	require.NoError(t, err)
	assert.Empty(t, persons)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSearchIgnoresCase(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "movie" WHERE .*LOWER\(french_title\) LIKE \$1 ESCAPE '\\' OR LOWER\(original_title\) LIKE \$2 ESCAPE '\\'.* ORDER BY id`).
		WithArgs("%parapluies%", "%parapluies%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "french_title", "original_title", "status_id", "status_date"}))

	movies, err := repo.SearchMovies(context.Background(), "PARAPLUIES")
	require.NoError(t, err)
	assert.Empty(t, movies)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStatusFilterUsesSubquery(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "movie" WHERE status_id IN \(SELECT .*id.* FROM "movie_status" WHERE description = \$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "french_title", "original_title", "status_id", "status_date"}).
			AddRow(7, "Lola", "Lola", 4, nil))
	mock.ExpectQuery(`SELECT \* FROM "movie_status" WHERE "movie_status"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "description"}).AddRow(4, "released"))

	status := "released"
	movie, err := repo.FindMovie(context.Background(), MovieFilter{Status: &status})
	require.NoError(t, err)
	require.NotNil(t, movie)
	assert.Equal(t, uint32(7), movie.ID)
	assert.Equal(t, "released", movie.Status.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreatePersonReturningID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "person" \("first_name","last_name","date_of_birth","date_of_death"\) VALUES .* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectCommit()

	p := &database.Person{FirstName: "Anna", LastName: "Karina", DateOfBirth: time.Date(1940, 9, 22, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, repo.CreatePerson(context.Background(), p))
	assert.Equal(t, uint32(12), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateMovieUnknownStatusRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "movie_status" WHERE "movie_status"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "description"}))
	mock.ExpectRollback()

	err := repo.CreateMovie(context.Background(), &database.Movie{FrenchTitle: "x", OriginalTitle: "x", StatusID: 9})
	assert.ErrorIs(t, err, ErrStatusNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresQueryErrorIsWrapped(t *testing.T) {
	repo, mock := newMockRepo(t)

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT \* FROM "movie"`).WillReturnError(boom)

	_, err := repo.ListMovies(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "list movies")
	assert.NoError(t, mock.ExpectationsWereMet())
}
