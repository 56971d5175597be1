// Package repository implements catalog reads and writes on top of gorm.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mantonx/moviegraph/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrStatusNotFound  = errors.New("movie status not found")
	ErrRoleNotFound    = errors.New("person role not found")
	ErrPersonNotFound  = errors.New("person not found")
	ErrMovieNotFound   = errors.New("movie not found")
	ErrDuplicateCredit = errors.New("person already credited on this movie with this role")
)

// Repository gives access to persons, movies and their credits
type Repository struct {
	db *gorm.DB
}

// New creates a repository over db. db is shared by all requests.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// FindPerson returns the first person matching every set field of f, ordered by id.
// It returns nil and no error when nothing matches.
func (r *Repository) FindPerson(ctx context.Context, f PersonFilter) (*database.Person, error) {
	var person database.Person
	err := f.apply(r.conn(ctx)).Order("id").First(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find person: %w", err)
	}
	return &person, nil
}

// FindMovie returns the first movie matching every set field of f, ordered by id.
// It returns nil and no error when nothing matches.
func (r *Repository) FindMovie(ctx context.Context, f MovieFilter) (*database.Movie, error) {
	var movie database.Movie
	db := r.conn(ctx)
	err := f.apply(db, db.Session(&gorm.Session{NewDB: true})).Preload("Status").Order("id").First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	return &movie, nil
}

// ListPersons returns every person ordered by id
func (r *Repository) ListPersons(ctx context.Context) ([]database.Person, error) {
	persons := []database.Person{}
	if err := r.conn(ctx).Order("id").Find(&persons).Error; err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return persons, nil
}

// ListMovies returns every movie ordered by id
func (r *Repository) ListMovies(ctx context.Context) ([]database.Movie, error) {
	movies := []database.Movie{}
	if err := r.conn(ctx).Preload("Status").Order("id").Find(&movies).Error; err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// PersonsWithRole returns the distinct persons credited at least once with roleID
func (r *Repository) PersonsWithRole(ctx context.Context, roleID uint32) ([]database.Person, error) {
	db := r.conn(ctx)
	credited := db.Session(&gorm.Session{NewDB: true}).
		Model(&database.MoviePersons{}).
		Select("person_id").
		Where("role_id = ?", roleID)

	persons := []database.Person{}
	if err := db.Where("id IN (?)", credited).Order("id").Find(&persons).Error; err != nil {
		return nil, fmt.Errorf("list persons with role %d: %w", roleID, err)
	}
	return persons, nil
}

// MoviesForPerson returns the movies on which personID is credited with roleID
func (r *Repository) MoviesForPerson(ctx context.Context, personID, roleID uint32) ([]database.Movie, error) {
	movies := []database.Movie{}
	err := r.conn(ctx).
		Joins("JOIN movie_persons ON movie_persons.movie_id = movie.id").
		Where("movie_persons.person_id = ? AND movie_persons.role_id = ?", personID, roleID).
		Preload("Status").
		Order("movie.id").
		Find(&movies).Error
	if err != nil {
		return nil, fmt.Errorf("list movies for person %d: %w", personID, err)
	}
	return movies, nil
}

// PersonsForMovie returns the persons credited on movieID with roleID
func (r *Repository) PersonsForMovie(ctx context.Context, movieID, roleID uint32) ([]database.Person, error) {
	persons := []database.Person{}
	err := r.conn(ctx).
		Joins("JOIN movie_persons ON movie_persons.person_id = person.id").
		Where("movie_persons.movie_id = ? AND movie_persons.role_id = ?", movieID, roleID).
		Order("person.id").
		Find(&persons).Error
	if err != nil {
		return nil, fmt.Errorf("list persons for movie %d: %w", movieID, err)
	}
	return persons, nil
}

// SearchPersons returns persons whose first or last name contains q, ignoring case
func (r *Repository) SearchPersons(ctx context.Context, q string) ([]database.Person, error) {
	pattern := containsPattern(q)
	persons := []database.Person{}
	err := r.conn(ctx).
		Where("LOWER(first_name) LIKE ? ESCAPE '\\' OR LOWER(last_name) LIKE ? ESCAPE '\\'", pattern, pattern).
		Order("id").
		Find(&persons).Error
	if err != nil {
		return nil, fmt.Errorf("search persons: %w", err)
	}
	return persons, nil
}

// SearchMovies returns movies whose French or original title contains q, ignoring case
func (r *Repository) SearchMovies(ctx context.Context, q string) ([]database.Movie, error) {
	pattern := containsPattern(q)
	movies := []database.Movie{}
	err := r.conn(ctx).
		Where("LOWER(french_title) LIKE ? ESCAPE '\\' OR LOWER(original_title) LIKE ? ESCAPE '\\'", pattern, pattern).
		Preload("Status").
		Order("id").
		Find(&movies).Error
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return movies, nil
}

// ListStatuses returns the movie statuses ordered by id
func (r *Repository) ListStatuses(ctx context.Context) ([]database.MovieStatus, error) {
	statuses := []database.MovieStatus{}
	if err := r.conn(ctx).Order("id").Find(&statuses).Error; err != nil {
		return nil, fmt.Errorf("list movie statuses: %w", err)
	}
	return statuses, nil
}

// ListRoles returns the person roles ordered by id
func (r *Repository) ListRoles(ctx context.Context) ([]database.PersonRole, error) {
	roles := []database.PersonRole{}
	if err := r.conn(ctx).Order("id").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("list person roles: %w", err)
	}
	return roles, nil
}

// CreatePerson inserts p and fills in its id
func (r *Repository) CreatePerson(ctx context.Context, p *database.Person) error {
	if err := r.conn(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// CreateMovie inserts m after checking that its status exists. On success m.Status is loaded.
func (r *Repository) CreateMovie(ctx context.Context, m *database.Movie) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var status database.MovieStatus
		if err := tx.First(&status, m.StatusID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: id %d", ErrStatusNotFound, m.StatusID)
			}
			return fmt.Errorf("create movie: %w", err)
		}

		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			return fmt.Errorf("create movie: %w", err)
		}
		m.Status = status
		return nil
	})
}

// AddMoviePerson credits a person on a movie with a role. Every reference must exist
// and the (movie, person, role) triple must be new.
func (r *Repository) AddMoviePerson(ctx context.Context, movieID, personID, roleID uint32) (*database.MoviePersons, error) {
	credit := &database.MoviePersons{MovieID: movieID, PersonID: personID, RoleID: roleID}

	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Status").First(&credit.Movie, movieID).Error; err != nil {
			return notFound(err, ErrMovieNotFound, movieID)
		}
		if err := tx.First(&credit.Person, personID).Error; err != nil {
			return notFound(err, ErrPersonNotFound, personID)
		}
		if err := tx.First(&credit.Role, roleID).Error; err != nil {
			return notFound(err, ErrRoleNotFound, roleID)
		}

		var existing int64
		err := tx.Model(&database.MoviePersons{}).
			Where("movie_id = ? AND person_id = ? AND role_id = ?", movieID, personID, roleID).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("add movie person: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateCredit
		}

		if err := tx.Omit(clause.Associations).Create(credit).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateCredit
			}
			return fmt.Errorf("add movie person: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return credit, nil
}

func notFound(err, sentinel error, id uint32) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: id %d", sentinel, id)
	}
	return err
}
