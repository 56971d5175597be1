package graph

import (
	"context"
	"math"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/moviegraph/internal/database"
	"github.com/mantonx/moviegraph/internal/metrics"
	"github.com/mantonx/moviegraph/internal/modules/catalogmodule/repository"
)

// Store is the data access the resolvers need
type Store interface {
	FindPerson(ctx context.Context, f repository.PersonFilter) (*database.Person, error)
	FindMovie(ctx context.Context, f repository.MovieFilter) (*database.Movie, error)
	ListPersons(ctx context.Context) ([]database.Person, error)
	ListMovies(ctx context.Context) ([]database.Movie, error)
	PersonsWithRole(ctx context.Context, roleID uint32) ([]database.Person, error)
	MoviesForPerson(ctx context.Context, personID, roleID uint32) ([]database.Movie, error)
	PersonsForMovie(ctx context.Context, movieID, roleID uint32) ([]database.Person, error)
	SearchPersons(ctx context.Context, q string) ([]database.Person, error)
	SearchMovies(ctx context.Context, q string) ([]database.Movie, error)
	ListStatuses(ctx context.Context) ([]database.MovieStatus, error)
	ListRoles(ctx context.Context) ([]database.PersonRole, error)
	CreatePerson(ctx context.Context, p *database.Person) error
	CreateMovie(ctx context.Context, m *database.Movie) error
	AddMoviePerson(ctx context.Context, movieID, personID, roleID uint32) (*database.MoviePersons, error)
}

// Resolver is the root resolver for queries and mutations
type Resolver struct {
	store   Store
	log     hclog.Logger
	metrics *metrics.Metrics
}

// NewResolver creates the root resolver. m may be nil.
func NewResolver(store Store, log hclog.Logger, m *metrics.Metrics) *Resolver {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Resolver{store: store, log: log.Named("graphql"), metrics: m}
}

// toUint32 converts a GraphQL Int id. ok is false when no row can carry that id.
func toUint32(v int32) (id uint32, ok bool) {
	if v < 0 || int64(v) > math.MaxUint32 {
		return 0, false
	}
	return uint32(v), true
}

func (r *Resolver) persons(rows []database.Person) []*PersonResolver {
	out := make([]*PersonResolver, len(rows))
	for i := range rows {
		out[i] = &PersonResolver{root: r, person: rows[i]}
	}
	return out
}

func (r *Resolver) movies(rows []database.Movie) []*MovieResolver {
	out := make([]*MovieResolver, len(rows))
	for i := range rows {
		out[i] = &MovieResolver{root: r, movie: rows[i]}
	}
	return out
}
