package graph

import (
	"context"
	"strconv"

	"github.com/graph-gophers/graphql-go"
	"github.com/mantonx/moviegraph/internal/database"
)

// MovieResolver resolves the Movie type. The movie's Status must be loaded.
type MovieResolver struct {
	root  *Resolver
	movie database.Movie
}

func (m *MovieResolver) ID() graphql.ID {
	return graphql.ID(strconv.FormatUint(uint64(m.movie.ID), 10))
}

func (m *MovieResolver) FrenchTitle() string { return m.movie.FrenchTitle }

func (m *MovieResolver) OriginalTitle() string { return m.movie.OriginalTitle }

func (m *MovieResolver) Status() string { return m.movie.Status.Description }

func (m *MovieResolver) StatusDate() *Date { return newDatePtr(m.movie.StatusDate) }

func (m *MovieResolver) Directors(ctx context.Context) ([]*PersonResolver, error) {
	return m.crew(ctx, "Movie.directors", database.RoleDirector)
}

func (m *MovieResolver) Actors(ctx context.Context) ([]*PersonResolver, error) {
	return m.crew(ctx, "Movie.actors", database.RoleActor)
}

func (m *MovieResolver) SongWriters(ctx context.Context) ([]*PersonResolver, error) {
	return m.crew(ctx, "Movie.songWriters", database.RoleComposer)
}

func (m *MovieResolver) crew(ctx context.Context, op string, roleID uint32) ([]*PersonResolver, error) {
	rows, err := m.root.store.PersonsForMovie(ctx, m.movie.ID, roleID)
	if err != nil {
		return nil, m.root.toResolverError(ctx, op, err)
	}
	return m.root.persons(rows), nil
}

// MovieStatusResolver resolves the MovieStatus type
type MovieStatusResolver struct {
	status database.MovieStatus
}

func (s *MovieStatusResolver) ID() graphql.ID {
	return graphql.ID(strconv.FormatUint(uint64(s.status.ID), 10))
}

func (s *MovieStatusResolver) Description() string { return s.status.Description }

// PersonRoleResolver resolves the PersonRole type
type PersonRoleResolver struct {
	role database.PersonRole
}

func (r *PersonRoleResolver) ID() graphql.ID {
	return graphql.ID(strconv.FormatUint(uint64(r.role.ID), 10))
}

func (r *PersonRoleResolver) Description() string { return r.role.Description }
