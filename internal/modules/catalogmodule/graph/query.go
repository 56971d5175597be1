package graph

import (
	"context"

	"github.com/mantonx/moviegraph/internal/database"
	"github.com/mantonx/moviegraph/internal/modules/catalogmodule/repository"
)

type personArgs struct {
	ID        *int32
	FirstName *string
	LastName  *string
}

// Person resolves Query.person
func (r *Resolver) Person(ctx context.Context, args personArgs) (*PersonResolver, error) {
	filter := repository.PersonFilter{FirstName: args.FirstName, LastName: args.LastName}
	if args.ID != nil {
		id, ok := toUint32(*args.ID)
		if !ok {
			return nil, nil
		}
		filter.ID = &id
	}

	person, err := r.store.FindPerson(ctx, filter)
	if err != nil {
		return nil, r.toResolverError(ctx, "person", err)
	}
	if person == nil {
		return nil, nil
	}
	return &PersonResolver{root: r, person: *person}, nil
}

type movieArgs struct {
	ID            *int32
	FrenchTitle   *string
	OriginalTitle *string
	Status        *string
}

// Movie resolves Query.movie
func (r *Resolver) Movie(ctx context.Context, args movieArgs) (*MovieResolver, error) {
	filter := repository.MovieFilter{
		FrenchTitle:   args.FrenchTitle,
		OriginalTitle: args.OriginalTitle,
		Status:        args.Status,
	}
	if args.ID != nil {
		id, ok := toUint32(*args.ID)
		if !ok {
			return nil, nil
		}
		filter.ID = &id
	}

	movie, err := r.store.FindMovie(ctx, filter)
	if err != nil {
		return nil, r.toResolverError(ctx, "movie", err)
	}
	if movie == nil {
		return nil, nil
	}
	return &MovieResolver{root: r, movie: *movie}, nil
}

func (r *Resolver) Persons(ctx context.Context) ([]*PersonResolver, error) {
	rows, err := r.store.ListPersons(ctx)
	if err != nil {
		return nil, r.toResolverError(ctx, "persons", err)
	}
	return r.persons(rows), nil
}

func (r *Resolver) Movies(ctx context.Context) ([]*MovieResolver, error) {
	rows, err := r.store.ListMovies(ctx)
	if err != nil {
		return nil, r.toResolverError(ctx, "movies", err)
	}
	return r.movies(rows), nil
}

func (r *Resolver) Directors(ctx context.Context) ([]*PersonResolver, error) {
	return r.personsWithRole(ctx, "directors", database.RoleDirector)
}

func (r *Resolver) Actors(ctx context.Context) ([]*PersonResolver, error) {
	return r.personsWithRole(ctx, "actors", database.RoleActor)
}

func (r *Resolver) SongWriters(ctx context.Context) ([]*PersonResolver, error) {
	return r.personsWithRole(ctx, "songWriters", database.RoleComposer)
}

func (r *Resolver) personsWithRole(ctx context.Context, op string, roleID uint32) ([]*PersonResolver, error) {
	rows, err := r.store.PersonsWithRole(ctx, roleID)
	if err != nil {
		return nil, r.toResolverError(ctx, op, err)
	}
	return r.persons(rows), nil
}

// MovieStatuses resolves Query.movieStatuses
func (r *Resolver) MovieStatuses(ctx context.Context) ([]*MovieStatusResolver, error) {
	rows, err := r.store.ListStatuses(ctx)
	if err != nil {
		return nil, r.toResolverError(ctx, "movieStatuses", err)
	}
	out := make([]*MovieStatusResolver, len(rows))
	for i := range rows {
		out[i] = &MovieStatusResolver{status: rows[i]}
	}
	return out, nil
}

// PersonRoles resolves Query.personRoles
func (r *Resolver) PersonRoles(ctx context.Context) ([]*PersonRoleResolver, error) {
	rows, err := r.store.ListRoles(ctx)
	if err != nil {
		return nil, r.toResolverError(ctx, "personRoles", err)
	}
	out := make([]*PersonRoleResolver, len(rows))
	for i := range rows {
		out[i] = &PersonRoleResolver{role: rows[i]}
	}
	return out, nil
}
