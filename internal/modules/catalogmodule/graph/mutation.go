package graph

import (
	"context"
	"strconv"

	"github.com/graph-gophers/graphql-go"
	"github.com/mantonx/moviegraph/internal/database"
	"github.com/mantonx/moviegraph/internal/modules/catalogmodule/repository"
)

// PersonInput is the personData argument of createPerson
type PersonInput struct {
	FirstName   string
	LastName    string
	DateOfBirth Date
	DateOfDeath *Date
}

// MovieInput is the movieData argument of createMovie
type MovieInput struct {
	FrenchTitle   string
	OriginalTitle string
	StatusID      int32
	StatusDate    *Date
}

// CreatePersonPayload is the result of createPerson
type CreatePersonPayload struct {
	person *PersonResolver
}

func (p *CreatePersonPayload) Person() *PersonResolver { return p.person }

// CreateMoviePayload is the result of createMovie
type CreateMoviePayload struct {
	movie *MovieResolver
}

func (p *CreateMoviePayload) Movie() *MovieResolver { return p.movie }

// CreatePerson resolves Mutation.createPerson
func (r *Resolver) CreatePerson(ctx context.Context, args struct{ PersonData PersonInput }) (*CreatePersonPayload, error) {
	in := args.PersonData

	person := database.Person{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DateOfBirth: in.DateOfBirth.Time,
		DateOfDeath: in.DateOfDeath.timePtr(),
	}

	err := r.store.CreatePerson(ctx, &person)
	r.metrics.RecordWrite("person", err)
	if err != nil {
		return nil, r.toResolverError(ctx, "createPerson", err)
	}

	r.log.Info("person created", "person_id", person.ID)
	return &CreatePersonPayload{person: &PersonResolver{root: r, person: person}}, nil
}

// CreateMovie resolves Mutation.createMovie
func (r *Resolver) CreateMovie(ctx context.Context, args struct{ MovieData MovieInput }) (*CreateMoviePayload, error) {
	in := args.MovieData

	statusID, ok := toUint32(in.StatusID)
	if !ok {
		err := repository.ErrStatusNotFound
		r.metrics.RecordWrite("movie", err)
		return nil, r.toResolverError(ctx, "createMovie", err)
	}

	movie := database.Movie{
		FrenchTitle:   in.FrenchTitle,
		OriginalTitle: in.OriginalTitle,
		StatusID:      statusID,
		StatusDate:    in.StatusDate.timePtr(),
	}

	err := r.store.CreateMovie(ctx, &movie)
	r.metrics.RecordWrite("movie", err)
	if err != nil {
		return nil, r.toResolverError(ctx, "createMovie", err)
	}

	r.log.Info("movie created", "movie_id", movie.ID, "status_id", movie.StatusID)
	return &CreateMoviePayload{movie: &MovieResolver{root: r, movie: movie}}, nil
}

type addMoviePersonArgs struct {
	MovieID  int32
	PersonID int32
	RoleID   int32
}

// AddMoviePerson resolves Mutation.addMoviePerson
func (r *Resolver) AddMoviePerson(ctx context.Context, args addMoviePersonArgs) (*MoviePersonResolver, error) {
	movieID, movieOK := toUint32(args.MovieID)
	personID, personOK := toUint32(args.PersonID)
	roleID, roleOK := toUint32(args.RoleID)

	var err error
	switch {
	case !movieOK:
		err = repository.ErrMovieNotFound
	case !personOK:
		err = repository.ErrPersonNotFound
	case !roleOK:
		err = repository.ErrRoleNotFound
	}
	if err != nil {
		r.metrics.RecordWrite("movie_person", err)
		return nil, r.toResolverError(ctx, "addMoviePerson", err)
	}

	credit, err := r.store.AddMoviePerson(ctx, movieID, personID, roleID)
	r.metrics.RecordWrite("movie_person", err)
	if err != nil {
		return nil, r.toResolverError(ctx, "addMoviePerson", err)
	}

	r.log.Info("person credited", "movie_id", movieID, "person_id", personID, "role_id", roleID)
	return &MoviePersonResolver{root: r, credit: *credit}, nil
}

// MoviePersonResolver resolves the MoviePerson type. The credit's Movie, Person and Role must be loaded.
type MoviePersonResolver struct {
	root   *Resolver
	credit database.MoviePersons
}

func (c *MoviePersonResolver) ID() graphql.ID {
	return graphql.ID(strconv.FormatUint(uint64(c.credit.ID), 10))
}

func (c *MoviePersonResolver) Movie() *MovieResolver {
	return &MovieResolver{root: c.root, movie: c.credit.Movie}
}

func (c *MoviePersonResolver) Person() *PersonResolver {
	return &PersonResolver{root: c.root, person: c.credit.Person}
}

func (c *MoviePersonResolver) Role() *PersonRoleResolver {
	return &PersonRoleResolver{role: c.credit.Role}
}
