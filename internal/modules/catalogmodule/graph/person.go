package graph

import (
	"context"
	"strconv"

	"github.com/graph-gophers/graphql-go"
	"github.com/mantonx/moviegraph/internal/database"
)

// PersonResolver resolves the Person type
type PersonResolver struct {
	root   *Resolver
	person database.Person
}

func (p *PersonResolver) ID() graphql.ID {
	return graphql.ID(strconv.FormatUint(uint64(p.person.ID), 10))
}

func (p *PersonResolver) FirstName() string { return p.person.FirstName }

func (p *PersonResolver) LastName() string { return p.person.LastName }

func (p *PersonResolver) FullName() string { return p.person.FullName() }

func (p *PersonResolver) DateOfBirth() Date { return NewDate(p.person.DateOfBirth) }

func (p *PersonResolver) DateOfDeath() *Date { return newDatePtr(p.person.DateOfDeath) }

func (p *PersonResolver) Directed(ctx context.Context) ([]*MovieResolver, error) {
	return p.credits(ctx, "Person.directed", database.RoleDirector)
}

func (p *PersonResolver) PlayedIn(ctx context.Context) ([]*MovieResolver, error) {
	return p.credits(ctx, "Person.playedIn", database.RoleActor)
}

func (p *PersonResolver) Composed(ctx context.Context) ([]*MovieResolver, error) {
	return p.credits(ctx, "Person.composed", database.RoleComposer)
}

func (p *PersonResolver) credits(ctx context.Context, op string, roleID uint32) ([]*MovieResolver, error) {
	rows, err := p.root.store.MoviesForPerson(ctx, p.person.ID, roleID)
	if err != nil {
		return nil, p.root.toResolverError(ctx, op, err)
	}
	return p.root.movies(rows), nil
}
