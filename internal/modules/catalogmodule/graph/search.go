package graph

import (
	"context"
)

// SearchResultResolver resolves the SearchResult union
type SearchResultResolver struct {
	result interface{}
}

func (s *SearchResultResolver) ToPerson() (*PersonResolver, bool) {
	p, ok := s.result.(*PersonResolver)
	return p, ok
}

func (s *SearchResultResolver) ToMovie() (*MovieResolver, bool) {
	m, ok := s.result.(*MovieResolver)
	return m, ok
}

type searchArgs struct {
	Q *string
}

// Search lists persons whose first or last name contains q, followed by movies
// whose French or original title contains q. Without q the result is empty.
func (r *Resolver) Search(ctx context.Context, args searchArgs) ([]*SearchResultResolver, error) {
	results := []*SearchResultResolver{}
	if args.Q == nil {
		return results, nil
	}

	persons, err := r.store.SearchPersons(ctx, *args.Q)
	if err != nil {
		return nil, r.toResolverError(ctx, "search", err)
	}
	movies, err := r.store.SearchMovies(ctx, *args.Q)
	if err != nil {
		return nil, r.toResolverError(ctx, "search", err)
	}

	for _, p := range r.persons(persons) {
		results = append(results, &SearchResultResolver{result: p})
	}
	for _, m := range r.movies(movies) {
		results = append(results, &SearchResultResolver{result: m})
	}
	return results, nil
}
