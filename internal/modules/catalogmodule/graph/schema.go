// Package graph binds the catalog GraphQL schema to the repository.
package graph

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/graph-gophers/graphql-go"
	"github.com/hashicorp/go-hclog"
)

//go:embed schema.graphql
var SchemaSDL string

// Options tunes the execution engine
type Options struct {
	// MaxDepth bounds query nesting; zero means unlimited
	MaxDepth int
	// MaxParallelism bounds concurrently resolved fields per request
	MaxParallelism int
}

// NewSchema parses the catalog schema against r
func NewSchema(r *Resolver, opts Options) (*graphql.Schema, error) {
	schemaOpts := []graphql.SchemaOpt{
		graphql.Logger(panicLogger{log: r.log}),
	}
	if opts.MaxDepth > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxDepth(opts.MaxDepth))
	}
	if opts.MaxParallelism > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxParallelism(opts.MaxParallelism))
	}

	schema, err := graphql.ParseSchema(SchemaSDL, r, schemaOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog schema: %w", err)
	}
	return schema, nil
}

// panicLogger reports resolver panics recovered by the engine
type panicLogger struct {
	log hclog.Logger
}

func (l panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.log.Error("graphql resolver panic", "panic", fmt.Sprintf("%v", value))
}
