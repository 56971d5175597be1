// Package catalogmodule serves the movie and person catalog over GraphQL.
package catalogmodule

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go"
	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/moviegraph/internal/modules/catalogmodule/api"
	"github.com/mantonx/moviegraph/internal/modules/catalogmodule/graph"
	"github.com/mantonx/moviegraph/internal/modules/catalogmodule/repository"
	"github.com/mantonx/moviegraph/internal/modules/databasemodule"
	"github.com/mantonx/moviegraph/internal/modules/modulemanager"
	"gorm.io/gorm"
)

// Auto-register the module when imported
func init() {
	modulemanager.Register(New())
}

const (
	// ModuleID is the unique identifier for the catalog module
	ModuleID = "system.catalog"

	// ModuleName is the display name for the catalog module
	ModuleName = "Catalog"
)

// Module wires the repository, the GraphQL schema and its HTTP endpoint
type Module struct {
	log     hclog.Logger
	schema  *graphql.Schema
	handler *api.Handler
	path    string
}

// New creates an uninitialized catalog module
func New() *Module {
	return &Module{}
}

func (m *Module) ID() string { return ModuleID }
func (m *Module) Name() string { return ModuleName }
func (m *Module) Core() bool { return true }

// Dependencies returns the modules that must be initialized first
func (m *Module) Dependencies() []string {
	return []string{databasemodule.ModuleID}
}

// Migrate is a no-op; the database module owns the catalog tables
func (m *Module) Migrate(_ *gorm.DB) error {
	return nil
}

// Init builds the schema against the shared connection
func (m *Module) Init(env *modulemanager.Environment) error {
	if env.DB == nil {
		return fmt.Errorf("catalog module requires a database connection")
	}
	m.log = env.Logger
	if m.log == nil {
		m.log = hclog.NewNullLogger()
	}
	m.log = m.log.Named("catalog")

	cfg := env.Config.GraphQL
	resolver := graph.NewResolver(repository.New(env.DB), m.log, env.Metrics)
	schema, err := graph.NewSchema(resolver, graph.Options{
		MaxDepth:       cfg.MaxDepth,
		MaxParallelism: cfg.MaxParallelism,
	})
	if err != nil {
		return err
	}

	m.schema = schema
	m.handler = api.NewHandler(schema, cfg.MaxBodyBytes, m.log, env.Metrics)
	m.path = cfg.Path
	return nil
}

// RegisterRoutes mounts the GraphQL endpoint
func (m *Module) RegisterRoutes(router *gin.Engine) {
	m.log.Info("registering graphql endpoint", "path", m.path)
	m.handler.Register(router, m.path)
}

// HealthCheck executes a trivial query against the schema
func (m *Module) HealthCheck(ctx context.Context) modulemanager.HealthStatus {
	status := modulemanager.HealthStatus{LastChecked: time.Now()}
	if m.schema == nil {
		status.Status = modulemanager.HealthStateUnknown
		status.Message = "not initialized"
		return status
	}

	resp := m.schema.Exec(ctx, "{ personRoles { id } }", "", nil)
	if len(resp.Errors) > 0 {
		status.Status = modulemanager.HealthStateDegraded
		status.Message = resp.Errors[0].Message
		return status
	}
	status.Status = modulemanager.HealthStateHealthy
	status.Details = map[string]interface{}{"path": m.path}
	return status
}
