// Package databasemodule owns the catalog schema and its reference data.
package databasemodule

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/moviegraph/internal/database"
	"github.com/mantonx/moviegraph/internal/modules/modulemanager"
	"gorm.io/gorm"
)

// Auto-register the module when imported
func init() {
	modulemanager.Register(New())
}

const (
	// ModuleID is the unique identifier for the database module
	ModuleID = "system.database"

	// ModuleName is the display name for the database module
	ModuleName = "Database"
)

// Module migrates the catalog tables, seeds reference data and reports pool health
type Module struct {
	db  *gorm.DB
	log hclog.Logger
}

// New creates an uninitialized database module
func New() *Module {
	return &Module{}
}

func (m *Module) ID() string { return ModuleID }
func (m *Module) Name() string { return ModuleName }
func (m *Module) Core() bool { return true }

// Migrate creates or updates every catalog table
func (m *Module) Migrate(db *gorm.DB) error {
	return database.Migrate(db)
}

// Init seeds reference data when configured to
func (m *Module) Init(env *modulemanager.Environment) error {
	if env.DB == nil {
		return fmt.Errorf("database module requires a connection")
	}
	m.db = env.DB
	m.log = env.Logger
	if m.log == nil {
		m.log = hclog.NewNullLogger()
	}
	m.log = m.log.Named("database")

	if env.Config.Database.SeedReferenceData {
		if err := database.Seed(context.Background(), m.db); err != nil {
			return err
		}
		m.log.Info("reference data seeded",
			"roles", len(database.ReferenceRoles),
			"statuses", len(database.ReferenceStatuses))
	}
	return nil
}

// HealthCheck pings the database and reports connection pool figures
func (m *Module) HealthCheck(ctx context.Context) modulemanager.HealthStatus {
	status := modulemanager.HealthStatus{LastChecked: time.Now()}
	if m.db == nil {
		status.Status = modulemanager.HealthStateUnknown
		status.Message = "not initialized"
		return status
	}

	start := time.Now()
	if err := database.Ping(ctx, m.db); err != nil {
		status.Status = modulemanager.HealthStateUnhealthy
		status.Message = err.Error()
		return status
	}

	status.Status = modulemanager.HealthStateHealthy
	status.Details = map[string]interface{}{
		"ping_ms": time.Since(start).Milliseconds(),
	}
	if sqlDB, err := m.db.DB(); err == nil {
		stats := sqlDB.Stats()
		status.Details["open_connections"] = stats.OpenConnections
		status.Details["in_use"] = stats.InUse
		status.Details["idle"] = stats.Idle
		status.Details["wait_count"] = stats.WaitCount
	}
	return status
}

// Shutdown closes the connection pool
func (m *Module) Shutdown(_ context.Context) error {
	if m.db == nil {
		return nil
	}
	conn := m.db
	m.db = nil
	if err := database.Close(conn); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	m.log.Info("database connection closed")
	return nil
}
