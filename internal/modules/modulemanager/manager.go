// Package modulemanager registers application modules and brings them up in dependency order.
package modulemanager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/moviegraph/internal/config"
	"github.com/mantonx/moviegraph/internal/metrics"
	"gorm.io/gorm"
)

// Module defines the interface that all modules must implement
type Module interface {
	ID() string                  // Unique identifier for the module
	Name() string                // Display name for the module
	Core() bool                  // Whether this is a core module (cannot be disabled)
	Migrate(db *gorm.DB) error   // Run database migrations
	Init(env *Environment) error // Initialize the module
}

// Environment carries the shared process resources handed to modules at Init
type Environment struct {
	DB      *gorm.DB
	Config  *config.Config
	Logger  hclog.Logger
	Metrics *metrics.Metrics
}

// ModuleRegistry manages module registration and initialization
type ModuleRegistry struct {
	modules         map[string]Module
	disabledModules map[string]bool
	loaded          []Module
	mu              sync.RWMutex
	initialized     bool
}

// Registry is the global module registry filled by module init functions
var Registry = NewRegistry()

// NewRegistry creates a registry holding the given modules
func NewRegistry(modules ...Module) *ModuleRegistry {
	r := &ModuleRegistry{
		modules:         make(map[string]Module),
		disabledModules: make(map[string]bool),
	}
	for _, m := range modules {
		r.modules[m.ID()] = m
	}
	return r
}

// Register adds a module to the global registry
func Register(m Module) {
	Registry.Register(m)
}

// Register adds a module to the registry. Registering after LoadAll has no effect on loaded modules.
func (r *ModuleRegistry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[m.ID()] = m
}

// DisableModule marks a non-core module as disabled
func (r *ModuleRegistry) DisableModule(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disableLocked(id)
}

func (r *ModuleRegistry) disableLocked(id string) error {
	module, exists := r.modules[id]
	if !exists {
		return fmt.Errorf("unknown module: %s", id)
	}
	if module.Core() {
		return fmt.Errorf("cannot disable core module: %s", id)
	}
	r.disabledModules[id] = true
	return nil
}

// MigrateAll runs the migrations of every enabled module without initializing them
func (r *ModuleRegistry) MigrateAll(db *gorm.DB, disabled []string, log hclog.Logger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := r.resolveLocked(disabled)
	if err != nil {
		return err
	}
	for _, module := range order {
		log.Info("migrating module", "module", module.ID())
		if err := module.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", module.Name(), err)
		}
	}
	return nil
}

// LoadAll migrates (when enabled in config) and initializes every enabled module in dependency order
func (r *ModuleRegistry) LoadAll(env *Environment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return errors.New("module system already initialized")
	}

	log := env.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}

	order, err := r.resolveLocked(env.Config.Modules.Disabled)
	if err != nil {
		return err
	}

	log.Info("loading modules", "count", len(order))
	for i, module := range order {
		log.Info("initializing module", "module", module.ID(), "position", i+1, "total", len(order))

		if env.Config.Database.AutoMigrate {
			if err := module.Migrate(env.DB); err != nil {
				return fmt.Errorf("failed to migrate %s: %w", module.Name(), err)
			}
		}

		if err := module.Init(env); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", module.Name(), err)
		}
		r.loaded = append(r.loaded, module)
	}

	r.initialized = true
	return nil
}

// resolveLocked applies the disabled list and returns enabled modules in initialization order
func (r *ModuleRegistry) resolveLocked(disabled []string) ([]Module, error) {
	for _, id := range disabled {
		if _, ok := r.modules[id]; !ok {
			// config may name modules from other builds
			continue
		}
		if err := r.disableLocked(id); err != nil {
			return nil, err
		}
	}

	enabled := make(map[string]Module, len(r.modules))
	for id, module := range r.modules {
		if !r.disabledModules[id] {
			enabled[id] = module
		}
	}

	graph, err := buildDependencyGraph(enabled)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}
	return graph.initializationOrder(), nil
}

// RegisterRoutes registers routes for loaded modules that implement RouteRegistrar
func (r *ModuleRegistry) RegisterRoutes(router *gin.Engine) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, module := range r.loaded {
		if registrar, ok := module.(RouteRegistrar); ok {
			registrar.RegisterRoutes(router)
		}
	}
}

// HealthCheck collects the health of every loaded module that can report it
func (r *ModuleRegistry) HealthCheck(ctx context.Context) map[string]HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make(map[string]HealthStatus, len(r.loaded))
	for _, module := range r.loaded {
		if checker, ok := module.(HealthChecker); ok {
			results[module.ID()] = checker.HealthCheck(ctx)
			continue
		}
		results[module.ID()] = HealthStatus{Status: HealthStateUnknown, LastChecked: time.Now()}
	}
	return results
}

// Shutdown shuts loaded modules down in reverse initialization order
func (r *ModuleRegistry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.loaded) - 1; i >= 0; i-- {
		if s, ok := r.loaded[i].(Shutdowner); ok {
			if err := s.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", r.loaded[i].ID(), err))
			}
		}
	}
	r.loaded = nil
	r.initialized = false
	return errors.Join(errs...)
}

// ListModules returns all registered modules ordered by id
func (r *ModuleRegistry) ListModules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	modules := make([]Module, 0, len(r.modules))
	for _, module := range r.modules {
		modules = append(modules, module)
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].ID() < modules[j].ID() })
	return modules
}

