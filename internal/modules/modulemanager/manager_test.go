package modulemanager

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/moviegraph/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeModule struct {
	id       string
	core     bool
	deps     []string
	trace    *[]string
	initErr  error
	shutdown bool
}

func (m *fakeModule) ID() string   { return m.id }
func (m *fakeModule) Name() string { return "fake " + m.id }
func (m *fakeModule) Core() bool   { return m.core }

func (m *fakeModule) Migrate(*gorm.DB) error {
	*m.trace = append(*m.trace, "migrate:"+m.id)
	return nil
}

func (m *fakeModule) Init(*Environment) error {
	*m.trace = append(*m.trace, "init:"+m.id)
	return m.initErr
}

func (m *fakeModule) Dependencies() []string { return m.deps }

func (m *fakeModule) Shutdown(context.Context) error {
	m.shutdown = true
	*m.trace = append(*m.trace, "shutdown:"+m.id)
	return nil
}

func (m *fakeModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/"+m.id, func(c *gin.Context) { c.Status(http.StatusOK) })
}

func testEnv(disabled ...string) *Environment {
	cfg := config.DefaultConfig()
	cfg.Modules.Disabled = disabled
	return &Environment{Config: cfg, Logger: hclog.NewNullLogger()}
}

func TestLoadAllFollowsDependencies(t *testing.T) {
	var trace []string
	r := NewRegistry(
		&fakeModule{id: "a.catalog", core: true, deps: []string{"z.database"}, trace: &trace},
		&fakeModule{id: "z.database", core: true, trace: &trace},
		&fakeModule{id: "m.extra", trace: &trace},
	)

	require.NoError(t, r.LoadAll(testEnv()))
	assert.Equal(t, []string{
		"migrate:z.database", "init:z.database",
		"migrate:a.catalog", "init:a.catalog",
		"migrate:m.extra", "init:m.extra",
	}, trace)

	assert.Error(t, r.LoadAll(testEnv()), "second load must be refused")
}

func TestLoadAllSkipsMigrationsWhenAutoMigrateOff(t *testing.T) {
	var trace []string
	r := NewRegistry(&fakeModule{id: "a", trace: &trace})

	env := testEnv()
	env.Config.Database.AutoMigrate = false
	require.NoError(t, r.LoadAll(env))
	assert.Equal(t, []string{"init:a"}, trace)
}

func TestDisabledModules(t *testing.T) {
	var trace []string
	r := NewRegistry(
		&fakeModule{id: "core", core: true, trace: &trace},
		&fakeModule{id: "optional", trace: &trace},
	)

	require.NoError(t, r.LoadAll(testEnv("optional", "not-built-in")))
	assert.NotContains(t, trace, "init:optional")
	assert.Contains(t, trace, "init:core")
}

func TestCoreModuleCannotBeDisabled(t *testing.T) {
	var trace []string
	r := NewRegistry(&fakeModule{id: "core", core: true, trace: &trace})

	err := r.LoadAll(testEnv("core"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "core module")
	assert.Empty(t, trace)
}

func TestDependencyOnDisabledModuleFails(t *testing.T) {
	var trace []string
	r := NewRegistry(
		&fakeModule{id: "a", deps: []string{"b"}, trace: &trace},
		&fakeModule{id: "b", trace: &trace},
	)
	require.NoError(t, r.DisableModule("b"))
	assert.Error(t, r.LoadAll(testEnv()))
}

func TestCircularDependency(t *testing.T) {
	var trace []string
	r := NewRegistry(
		&fakeModule{id: "a", deps: []string{"b"}, trace: &trace},
		&fakeModule{id: "b", deps: []string{"a"}, trace: &trace},
	)
	err := r.LoadAll(testEnv())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular dependency")
}

func TestInitErrorStopsLoading(t *testing.T) {
	var trace []string
	r := NewRegistry(
		&fakeModule{id: "a", trace: &trace, initErr: errors.New("boom")},
		&fakeModule{id: "b", trace: &trace},
	)
	err := r.LoadAll(testEnv())
	require.Error(t, err)
	assert.NotContains(t, trace, "init:b")
}

func TestRoutesHealthAndShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var trace []string
	first := &fakeModule{id: "first", trace: &trace}
	second := &fakeModule{id: "second", deps: []string{"first"}, trace: &trace}
	r := NewRegistry(first, second)
	require.NoError(t, r.LoadAll(testEnv()))

	router := gin.New()
	r.RegisterRoutes(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/second", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	health := r.HealthCheck(context.Background())
	assert.Equal(t, HealthStateUnknown, health["first"].Status)

	require.NoError(t, r.Shutdown(context.Background()))
	assert.True(t, first.shutdown)
	assert.Equal(t, "shutdown:first", trace[len(trace)-1])
}

func TestMigrateAll(t *testing.T) {
	var trace []string
	r := NewRegistry(&fakeModule{id: "a", trace: &trace}, &fakeModule{id: "b", trace: &trace})

	require.NoError(t, r.MigrateAll(nil, []string{"b"}, hclog.NewNullLogger()))
	assert.Equal(t, []string{"migrate:a"}, trace)
}

func TestListModules(t *testing.T) {
	var trace []string
	r := NewRegistry(&fakeModule{id: "b", trace: &trace}, &fakeModule{id: "a", core: true, trace: &trace})

	mods := r.ListModules()
	require.Len(t, mods, 2)
	assert.Equal(t, "a", mods[0].ID())
	assert.True(t, mods[0].Core())
	assert.False(t, mods[1].Core())
}
