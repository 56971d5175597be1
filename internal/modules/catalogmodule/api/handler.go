// Package api serves the catalog schema over HTTP.
//
// GET requests carry query, variables and operationName as URL parameters.
// POST requests carry them in an application/json body, or carry the query
// alone as an application/graphql body; URL parameters win over the body.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go"
	"github.com/hashicorp/go-hclog"
	httpapi "github.com/mantonx/moviegraph/internal/api"
	"github.com/mantonx/moviegraph/internal/metrics"
	"github.com/mantonx/moviegraph/internal/middleware"
	"github.com/mantonx/moviegraph/internal/types"
)

// AllowedMethods is sent in the Allow header of every endpoint response
const AllowedMethods = "GET, POST, OPTIONS"

// DefaultMaxBodyBytes applies when no body limit is configured
const DefaultMaxBodyBytes int64 = 1 << 20

// Executor runs a GraphQL request. *graphql.Schema satisfies it.
type Executor interface {
	Exec(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) *graphql.Response
}

// Handler is the GraphQL HTTP endpoint
type Handler struct {
	executor     Executor
	maxBodyBytes int64
	log          hclog.Logger
	metrics      *metrics.Metrics
}

// NewHandler creates the endpoint. log and m may be nil.
func NewHandler(executor Executor, maxBodyBytes int64, log hclog.Logger, m *metrics.Metrics) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Handler{
		executor:     executor,
		maxBodyBytes: maxBodyBytes,
		log:          log,
		metrics:      m,
	}
}

// Register routes every method on path to the handler
func (h *Handler) Register(router gin.IRoutes, path string) {
	router.Any(path, h.ServeGraphQL)
}

// ServeGraphQL handles one GraphQL-over-HTTP request
func (h *Handler) ServeGraphQL(c *gin.Context) {
	c.Header("Allow", AllowedMethods)

	var (
		req Request
		err error
	)
	switch c.Request.Method {
	case http.MethodOptions, http.MethodHead:
		c.Status(http.StatusNoContent)
		return
	case http.MethodGet:
		req, err = parseGET(c.Request.URL.Query())
	case http.MethodPost:
		req, err = parsePOST(c.Writer, c.Request, h.maxBodyBytes)
	default:
		err = types.NewMethodNotAllowedError(msgMethodNotAllowed)
	}
	if err != nil {
		h.metrics.RecordGraphQL(metrics.OutcomeRejected, 0)
		httpapi.RespondWithError(c, err)
		return
	}

	start := time.Now()
	resp := h.executor.Exec(c.Request.Context(), req.Query, req.OperationName, req.Variables)
	duration := time.Since(start)

	outcome := writeResponse(c, resp)
	h.metrics.RecordGraphQL(outcome, duration)

	h.log.Debug("graphql request executed",
		"operation", req.OperationName,
		"outcome", outcome,
		"errors", len(resp.Errors),
		"duration", duration,
		"request_id", middleware.RequestIDFromContext(c.Request.Context()))
}
