package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go"
	"github.com/mantonx/moviegraph/internal/metrics"
)

var jsonNull = []byte("null")

// writeResponse sends an execution result and reports its outcome.
// A result with data is a 200, even when some fields failed. A result holding
// only errors is a 400.
func writeResponse(c *gin.Context, resp *graphql.Response) string {
	hasData := len(resp.Data) > 0 && !bytes.Equal(bytes.TrimSpace(resp.Data), jsonNull)

	switch {
	case hasData && len(resp.Errors) > 0:
		c.JSON(http.StatusOK, resp)
		return metrics.OutcomePartial
	case hasData:
		c.JSON(http.StatusOK, resp)
		return metrics.OutcomeSuccess
	case len(resp.Errors) > 0:
		c.JSON(http.StatusBadRequest, &graphql.Response{Errors: resp.Errors})
		return metrics.OutcomeError
	default:
		c.JSON(http.StatusOK, gin.H{"data": json.RawMessage(jsonNull)})
		return metrics.OutcomeSuccess
	}
}
