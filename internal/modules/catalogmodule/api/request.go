package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/mantonx/moviegraph/internal/types"
)

const (
	mediaTypeJSON    = "application/json"
	mediaTypeGraphQL = "application/graphql"
)

const (
	msgMissingQuery     = "Must provide query string."
	msgInvalidBody      = "POST body sent invalid JSON."
	msgInvalidVariables = "Variables are invalid JSON."
	msgMethodNotAllowed = "GraphQL only supports GET and POST requests."
)

// Request is a GraphQL request extracted from HTTP
type Request struct {
	Query         string
	Variables     map[string]interface{}
	OperationName string
}

// postBody is the application/json request body
type postBody struct {
	Query         *string         `json:"query"`
	Variables     json.RawMessage `json:"variables"`
	OperationName *string         `json:"operationName"`
}

// parseGET reads a request from URL parameters only
func parseGET(params url.Values) (Request, error) {
	var req Request
	if err := applyParams(&req, params); err != nil {
		return Request{}, err
	}
	if req.Query == "" {
		return Request{}, types.NewBadRequestError(types.ErrorCodeMissingQuery, msgMissingQuery, nil)
	}
	return req, nil
}

// parsePOST reads a request from the body, then lets set URL parameters override
// each field independently.
func parsePOST(w http.ResponseWriter, r *http.Request, maxBodyBytes int64) (Request, error) {
	var req Request

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && (mediaType == mediaTypeJSON || mediaType == mediaTypeGraphQL) {
		body, err := readBody(w, r, maxBodyBytes)
		if err != nil {
			return Request{}, err
		}

		switch mediaType {
		case mediaTypeJSON:
			if err := decodeJSONBody(&req, body); err != nil {
				return Request{}, err
			}
		case mediaTypeGraphQL:
			req.Query = string(body)
		}
	}

	if err := applyParams(&req, r.URL.Query()); err != nil {
		return Request{}, err
	}
	if req.Query == "" {
		return Request{}, types.NewBadRequestError(types.ErrorCodeMissingQuery, msgMissingQuery, nil)
	}
	return req, nil
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, types.NewPayloadTooLargeError(limit)
		}
		return nil, types.NewBadRequestError(types.ErrorCodeInvalidBody, msgInvalidBody, err)
	}
	return body, nil
}

func decodeJSONBody(req *Request, body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var data postBody
	if err := json.Unmarshal(body, &data); err != nil {
		return types.NewBadRequestError(types.ErrorCodeInvalidBody, msgInvalidBody, err)
	}

	if data.Query != nil {
		req.Query = *data.Query
	}
	if data.OperationName != nil {
		req.OperationName = *data.OperationName
	}

	vars, err := decodeVariables(data.Variables)
	if err != nil {
		return err
	}
	req.Variables = vars
	return nil
}

// decodeVariables accepts a JSON object, a string holding a JSON object, or null
func decodeVariables(raw json.RawMessage) (map[string]interface{}, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, invalidVariables(err)
		}
		return decodeVariableString(encoded)
	}

	var vars map[string]interface{}
	if err := json.Unmarshal(raw, &vars); err != nil {
		return nil, invalidVariables(err)
	}
	return vars, nil
}

func decodeVariableString(s string) (map[string]interface{}, error) {
	if s == "" {
		return nil, nil
	}
	var vars map[string]interface{}
	if err := json.Unmarshal([]byte(s), &vars); err != nil {
		return nil, invalidVariables(err)
	}
	return vars, nil
}

func invalidVariables(cause error) error {
	return types.NewBadRequestError(types.ErrorCodeInvalidVariables, msgInvalidVariables, cause)
}

// applyParams copies non-empty URL parameters over req
func applyParams(req *Request, params url.Values) error {
	if q := params.Get("query"); q != "" {
		req.Query = q
	}
	if op := params.Get("operationName"); op != "" {
		req.OperationName = op
	}
	if v := params.Get("variables"); v != "" {
		vars, err := decodeVariableString(v)
		if err != nil {
			return err
		}
		req.Variables = vars
	}
	return nil
}
