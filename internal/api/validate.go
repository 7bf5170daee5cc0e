package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// queryRequestSchema bounds the ad-hoc query body before anything else
// looks at it.
const queryRequestSchema = `{
	"type": "object",
	"required": ["query"],
	"properties": {
		"query": {"type": "string", "minLength": 1, "maxLength": 100000},
		"row_limit": {"type": "integer", "minimum": 1, "maximum": 100000}
	},
	"additionalProperties": false
}`

// decodeQueryRequest validates the request body against the schema and
// decodes it into req.
func decodeQueryRequest(r *http.Request, req *QueryRequest) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(queryRequestSchema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal(body, req); err != nil {
		return fmt.Errorf("parse body: %w", err)
	}
	return nil
}
