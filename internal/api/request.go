package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/passbi/passbi_planner/internal/models"
)

// validate is safe for concurrent use and caches struct metadata
var validate = validator.New()

// requiredFields are checked in this order so error messages are stable
var requiredFields = []string{"tasks", "subway", "starting_station"}

// RequestError is a client-side problem with a plan request
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func badRequest(format string, args ...any) *RequestError {
	return &RequestError{Message: fmt.Sprintf(format, args...)}
}

// ParsePlanRequest decodes and shape-checks a JSON plan request.
// Problems with the payload come back as *RequestError.
func ParsePlanRequest(body []byte) (*models.PlanRequest, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, badRequest("No JSON data provided")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, badRequest("Invalid JSON format")
	}
	if len(fields) == 0 {
		return nil, badRequest("No JSON data provided")
	}

	for _, field := range requiredFields {
		if _, ok := fields[field]; !ok {
			return nil, badRequest("Missing required field: %s", field)
		}
	}

	var req models.PlanRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, badRequest("Invalid request payload: %v", err)
	}

	if err := validate.Struct(&req); err != nil {
		return nil, badRequest("Invalid request payload: %v", err)
	}

	return &req, nil
}
