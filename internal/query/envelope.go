package query

import (
	"encoding/json"
	"net/http"

	"postboard/internal/models"
)

// Request names an operation and carries its variables.
type Request struct {
	Operation string          `json:"operation"`
	Variables json.RawMessage `json:"variables,omitempty"`
}

// Response is the envelope returned for every request. Data is null whenever
// Errors is non-empty.
type Response struct {
	Data   map[string]any         `json:"data"`
	Errors []models.ErrorResponse `json:"errors,omitempty"`
}

// Success wraps result under the operation name.
func Success(operation string, result any) Response {
	return Response{Data: map[string]any{operation: result}}
}

// Failure reports a single hard error.
func Failure(err *models.AppError) Response {
	return Response{Errors: []models.ErrorResponse{err.Response()}}
}

// DecodeRequest parses a request envelope. The operation name is required.
func DecodeRequest(body []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return Request{}, models.NewValidationError("Invalid request body")
	}
	if req.Operation == "" {
		return Request{}, models.NewMissingFieldError("operation")
	}
	return req, nil
}

// HTTPStatus maps the envelope to a transport status. Only requests that
// never reached an operation are rejected at the HTTP level.
func (r Response) HTTPStatus() int {
	for _, e := range r.Errors {
		if e.Code == models.CodeUnknownOperation {
			return http.StatusBadRequest
		}
	}
	return http.StatusOK
}
