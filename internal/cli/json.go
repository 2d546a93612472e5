package cli

import (
	stderrors "errors"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/rileyhilliard/pollboard/internal/errors"
	"github.com/rileyhilliard/pollboard/internal/fetch"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound  = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid   = "CONFIG_INVALID"
	ErrCodeFetchNetwork    = "FETCH_NETWORK"
	ErrCodeFetchTimeout    = "FETCH_TIMEOUT"
	ErrCodeFetchHTTPStatus = "FETCH_HTTP_STATUS"
	ErrCodeFetchParse      = "FETCH_PARSE"
	ErrCodeServeFailed     = "SERVE_FAILED"
	ErrCodeUnknown         = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: false, Error: ErrorToJSON(err)})
}

func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var fe *fetch.Error
	if stderrors.As(err, &fe) {
		return fetchErrorToJSON(fe)
	}

	var pe *errors.Error
	if stderrors.As(err, &pe) {
		return &JSONError{
			Code:       mapErrorCode(pe.Code, pe.Message),
			Message:    pe.Message,
			Suggestion: pe.Suggestion,
		}
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		if strings.Contains(strings.ToLower(message), "not found") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrServe:
		return ErrCodeServeFailed
	}
	return ErrCodeUnknown
}

func fetchErrorToJSON(fe *fetch.Error) *JSONError {
	var code, suggestion string
	switch fe.Kind {
	case fetch.KindTimeout:
		code = ErrCodeFetchTimeout
		suggestion = "Raise source.timeout or check the endpoint is responsive"
	case fetch.KindHTTPStatus:
		code = ErrCodeFetchHTTPStatus
		suggestion = "Check the URL and any token the endpoint requires"
	case fetch.KindParse:
		code = ErrCodeFetchParse
		suggestion = "Check the endpoint returns JSON rows, or set source.rows_path"
	default:
		code = ErrCodeFetchNetwork
		suggestion = "Check the host is reachable from this machine"
	}

	details := map[string]interface{}{
		"kind": fe.Kind.String(),
		"url":  fe.URL,
	}
	if fe.StatusCode != 0 {
		details["status"] = fe.StatusCode
	}

	return &JSONError{
		Code:       code,
		Message:    fe.Error(),
		Suggestion: suggestion,
		Details:    details,
	}
}
