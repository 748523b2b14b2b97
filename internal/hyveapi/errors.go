package hyveapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/simp-lee/hyve-admin/internal/domain"
)

// errorBody is the error envelope of the API. Errors may be a field map or a
// list of field messages.
type errorBody struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

func (b errorBody) fields() map[string]string {
	if len(b.Errors) == 0 {
		return nil
	}
	var byField map[string]string
	if err := json.Unmarshal(b.Errors, &byField); err == nil && len(byField) > 0 {
		return byField
	}
	var list []struct {
		Field   string `json:"field"`
		Path    string `json:"path"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b.Errors, &list); err != nil {
		return nil
	}
	out := make(map[string]string, len(list))
	for _, e := range list {
		name := e.Field
		if name == "" {
			name = e.Path
		}
		if name != "" && e.Message != "" {
			out[name] = e.Message
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseErrorBody(body []byte) errorBody {
	var b errorBody
	_ = json.Unmarshal(body, &b)
	return b
}

func transportError(err error) error {
	return domain.NewAppError(domain.CodeUnavailable, "the HYVE API could not be reached, please retry", err)
}

// mapStatus turns a non-2xx response into a domain error, keeping the API's
// message verbatim where it is meant for the user.
func mapStatus(path string, status int, body []byte) *domain.AppError {
	b := parseErrorBody(body)
	msg := strings.TrimSpace(b.text())
	cause := fmt.Errorf("hyve api status %d", status)

	var e *domain.AppError
	switch {
	case status == http.StatusUnauthorized && isCredentialEndpoint(path):
		e = domain.NewAppError(domain.CodeValidation, orDefault(msg, "invalid email or password"), cause)
	case status == http.StatusUnauthorized:
		e = domain.NewAppError(domain.CodeUnauthorized, "your session has expired, please sign in again", cause)
	case status == http.StatusForbidden:
		e = domain.NewAppError(domain.CodeForbidden, orDefault(msg, "you are not allowed to do that"), cause)
	case status == http.StatusNotFound:
		e = domain.NewAppError(domain.CodeNotFound, orDefault(msg, "not found"), cause)
	case status == http.StatusConflict:
		e = domain.NewAppError(domain.CodeAlreadyExists, orDefault(msg, "already exists"), cause)
	case status >= 400 && status < 500:
		e = domain.NewAppError(domain.CodeValidation, orDefault(msg, "the request was rejected"), cause)
	default:
		if msg != "" {
			cause = fmt.Errorf("hyve api status %d: %s", status, msg)
		}
		e = domain.NewAppError(domain.CodeInternal, "the HYVE API failed to process the request", cause)
	}
	e.Fields = b.fields()
	return e
}

// envelopeFailure reports a 2xx envelope that carries success=false.
func envelopeFailure(body []byte) error {
	if len(body) == 0 || body[0] != '{' {
		return nil
	}
	b := parseErrorBody(body)
	if b.Success == nil || *b.Success {
		return nil
	}
	e := domain.NewAppError(domain.CodeValidation, orDefault(strings.TrimSpace(b.text()), "the request was rejected"), nil)
	e.Fields = b.fields()
	return e
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
