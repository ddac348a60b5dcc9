package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrUnexpectedBinary is returned when a call expecting JSON got an opaque
// payload instead.
var ErrUnexpectedBinary = errors.New("unexpected binary payload")

// APIError is the single error produced for any non-2xx response.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	// Detail is the raw detail value from the error body, if any.
	Detail json.RawMessage
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	e := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Detail) > 0 && !bytes.Equal(eb.Detail, []byte("null")) {
		e.Detail = eb.Detail
		e.Message = detailMessage(eb.Detail)
		return e
	}

	e.Message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, reasonPhrase(resp))
	return e
}

func detailMessage(detail json.RawMessage) string {
	var s string
	if err := json.Unmarshal(detail, &s); err == nil {
		return s
	}

	var issues []validationIssue
	if err := json.Unmarshal(detail, &issues); err == nil && len(issues) > 0 {
		msgs := make([]string, 0, len(issues))
		for _, is := range issues {
			if is.Msg != "" {
				msgs = append(msgs, is.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, detail); err != nil {
		return string(detail)
	}
	return buf.String()
}

// reasonPhrase takes the text after the code in the status line, falling
// back to the standard phrase when the line carries only the code.
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

func statusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

// IsValidation reports whether the service rejected the request body.
func IsValidation(err error) bool {
	code := statusCode(err)
	return code == http.StatusBadRequest || code == http.StatusUnprocessableEntity
}

func IsConflict(err error) bool {
	return statusCode(err) == http.StatusConflict
}
