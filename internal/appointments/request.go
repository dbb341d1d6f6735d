package appointments

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// SuggestRequest is the inbound JSON body.
type SuggestRequest struct {
	Preferences string `json:"preferences"`
}

// ErrorBody is written on failure.
type ErrorBody struct {
	Error string `json:"error"`
}

// ParsePreferences reads the preference text from a JSON or form body, falling
// back to the "preferences" query parameter. A missing value is "".
func ParsePreferences(contentType string, body []byte, query url.Values) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)

	if mediaType == "application/x-www-form-urlencoded" {
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return "", fmt.Errorf("appointments: invalid form body: %w", err)
		}
		if form.Has("preferences") {
			return form.Get("preferences"), nil
		}
		return query.Get("preferences"), nil
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return query.Get("preferences"), nil
	}

	var req SuggestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", fmt.Errorf("appointments: invalid request body: %w", err)
	}
	if req.Preferences == "" {
		return query.Get("preferences"), nil
	}
	return req.Preferences, nil
}

// StatusFor maps a pipeline error to an HTTP status and a client-safe message.
func StatusFor(err error) (int, string) {
	var upstream *UpstreamError
	var malformed *MalformedResponseError
	switch {
	case errors.As(err, &upstream):
		if upstream.Timeout() {
			return http.StatusGatewayTimeout, "appointment provider timed out"
		}
		return http.StatusBadGateway, "appointment provider request failed"
	case errors.As(err, &malformed):
		return http.StatusInternalServerError, "could not parse appointment provider response: " + malformedReason(malformed)
	default:
		return http.StatusInternalServerError, "failed to suggest appointments"
	}
}

func malformedReason(err *MalformedResponseError) string {
	if err.Err == nil {
		return "unknown error"
	}
	return strings.TrimPrefix(err.Err.Error(), "json: ")
}
