package appointments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreferences(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		query       url.Values
		want        string
		wantErr     bool
	}{
		{name: "json body", contentType: "application/json", body: `{"preferences":"mornings only"}`, want: "mornings only"},
		{name: "json with charset", contentType: "application/json; charset=utf-8", body: `{"preferences":"after 5pm"}`, want: "after 5pm"},
		{name: "missing field is empty", contentType: "application/json", body: `{}`, want: ""},
		{name: "empty body falls back to query", body: "", query: url.Values{"preferences": {"tuesdays"}}, want: "tuesdays"},
		{name: "empty preferences fall back to query", body: `{"preferences":""}`, query: url.Values{"preferences": {"fridays"}}, want: "fridays"},
		{name: "form body", contentType: "application/x-www-form-urlencoded", body: "preferences=late+afternoon", want: "late afternoon"},
		{name: "form without field uses query", contentType: "application/x-www-form-urlencoded", body: "other=1", query: url.Values{"preferences": {"q"}}, want: "q"},
		{name: "invalid json", contentType: "application/json", body: `{"preferences":`, wantErr: true},
		{name: "wrong json type", contentType: "application/json", body: `{"preferences":42}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePreferences(tt.contentType, []byte(tt.body), tt.query)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusFor(t *testing.T) {
	timeout := &UpstreamError{Provider: "openai", Model: "gpt-4.1-mini", Err: fmt.Errorf("post: %w", context.DeadlineExceeded)}
	auth := &UpstreamError{Provider: "openai", Model: "gpt-4.1-mini", Err: errors.New("401")}
	_, parseErr := Extract("Sorry, I can't help.")

	status, msg := StatusFor(timeout)
	assert.Equal(t, http.StatusGatewayTimeout, status)
	assert.Equal(t, "appointment provider timed out", msg)

	status, msg = StatusFor(fmt.Errorf("wrapped: %w", auth))
	assert.Equal(t, http.StatusBadGateway, status)
	assert.NotContains(t, msg, "401")

	status, msg = StatusFor(parseErr)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, msg, "could not parse appointment provider response: ")
	assert.NotContains(t, msg, "Sorry")

	status, _ = StatusFor(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
}
