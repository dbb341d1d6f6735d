package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/wolfman30/appointment-slots/cmd/mainconfig"
	"github.com/wolfman30/appointment-slots/internal/appointments"
	appconfig "github.com/wolfman30/appointment-slots/internal/config"
	"github.com/wolfman30/appointment-slots/pkg/logging"
)

const suggestionsPath = "/appointments/suggestions"

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	client, closeClient, err := mainconfig.NewLLMClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to build completion client", "error", err)
		os.Exit(1)
	}
	defer closeClient()

	service := mainconfig.BuildService(client, cfg, nil, logger)
	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, service, logger, evt)
	})
}

func handle(ctx context.Context, svc appointments.Suggester, logger *logging.Logger, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}

	if path == "/health" || path == "/_health" {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Body: "ok"}, nil
	}

	// Function URLs invoke the root path.
	if path != suggestionsPath && path != "/" && path != "" {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNotFound}, nil
	}
	if method != http.MethodPost {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusMethodNotAllowed}, nil
	}

	body, err := decodeBody(evt)
	if err != nil {
		return jsonResponse(http.StatusBadRequest, appointments.ErrorBody{Error: "Invalid request body"}), nil
	}

	preferences, err := appointments.ParsePreferences(headerValue(evt.Headers, "content-type"), body, queryValues(evt))
	if err != nil {
		logger.Error("failed to decode suggestion request", "error", err)
		return jsonResponse(http.StatusBadRequest, appointments.ErrorBody{Error: "Invalid request body"}), nil
	}

	resp, err := svc.Suggest(ctx, preferences)
	if err != nil {
		status, msg := appointments.StatusFor(err)
		logger.Error("failed to suggest appointments", "status", status, "error", err)
		return jsonResponse(status, appointments.ErrorBody{Error: msg}), nil
	}
	return jsonResponse(http.StatusOK, resp.Payload), nil
}

func jsonResponse(status int, payload any) events.APIGatewayV2HTTPResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"content-type": appointments.ContentTypeJSON},
	}
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	return base64.StdEncoding.DecodeString(evt.Body)
}

func queryValues(evt events.APIGatewayV2HTTPRequest) url.Values {
	if qs := strings.TrimSpace(evt.RawQueryString); qs != "" {
		if values, err := url.ParseQuery(qs); err == nil {
			return values
		}
	}
	values := url.Values{}
	for k, v := range evt.QueryStringParameters {
		values.Set(k, v)
	}
	return values
}

func headerValue(headers map[string]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
