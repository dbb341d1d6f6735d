package mainconfig

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/appointment-slots/internal/appointments"
	appconfig "github.com/wolfman30/appointment-slots/internal/config"
	httpmiddleware "github.com/wolfman30/appointment-slots/internal/http/middleware"
	"github.com/wolfman30/appointment-slots/internal/llm"
	"github.com/wolfman30/appointment-slots/internal/observability/metrics"
	"github.com/wolfman30/appointment-slots/pkg/logging"
)

const (
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
	ProviderGemini  = "gemini"
)

// LoadAWSConfig centralizes AWS SDK initialization so both binaries share the
// same LocalStack/production wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	return config.LoadDefaultConfig(ctx, loaders...)
}

// ModelFor returns the configured model or the provider's default.
func ModelFor(cfg *appconfig.Config) string {
	if model := strings.TrimSpace(cfg.LLMModel); model != "" {
		return model
	}
	switch cfg.LLMProvider {
	case ProviderGemini:
		return llm.DefaultGeminiModel
	case ProviderBedrock:
		return ""
	default:
		return llm.DefaultOpenAIModel
	}
}

// NewLLMClient builds the completion client selected by LLM_PROVIDER. The
// returned cleanup func releases provider resources and is never nil.
func NewLLMClient(ctx context.Context, cfg *appconfig.Config) (llm.Client, func(), error) {
	noop := func() {}
	model := ModelFor(cfg)

	switch cfg.LLMProvider {
	case ProviderOpenAI, "":
		client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, model)
		if err != nil {
			return nil, noop, err
		}
		return client, noop, nil

	case ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, model)
		if err != nil {
			return nil, noop, err
		}
		return client, func() { _ = client.Close() }, nil

	case ProviderBedrock:
		if model == "" {
			return nil, noop, fmt.Errorf("mainconfig: LLM_MODEL is required for the bedrock provider")
		}
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, noop, fmt.Errorf("mainconfig: load aws config: %w", err)
		}
		runtime := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
			if endpoint := strings.TrimSpace(cfg.AWSEndpointOverride); endpoint != "" {
				o.BaseEndpoint = aws.String(endpoint)
			}
			// A single attempt per request; the pipeline never retries.
			o.RetryMaxAttempts = 1
		})
		return llm.NewBedrockClient(runtime), noop, nil

	default:
		return nil, noop, fmt.Errorf("mainconfig: unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

// NewCompleterConfig maps environment configuration onto the completer.
func NewCompleterConfig(cfg *appconfig.Config) appointments.CompleterConfig {
	provider := cfg.LLMProvider
	if provider == "" {
		provider = ProviderOpenAI
	}
	return appointments.CompleterConfig{
		Provider:    provider,
		Model:       ModelFor(cfg),
		Temperature: cfg.LLMTemperature,
		MaxTokens:   int32(cfg.LLMMaxTokens),
		Timeout:     cfg.LLMTimeout,
	}
}

// BuildService assembles the suggestion pipeline shared by the HTTP server,
// the Lambda handler and the CLI.
func BuildService(client llm.Client, cfg *appconfig.Config, m *metrics.SuggestionMetrics, logger *logging.Logger) *appointments.Service {
	loc := appointments.DisplayLocation(cfg.DisplayTimezone)
	if loc.String() != strings.TrimSpace(cfg.DisplayTimezone) && cfg.DisplayTimezone != "" {
		logger.Warn("unknown DISPLAY_TIMEZONE, using UTC", "timezone", cfg.DisplayTimezone)
	}
	completer := appointments.NewCompleter(client, NewCompleterConfig(cfg))
	return appointments.NewService(completer, loc, logger,
		appointments.WithMetrics(m),
		appointments.WithAudit(cfg.AuditSlots),
	)
}

// BuildRedisClient returns a configured Redis client or nil when the address
// is empty or, with verify set, the server does not answer a ping.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildRateLimiter picks the limiter backend from RATE_LIMIT_BACKEND. The
// Redis backend falls back to memory when Redis is unreachable.
func BuildRateLimiter(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (httpmiddleware.Limiter, func()) {
	if cfg.RateLimitRPS <= 0 {
		return nil, func() {}
	}
	if cfg.RateLimitBackend == "redis" {
		if client := BuildRedisClient(ctx, cfg, logger, true); client != nil {
			logger.Info("rate limiting via redis", "addr", cfg.RedisAddr)
			return httpmiddleware.NewRedisRateLimiter(client, cfg.RateLimitRPS, cfg.RateLimitBurst), func() { _ = client.Close() }
		}
		logger.Warn("falling back to in-memory rate limiting")
	}
	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	return limiter, limiter.Close
}
