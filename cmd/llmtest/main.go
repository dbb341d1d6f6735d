package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wolfman30/appointment-slots/cmd/mainconfig"
	"github.com/wolfman30/appointment-slots/internal/appointments"
	appconfig "github.com/wolfman30/appointment-slots/internal/config"
	"github.com/wolfman30/appointment-slots/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	provider := flag.String("provider", "", "override LLM_PROVIDER (openai, bedrock, gemini)")
	model := flag.String("model", "", "override LLM_MODEL")
	flag.Parse()

	cfg := appconfig.Load()
	if *provider != "" {
		cfg.LLMProvider = strings.ToLower(*provider)
	}
	if *model != "" {
		cfg.LLMModel = *model
	}
	preferences := strings.Join(flag.Args(), " ")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLMTimeout+5*time.Second)
	defer cancel()

	client, closeClient, err := mainconfig.NewLLMClient(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create %s client: %v\n", cfg.LLMProvider, err)
		os.Exit(1)
	}
	defer closeClient()

	service := mainconfig.BuildService(client, cfg, nil, logging.New("warn"))

	fmt.Printf("Provider: %s  Model: %s\n", cfg.LLMProvider, mainconfig.ModelFor(cfg))
	fmt.Printf("Preferences: %q\n\n", preferences)

	start := time.Now()
	resp, err := service.Suggest(ctx, preferences)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		status, msg := appointments.StatusFor(err)
		fmt.Fprintf(os.Stderr, "suggestion failed after %v (HTTP %d: %s): %v\n", elapsed, status, msg, err)
		var malformed *appointments.MalformedResponseError
		if errors.As(err, &malformed) {
			fmt.Fprintf(os.Stderr, "raw completion:\n%s\n", malformed.Raw)
		}
		os.Exit(1)
	}

	out, err := json.MarshalIndent(resp.Payload, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode payload: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s\n\n%d slot(s) in %v\n", out, len(resp.Payload.AvailableAppointments), elapsed)
}
