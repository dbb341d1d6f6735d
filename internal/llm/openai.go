package llm

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultOpenAIModel = "gpt-4.1-mini"

type openAIChatAPI interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIClient implements Client on the OpenAI chat completions API.
type OpenAIClient struct {
	api     openAIChatAPI
	modelID string
}

// NewOpenAIClient builds an SDK-backed client. baseURL is optional and points
// the SDK at an OpenAI-compatible endpoint. SDK retries are disabled so every
// Complete call is a single attempt.
func NewOpenAIClient(apiKey, baseURL, modelID string, extra ...option.RequestOption) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("llm: openai api key is required")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(baseURL); base != "" {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		opts = append(opts, option.WithBaseURL(base))
	}
	opts = append(opts, extra...)

	client := openai.NewClient(opts...)
	return newOpenAIClient(&client.Chat.Completions, modelID), nil
}

func newOpenAIClient(api openAIChatAPI, modelID string) *OpenAIClient {
	if strings.TrimSpace(modelID) == "" {
		modelID = DefaultOpenAIModel
	}
	return &OpenAIClient{api: api, modelID: modelID}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (Response, error) {
	model := c.modelID
	if strings.TrimSpace(req.Model) != "" {
		model = req.Model
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.System)+len(req.Messages))
	for _, block := range req.System {
		if strings.TrimSpace(block) == "" {
			continue
		}
		messages = append(messages, openai.SystemMessage(block))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case RoleUser:
			messages = append(messages, openai.UserMessage(msg.Content))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			return Response{}, fmt.Errorf("llm: unsupported role %q", msg.Role)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	if req.Temperature >= 0 {
		params.Temperature = openai.Float(widen(req.Temperature))
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	completion, err := c.api.New(ctx, params)
	if err != nil {
		return Response{}, err
	}
	if completion == nil {
		return Response{}, errors.New("llm: openai response is nil")
	}

	var resp Response
	if len(completion.Choices) > 0 {
		resp.Text = completion.Choices[0].Message.Content
		resp.StopReason = completion.Choices[0].FinishReason
	}
	resp.Usage = TokenUsage{
		InputTokens:  int32(completion.Usage.PromptTokens),
		OutputTokens: int32(completion.Usage.CompletionTokens),
		TotalTokens:  int32(completion.Usage.TotalTokens),
	}
	return resp, nil
}

// widen converts through the shortest decimal form so 0.4 stays 0.4 on the wire.
func widen(v float32) float64 {
	f, err := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'f', -1, 32), 64)
	if err != nil {
		return float64(v)
	}
	return f
}
