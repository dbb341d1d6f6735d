package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiSplit(t *testing.T) {
	req := Request{
		System: []string{"slot rules", "  "},
		Messages: []Message{
			{Role: RoleSystem, Content: "extra rule"},
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
			{Role: RoleUser, Content: ""},
			{Role: RoleUser, Content: "mornings only"},
		},
	}

	system, history, last, err := geminiSplit(req)
	require.NoError(t, err)
	assert.Equal(t, "slot rules\n\nextra rule", system)
	assert.Equal(t, "mornings only", last)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("hello")}, history[1].Parts)
}

func TestGeminiSplit_RequiresMessage(t *testing.T) {
	_, _, _, err := geminiSplit(Request{System: []string{"rules"}})
	assert.Error(t, err)
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), " ", "")
	assert.Error(t, err)
}
