package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConverse struct {
	input *bedrockruntime.ConverseInput
	out   *bedrockruntime.ConverseOutput
	err   error
}

func (f *fakeConverse) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.input = params
	return f.out, f.err
}

func textOutput(parts ...string) *bedrockruntime.ConverseOutput {
	blocks := make([]brtypes.ContentBlock, 0, len(parts))
	for _, p := range parts {
		blocks = append(blocks, &brtypes.ContentBlockMemberText{Value: p})
	}
	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{
			Value: brtypes.Message{Role: brtypes.ConversationRoleAssistant, Content: blocks},
		},
		StopReason: brtypes.StopReasonEndTurn,
		Usage: &brtypes.TokenUsage{
			InputTokens:  aws.Int32(120),
			OutputTokens: aws.Int32(40),
			TotalTokens:  aws.Int32(160),
		},
	}
}

func TestBedrockClient_Complete(t *testing.T) {
	api := &fakeConverse{out: textOutput(`{"availableAppointments":`, `[]}`)}
	client := NewBedrockClient(api)

	resp, err := client.Complete(context.Background(), Request{
		Model:       "anthropic.claude-3-haiku-20240307-v1:0",
		System:      []string{"rules", "  "},
		Messages:    []Message{{Role: RoleUser, Content: "mornings only"}},
		MaxTokens:   400,
		Temperature: 0.4,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"availableAppointments":[]}`, resp.Text)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, int32(160), resp.Usage.TotalTokens)

	require.NotNil(t, api.input)
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", aws.ToString(api.input.ModelId))
	require.Len(t, api.input.System, 1)
	require.Len(t, api.input.Messages, 1)
	assert.Equal(t, brtypes.ConversationRoleUser, api.input.Messages[0].Role)
	require.NotNil(t, api.input.InferenceConfig)
	assert.Equal(t, int32(400), aws.ToInt32(api.input.InferenceConfig.MaxTokens))
	assert.InDelta(t, 0.4, aws.ToFloat32(api.input.InferenceConfig.Temperature), 1e-6)
}

func TestBedrockClient_SystemRoleMessagesBecomeSystemBlocks(t *testing.T) {
	api := &fakeConverse{out: textOutput("ok")}
	client := NewBedrockClient(api)

	_, err := client.Complete(context.Background(), Request{
		Model:       "m",
		Messages:    []Message{{Role: RoleSystem, Content: "rules"}, {Role: RoleUser, Content: "hi"}},
		Temperature: -1,
	})
	require.NoError(t, err)
	assert.Len(t, api.input.System, 1)
	assert.Len(t, api.input.Messages, 1)
	assert.Nil(t, api.input.InferenceConfig)
}

func TestBedrockClient_Errors(t *testing.T) {
	client := NewBedrockClient(&fakeConverse{err: errors.New("throttled")})

	_, err := client.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
	require.Error(t, err, "model id is required")

	_, err = client.Complete(context.Background(), Request{Model: "m", Messages: []Message{{Role: "tool", Content: "x"}}})
	require.ErrorContains(t, err, "unsupported role")

	_, err = client.Complete(context.Background(), Request{Model: "m", Messages: []Message{{Role: RoleUser, Content: "x"}}})
	require.EqualError(t, err, "throttled")
}

func TestBedrockClient_EmptyOutputIsEmptyText(t *testing.T) {
	client := NewBedrockClient(&fakeConverse{out: &bedrockruntime.ConverseOutput{}})
	resp, err := client.Complete(context.Background(), Request{Model: "m", Messages: []Message{{Role: RoleUser, Content: "x"}}})
	require.NoError(t, err)
	assert.Empty(t, resp.Text)
}

func TestNewBedrockClient_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewBedrockClient(nil) })
}
