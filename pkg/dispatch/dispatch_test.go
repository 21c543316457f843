package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepdiagram/backend/pkg/artifact"
	"github.com/deepdiagram/backend/pkg/conversation"
	"github.com/deepdiagram/backend/pkg/llm"
	"github.com/deepdiagram/backend/pkg/router"
)

type stubClient struct {
	completeText string
	reply        llm.Reply
}

func (c *stubClient) Complete(context.Context, string, []conversation.Turn) (string, error) {
	return c.completeText, nil
}

func (c *stubClient) CompleteWithTool(context.Context, string, []conversation.Turn, llm.Tool) (llm.Reply, error) {
	return c.reply, nil
}

func TestDispatchRoutesByClassification(t *testing.T) {
	routerClient := &stubClient{completeText: "charts"}
	agentClient := &stubClient{
		completeText: "```json\n{\"series\": [{\"type\": \"pie\", \"data\": [40, 60]}]}\n```",
		reply: llm.Reply{Call: &conversation.ToolCall{
			Name: "create_chart",
			Args: map[string]any{"instruction": "pie chart of market share"},
		}},
	}
	d := New(routerClient, agentClient, nil)

	result, err := d.Dispatch(context.Background(), Request{
		Turns: []conversation.Turn{conversation.User("pie chart of market share")},
	})
	require.NoError(t, err)

	assert.Equal(t, router.IntentCharts, result.Intent)
	assert.Equal(t, "charts", result.Agent)
	assert.Equal(t, artifact.FormatChart, result.State.Artifact.Format)
	assert.Equal(t, `{"series": [{"type": "pie", "data": [40, 60]}]}`, result.State.Artifact.Content)
	assert.Len(t, result.State.Turns, 3)
}

func TestDispatchAgentPin(t *testing.T) {
	// The router would say charts here; the pin must win and the router
	// must never be consulted.
	routerClient := &stubClient{completeText: "charts"}
	agentClient := &stubClient{
		completeText: "graph TD\nA-->B",
		reply: llm.Reply{Call: &conversation.ToolCall{
			Name: "create_mermaid",
			Args: map[string]any{"instruction": "two nodes"},
		}},
	}
	d := New(routerClient, agentClient, nil)

	result, err := d.Dispatch(context.Background(), Request{
		Turns: []conversation.Turn{conversation.User("two nodes")},
		Agent: "mermaid",
	})
	require.NoError(t, err)
	assert.Equal(t, "mermaid", result.Agent)
	assert.Equal(t, router.Intent("mermaid"), result.Intent)
	assert.Equal(t, artifact.FormatMermaid, result.State.Artifact.Format)
}

func TestDispatchUnknownAgent(t *testing.T) {
	d := New(&stubClient{}, &stubClient{}, nil)
	_, err := d.Dispatch(context.Background(), Request{
		Turns: []conversation.Turn{conversation.User("hi")},
		Agent: "sculptor",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sculptor")
}

func TestDispatchGeneralFallback(t *testing.T) {
	routerClient := &stubClient{completeText: "none of the above"}
	agentClient := &stubClient{completeText: "Hi! What would you like to diagram?"}
	d := New(routerClient, agentClient, nil)

	result, err := d.Dispatch(context.Background(), Request{
		Turns: []conversation.Turn{conversation.User("hello")},
	})
	require.NoError(t, err)
	assert.Equal(t, router.IntentGeneral, result.Intent)
	assert.Equal(t, "general", result.Agent)
	assert.True(t, result.State.Artifact.Empty())
}

func TestAgentsOrder(t *testing.T) {
	d := New(&stubClient{}, &stubClient{}, nil)
	assert.Equal(t, []string{"mindmap", "flow", "charts", "drawio", "general", "mermaid"}, d.Agents())
}
