package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepdiagram/backend/pkg/artifact"
	"github.com/deepdiagram/backend/pkg/conversation"
	"github.com/deepdiagram/backend/pkg/llm"
)

// fakeClient scripts the two pipeline stages separately: the tool stage
// answers CompleteWithTool, the plain stage answers Complete.
type fakeClient struct {
	toolReply llm.Reply
	toolErr   error
	text      string
	textErr   error

	toolSystem string
	genSystem  string
	genTurns   []conversation.Turn
}

func (c *fakeClient) Complete(_ context.Context, system string, turns []conversation.Turn) (string, error) {
	c.genSystem = system
	c.genTurns = turns
	return c.text, c.textErr
}

func (c *fakeClient) CompleteWithTool(_ context.Context, system string, turns []conversation.Turn, _ llm.Tool) (llm.Reply, error) {
	c.toolSystem = system
	return c.toolReply, c.toolErr
}

func callReply(name, instruction string) llm.Reply {
	return llm.Reply{Call: &conversation.ToolCall{
		Name: name,
		Args: map[string]any{"instruction": instruction},
	}}
}

func TestAgentRunGeneratesArtifact(t *testing.T) {
	client := &fakeClient{
		toolReply: callReply("create_mindmap", "mindmap about Go"),
		text:      "```markdown\n# Go\n- Syntax\n- Concurrency\n```",
	}
	agent := New(Mindmap(), client, nil)

	st, err := agent.Run(context.Background(), State{
		Turns: []conversation.Turn{conversation.User("mindmap about Go")},
	})
	require.NoError(t, err)

	assert.Equal(t, artifact.FormatMindmap, st.Artifact.Format)
	assert.Equal(t, "# Go\n- Syntax\n- Concurrency", st.Artifact.Content)

	require.Len(t, st.Turns, 3)
	callTurn, toolTurn := st.Turns[1], st.Turns[2]
	require.NotNil(t, callTurn.Call)
	assert.Equal(t, "create_mindmap", callTurn.Call.Name)
	assert.NotEmpty(t, callTurn.Call.ID, "missing call IDs get filled in")
	require.NotNil(t, toolTurn.Result)
	assert.Equal(t, callTurn.Call.ID, toolTurn.Result.ID)
	assert.Equal(t, st.Artifact.Content, toolTurn.Result.Content)

	// The instruction reaches the generate stage as an extra user turn.
	require.NotEmpty(t, client.genTurns)
	assert.Equal(t, "Instruction: mindmap about Go", client.genTurns[len(client.genTurns)-1].Text())
}

func TestAgentRunModifiesExistingArtifact(t *testing.T) {
	client := &fakeClient{
		toolReply: callReply("create_chart", "add December"),
		text:      `{"series": [{"type": "bar", "data": [1, 2, 3]}]}`,
	}
	agent := New(Charts(), client, nil)

	st, err := agent.Run(context.Background(), State{
		Turns:    []conversation.Turn{conversation.User("add December")},
		Artifact: artifact.State{Format: artifact.FormatChart, Content: `{"series": [{"type": "bar", "data": [1, 2]}]}`},
	})
	require.NoError(t, err)

	assert.Contains(t, client.genSystem, `{"series": [{"type": "bar", "data": [1, 2]}]}`)
	assert.Contains(t, client.genSystem, "Apply changes to this code.")
	assert.Equal(t, `{"series": [{"type": "bar", "data": [1, 2, 3]}]}`, st.Artifact.Content)
}

func TestAgentRunSyncsTrailingToolTurn(t *testing.T) {
	client := &fakeClient{
		toolReply: callReply("create_flow", "rename the start node"),
		text:      `{"nodes": [{"id": "1", "data": {"label": "Begin"}}]}`,
	}
	agent := New(Flow(), client, nil)

	// The caller's artifact lags behind the conversation; the trailing
	// tool turn is the fresher copy.
	st, err := agent.Run(context.Background(), State{
		Turns: []conversation.Turn{
			conversation.User("flowchart"),
			conversation.AssistantCall("", &conversation.ToolCall{ID: "c1", Name: "create_flow"}),
			conversation.ToolReply(&conversation.ToolResult{ID: "c1", Name: "create_flow", Content: `{"nodes": [{"id": "1", "data": {"label": "Start"}}]}`}),
		},
	})
	require.NoError(t, err)

	assert.Contains(t, client.genSystem, `"label": "Start"`)
	assert.Equal(t, artifact.FormatFlow, st.Artifact.Format)
	assert.Contains(t, st.Artifact.Content, `"label": "Begin"`)
}

func TestAgentRunPlainTextPassthrough(t *testing.T) {
	client := &fakeClient{toolReply: llm.Reply{Text: "What should the mindmap cover?"}}
	agent := New(Mindmap(), client, nil)

	st, err := agent.Run(context.Background(), State{
		Turns: []conversation.Turn{conversation.User("make a mindmap")},
	})
	require.NoError(t, err)

	require.Len(t, st.Turns, 2)
	assert.Equal(t, conversation.RoleAssistant, st.Turns[1].Role)
	assert.Nil(t, st.Turns[1].Call)
	assert.Equal(t, "What should the mindmap cover?", st.Turns[1].Text())
	assert.True(t, st.Artifact.Empty())
}

func TestAgentRunPlanFailure(t *testing.T) {
	client := &fakeClient{toolErr: errors.New("rate limited")}
	agent := New(Drawio(), client, nil)

	_, err := agent.Run(context.Background(), State{
		Turns: []conversation.Turn{conversation.User("aws architecture")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestAgentRunEmptyGenerationKeepsArtifact(t *testing.T) {
	family := Drawio()
	client := &fakeClient{
		toolReply: callReply(family.ToolName, "add a load balancer"),
		text:      "```\n\n```",
	}
	agent := New(family, client, nil)

	prior := artifact.State{Format: artifact.FormatDrawio, Content: "<mxfile/>"}
	st, err := agent.Run(context.Background(), State{
		Turns:    []conversation.Turn{conversation.User("add a load balancer")},
		Artifact: prior,
	})
	require.NoError(t, err)

	assert.Equal(t, prior, st.Artifact)
	last := st.Turns[len(st.Turns)-1]
	require.NotNil(t, last.Result)
	assert.Equal(t, family.EmptyError, last.Result.Content)
}

func TestAgentRunRepairsEmptyTurns(t *testing.T) {
	client := &fakeClient{
		toolReply: callReply("create_mermaid", "two step flow"),
		text:      "graph TD\nA-->B",
	}
	agent := New(Mermaid(), client, nil)

	st, err := agent.Run(context.Background(), State{
		Turns: []conversation.Turn{
			conversation.User("mermaid diagram"),
			{Role: conversation.RoleAssistant},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Continue", st.Turns[1].Text())
}

func TestGeneralRun(t *testing.T) {
	client := &fakeClient{text: "Hello! Ask me for a diagram any time."}
	g := NewGeneral(client, nil)

	st, err := g.Run(context.Background(), State{
		Turns: []conversation.Turn{conversation.User("hi")},
	})
	require.NoError(t, err)
	require.Len(t, st.Turns, 2)
	assert.Equal(t, "Hello! Ask me for a diagram any time.", st.Turns[1].Text())
	assert.True(t, st.Artifact.Empty())
}

func TestGeneralRunEmptyReplyFallback(t *testing.T) {
	client := &fakeClient{}
	g := NewGeneral(client, nil)

	st, err := g.Run(context.Background(), State{
		Turns: []conversation.Turn{conversation.User("hi")},
	})
	require.NoError(t, err)
	assert.True(t, strings.Contains(st.Turns[1].Text(), "mindmap"))
}
