package conversation

import (
	"testing"

	"github.com/andreyvit/diff"
	"github.com/stretchr/testify/assert"
)

func TestTurnText(t *testing.T) {
	assert.Equal(t, "hello", User("hello").Text())
	assert.Equal(t, "a b", Turn{
		Role:     RoleUser,
		Segments: []Segment{{Text: "a"}, {ImageURL: "http://x/1.png"}, {Text: "b"}},
	}.Text())
	assert.Equal(t, "graph TD", ToolReply(&ToolResult{Content: "graph TD"}).Text())
	assert.Equal(t, "", ToolReply(nil).Text())
}

func TestTurnEmpty(t *testing.T) {
	assert.True(t, Turn{Role: RoleUser}.Empty())
	assert.True(t, Assistant("").Empty())
	assert.False(t, User("hi").Empty())
	assert.False(t, UserWithImages("", []string{"http://x/1.png"}).Empty())
	assert.False(t, AssistantCall("", &ToolCall{Name: "create_chart"}).Empty())
	assert.True(t, ToolReply(&ToolResult{Name: "create_chart"}).Empty())
	assert.False(t, ToolReply(&ToolResult{Content: "{}"}).Empty())
}

func TestRepairEmpty(t *testing.T) {
	turns := []Turn{User("hi"), {Role: RoleAssistant}, User("again")}
	repaired := RepairEmpty(turns, "Continue")

	assert.Equal(t, "hi", repaired[0].Text())
	assert.Equal(t, "Continue", repaired[1].Text())
	assert.Equal(t, "again", repaired[2].Text())
	// The original slice stays untouched.
	assert.True(t, turns[1].Empty())
}

func TestTranscript(t *testing.T) {
	turns := []Turn{
		UserWithImages("what is this", []string{"http://x/1.png"}),
		Assistant("A pie chart."),
		User("make it a bar chart"),
		AssistantCall("", &ToolCall{Name: "create_chart", Args: map[string]any{"instruction": "bar chart"}}),
		ToolReply(&ToolResult{Name: "create_chart", Content: `{"series": []}`}),
	}

	want := "User: what is this [User uploaded an image]\n" +
		"Assistant: A pie chart.\n" +
		"User: make it a bar chart\n" +
		"Assistant: \n" +
		"Tool: {\"series\": []}\n"
	if got := Transcript(turns); got != want {
		t.Errorf("transcript mismatch:\n%s", diff.LineDiff(want, got))
	}
}

func TestLastUser(t *testing.T) {
	turns := []Turn{
		User("first"),
		Assistant("ok"),
		User("second"),
		Assistant("done"),
	}
	assert.Equal(t, "second", LastUser(turns))
	assert.Equal(t, "", LastUser(nil))
	assert.Equal(t, "", LastUser([]Turn{Assistant("hi")}))
}

func TestToolCallInstruction(t *testing.T) {
	call := &ToolCall{Args: map[string]any{"instruction": "draw a mindmap"}}
	assert.Equal(t, "draw a mindmap", call.Instruction())

	assert.Equal(t, "", (&ToolCall{}).Instruction())
	assert.Equal(t, "", (&ToolCall{Args: map[string]any{"instruction": 42}}).Instruction())
	var nilCall *ToolCall
	assert.Equal(t, "", nilCall.Instruction())
}
