// Package conversation holds the turn model shared by the router, the
// agents and the persistence layer.
package conversation

import "strings"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ImagePlaceholder replaces image segments when a conversation is
// flattened to plain text for classification.
const ImagePlaceholder = "[User uploaded an image]"

// ToolCall is a model-requested invocation of a generation tool.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// Instruction returns the single free-text argument of a generation
// tool call, or "" when absent or of the wrong type.
func (c *ToolCall) Instruction() string {
	if c == nil {
		return ""
	}
	s, _ := c.Args["instruction"].(string)
	return s
}

// ToolResult carries the artifact (or an in-band error string) produced
// by a tool run back into the conversation.
type ToolResult struct {
	ID      string
	Name    string
	Content string
}

// Segment is one piece of possibly multimodal turn content.
type Segment struct {
	Text     string
	ImageURL string
}

type Turn struct {
	Role     Role
	Segments []Segment
	// Call is set on assistant turns that requested a tool run.
	Call *ToolCall
	// Result is set on tool turns.
	Result *ToolResult
}

func User(text string) Turn {
	return Turn{Role: RoleUser, Segments: []Segment{{Text: text}}}
}

func UserWithImages(text string, imageURLs []string) Turn {
	t := Turn{Role: RoleUser}
	if text != "" {
		t.Segments = append(t.Segments, Segment{Text: text})
	}
	for _, u := range imageURLs {
		t.Segments = append(t.Segments, Segment{ImageURL: u})
	}
	return t
}

func Assistant(text string) Turn {
	return Turn{Role: RoleAssistant, Segments: []Segment{{Text: text}}}
}

// AssistantCall is the orchestrator turn carrying a tool invocation.
func AssistantCall(text string, call *ToolCall) Turn {
	t := Turn{Role: RoleAssistant, Call: call}
	if text != "" {
		t.Segments = []Segment{{Text: text}}
	}
	return t
}

func ToolReply(result *ToolResult) Turn {
	return Turn{Role: RoleTool, Result: result}
}

// Text joins the text segments with single spaces in segment order.
// Tool turns yield their result content.
func (t Turn) Text() string {
	if t.Role == RoleTool {
		if t.Result == nil {
			return ""
		}
		return t.Result.Content
	}
	var parts []string
	for _, s := range t.Segments {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Empty reports whether the turn has no content at all. Some model
// backends reject empty content blocks, so empty turns must be repaired
// before any model call.
func (t Turn) Empty() bool {
	if t.Call != nil {
		return false
	}
	if t.Result != nil && t.Result.Content != "" {
		return false
	}
	for _, s := range t.Segments {
		if s.Text != "" || s.ImageURL != "" {
			return false
		}
	}
	return true
}

// RepairEmpty returns a copy of turns where every empty turn carries
// placeholder as its text instead. The input slice is left untouched.
func RepairEmpty(turns []Turn, placeholder string) []Turn {
	out := make([]Turn, len(turns))
	copy(out, turns)
	for i := range out {
		if out[i].Empty() {
			out[i].Segments = []Segment{{Text: placeholder}}
		}
	}
	return out
}

// Transcript flattens the conversation to a readable text form for the
// classification prompt. Image segments render as a fixed placeholder
// token; multi-segment content is joined with spaces in segment order.
func Transcript(turns []Turn) string {
	var b strings.Builder
	for _, t := range turns {
		var label string
		switch t.Role {
		case RoleUser:
			label = "User"
		case RoleAssistant:
			label = "Assistant"
		default:
			label = "Tool"
		}
		var parts []string
		for _, s := range t.Segments {
			if s.Text != "" {
				parts = append(parts, s.Text)
			}
			if s.ImageURL != "" {
				parts = append(parts, ImagePlaceholder)
			}
		}
		if t.Role == RoleTool && t.Result != nil && t.Result.Content != "" {
			parts = append(parts, t.Result.Content)
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("\n")
	}
	return b.String()
}

// LastUser returns the text of the most recent user turn, or "".
func LastUser(turns []Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleUser {
			return turns[i].Text()
		}
	}
	return ""
}
