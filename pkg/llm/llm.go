// Package llm is the boundary to the language-model backends. Two call
// shapes exist: a plain completion, and a tool-augmented completion that
// exposes exactly one tool and returns either text or one tool call.
package llm

import (
	"context"

	"github.com/invopop/jsonschema"

	"github.com/deepdiagram/backend/pkg/conversation"
)

// Tool describes the single generation tool offered to the model in a
// tool-augmented call.
type Tool struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
}

// Reply is the outcome of a tool-augmented completion: either plain
// text, or one call of the offered tool. Never both.
type Reply struct {
	Text string
	Call *conversation.ToolCall
}

type Client interface {
	// Complete makes one plain completion call and returns its text.
	Complete(ctx context.Context, system string, turns []conversation.Turn) (string, error)
	// CompleteWithTool makes one completion call with tool available.
	// The backend never exposes more than this one tool to the model.
	CompleteWithTool(ctx context.Context, system string, turns []conversation.Turn, tool Tool) (Reply, error)
}

// ReflectSchema builds the request schema for a tool args struct.
func ReflectSchema(v any) *jsonschema.Schema {
	return (&jsonschema.Reflector{
		DoNotReference: true,
	}).Reflect(v)
}
