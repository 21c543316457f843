package agents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deepdiagram/backend/pkg/conversation"
	"github.com/deepdiagram/backend/pkg/llm"
)

const generalPrompt = `You are the assistant of a diagramming workspace.
You handle greetings and questions that do not ask for a diagram.
Answer briefly and helpfully. When the user's question could be served by a
visual (a mindmap, flowchart, chart, or architecture diagram), mention that
they can ask for one. Reply in the user's language.`

// General is the fallback conversational specialist. It makes a single
// plain completion and never touches the artifact.
type General struct {
	client llm.Client
	logger *slog.Logger
}

func NewGeneral(client llm.Client, logger *slog.Logger) *General {
	if logger == nil {
		logger = slog.Default()
	}
	return &General{client: client, logger: logger.With("agent", "general")}
}

func (g *General) Name() string {
	return "general"
}

func (g *General) Run(ctx context.Context, st State) (State, error) {
	st.Turns = conversation.RepairEmpty(st.Turns, "Continue")
	text, err := g.client.Complete(ctx, generalPrompt, st.Turns)
	if err != nil {
		return st, fmt.Errorf("general completion failed: %w", err)
	}
	if text == "" {
		text = "I'm not sure how to help with that. You can ask me for a mindmap, flowchart, chart, or architecture diagram."
	}
	st.Turns = append(st.Turns, conversation.Assistant(text))
	return st, nil
}
