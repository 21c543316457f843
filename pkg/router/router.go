// Package router is the single decision point of a dispatch cycle: it
// classifies the latest user turn, in the light of the whole
// conversation and the artifact currently on screen, into the intent
// naming the specialist to invoke next.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/deepdiagram/backend/pkg/artifact"
	"github.com/deepdiagram/backend/pkg/conversation"
	"github.com/deepdiagram/backend/pkg/llm"
)

// Intent is the classification result. IntentGeneral is the designated
// default: unclassifiable input is a first-class state, not a failure.
type Intent string

const (
	IntentMindmap Intent = "mindmap"
	IntentFlow    Intent = "flow"
	IntentCharts  Intent = "charts"
	IntentDrawio  Intent = "drawio"
	IntentGeneral Intent = "general"
)

// ParseIntent maps a raw model reply to an Intent by first-match
// substring search in fixed priority order. Unrecognized output
// resolves to IntentGeneral; this never fails.
func ParseIntent(raw string) Intent {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "mindmap"):
		return IntentMindmap
	case strings.Contains(s, "flow"):
		return IntentFlow
	case strings.Contains(s, "chart"):
		return IntentCharts
	case strings.Contains(s, "drawio"),
		strings.Contains(s, "draw.io"),
		strings.Contains(s, "architecture"),
		strings.Contains(s, "network"):
		return IntentDrawio
	default:
		return IntentGeneral
	}
}

type capability struct {
	intent Intent
	desc   string
}

var capabilities = []capability{
	{IntentMindmap, "Best for hierarchical structures, brainstorming, outlining ideas, and organizing concepts. Output: Markdown/Markmap."},
	{IntentFlow, "Best for sequential processes, workflows, decision trees, and logic flows. Output: React Flow JSON."},
	{IntentCharts, "Best for quantitative data visualization (sales, stats, trends). Output: ECharts (Bar, Line, Pie, etc.)."},
	{IntentDrawio, "Best for complex architecture diagrams, cloud infrastructure (AWS/Azure), UML class diagrams, and network topologies. Output: Draw.io XML. Use this if user explicitly asks for 'Draw.io' or 'architecture'."},
	{IntentGeneral, "Handles greetings, questions unrelated to diagramming, or requests that don't fit other categories."},
}

const rulesText = `Context Awareness Rules:
1. IF "CURRENT VISUAL CONTEXT" is "Chart" AND user asks to "add", "remove", "change", "update" numbers or items -> YOU MUST ROUTE TO 'charts'.
2. IF "CURRENT VISUAL CONTEXT" is "Mindmap" AND user asks to "add node", "expand" -> YOU MUST ROUTE TO 'mindmap'.
3. IF "CURRENT VISUAL CONTEXT" is "Flowchart" AND user asks to "change shape", "connect" -> YOU MUST ROUTE TO 'flow'.`

// BuildPrompt assembles the single classification prompt: capability
// descriptions, the active-context label, the hard context-carryover
// rules, the flattened transcript, and the latest user turn repeated
// for emphasis.
func BuildPrompt(turns []conversation.Turn, current artifact.State) string {
	var descs []string
	for _, c := range capabilities {
		descs = append(descs, fmt.Sprintf("- '%s': %s", c.intent, c.desc))
	}
	var b strings.Builder
	b.WriteString("You are an Intent Router.\n")
	b.WriteString("Analyze the user's request and the conversation history to classify the intent into one of the categories.\n\n")
	fmt.Fprintf(&b, "CURRENT VISUAL CONTEXT: %s\n", current.ContextLabel())
	b.WriteString("(This is what the user is currently looking at on the screen)\n\n")
	b.WriteString(rulesText)
	b.WriteString("\n\nAgent Capabilities:\n")
	b.WriteString(strings.Join(descs, "\n"))
	b.WriteString("\n\nOutput ONLY the category name.\n")
	b.WriteString("\nCONVERSATION HISTORY:\n")
	b.WriteString(conversation.Transcript(turns))
	fmt.Fprintf(&b, "\nUser's Last Request: %s\n\nCLASSIFICATION:", conversation.LastUser(turns))
	return b.String()
}

type Router struct {
	client llm.Client
	logger *slog.Logger
}

func New(client llm.Client, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{client: client, logger: logger}
}

// Classify runs one plain completion over the classification prompt.
// It is total: a malformed reply or a failed model call still resolves
// to IntentGeneral.
func (r *Router) Classify(ctx context.Context, turns []conversation.Turn, current artifact.State) Intent {
	turns = conversation.RepairEmpty(turns, "Continue")
	prompt := BuildPrompt(turns, current)
	raw, err := r.client.Complete(ctx, "", []conversation.Turn{conversation.User(prompt)})
	if err != nil {
		r.logger.Warn("classification call failed, defaulting to general", "error", err)
		return IntentGeneral
	}
	intent := ParseIntent(raw)
	r.logger.Debug("classified intent",
		"context", current.ContextLabel(),
		"raw", strings.TrimSpace(raw),
		"intent", intent)
	return intent
}
