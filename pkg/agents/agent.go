// Package agents implements the per-family orchestration contract: one
// plan stage that turns the conversation into a generation instruction,
// and one generate stage that turns the instruction into an artifact.
package agents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/deepdiagram/backend/pkg/artifact"
	"github.com/deepdiagram/backend/pkg/conversation"
	"github.com/deepdiagram/backend/pkg/llm"
)

// State is the context of one dispatch cycle: the running conversation
// and the artifact currently on screen. It is threaded explicitly
// through the pipeline and never shared across concurrent dispatches.
type State struct {
	Turns    []conversation.Turn
	Artifact artifact.State
}

// Runner is one specialist the dispatcher can hand a cycle to.
type Runner interface {
	Name() string
	Run(ctx context.Context, st State) (State, error)
}

// Family declares everything that differs between the five diagram
// specialists; the pipeline itself is shared.
type Family struct {
	Name            string
	Format          artifact.Format
	ToolName        string
	ToolDescription string
	// Orchestrator is the plan-stage system prompt; it instructs the
	// model to call the generation tool decisively.
	Orchestrator string
	// Generator is the generate-stage system prompt carrying the format
	// and styling rules of the family's output.
	Generator string
	// CurrentHeader and CurrentTag wrap the existing artifact when the
	// generate stage is asked to modify rather than start over.
	CurrentHeader string
	CurrentTag    string
	// Placeholder substitutes empty turn content before model calls.
	Placeholder string
	// EmptyError is the in-band tool result used when the generate
	// stage yields nothing.
	EmptyError string
}

type instructionArgs struct {
	Instruction string `json:"instruction" jsonschema:"required,description=Detailed instruction on what to create or modify."`
}

type Agent struct {
	family Family
	tool   llm.Tool
	client llm.Client
	logger *slog.Logger
}

func New(family Family, client llm.Client, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		family: family,
		tool: llm.Tool{
			Name:        family.ToolName,
			Description: family.ToolDescription,
			Schema:      llm.ReflectSchema(&instructionArgs{}),
		},
		client: client,
		logger: logger.With("agent", family.Name),
	}
}

func (a *Agent) Name() string {
	return a.family.Name
}

// Run executes one agent turn: sync the artifact from a trailing tool
// turn, repair empty content, plan, generate, normalize. A plan-stage
// plain-text reply passes through unchanged; a failed or empty generate
// stage produces an in-band error-string tool result and keeps the
// previous artifact.
func (a *Agent) Run(ctx context.Context, st State) (State, error) {
	if n := len(st.Turns); n > 0 {
		last := st.Turns[n-1]
		if last.Role == conversation.RoleTool && last.Result != nil {
			if content := strings.TrimSpace(last.Result.Content); content != "" {
				st.Artifact = artifact.State{Format: a.family.Format, Content: content}
			}
		}
	}
	st.Turns = conversation.RepairEmpty(st.Turns, a.family.Placeholder)

	reply, err := a.client.CompleteWithTool(ctx, a.family.Orchestrator, st.Turns, a.tool)
	if err != nil {
		return st, fmt.Errorf("plan call for %s failed: %w", a.family.Name, err)
	}
	if reply.Call == nil {
		a.logger.Debug("orchestrator replied without a tool call")
		st.Turns = append(st.Turns, conversation.Assistant(reply.Text))
		return st, nil
	}

	call := reply.Call
	if call.ID == "" {
		call.ID = uuid.NewString()
	}
	content, ok := a.generate(ctx, st, call.Instruction())

	st.Turns = append(st.Turns, conversation.AssistantCall(reply.Text, call))
	st.Turns = append(st.Turns, conversation.ToolReply(&conversation.ToolResult{
		ID:      call.ID,
		Name:    call.Name,
		Content: content,
	}))
	if ok {
		st.Artifact = artifact.State{Format: a.family.Format, Content: content}
	}
	return st, nil
}

func (a *Agent) generate(ctx context.Context, st State, instruction string) (string, bool) {
	system := a.family.Generator
	if !st.Artifact.Empty() {
		system += fmt.Sprintf("\n\n%s\n```%s\n%s\n```\nApply changes to this code.",
			a.family.CurrentHeader, a.family.CurrentTag, st.Artifact.Content)
	}
	turns := st.Turns
	if instruction != "" {
		turns = append(turns, conversation.User("Instruction: "+instruction))
	}
	raw, err := a.client.Complete(ctx, system, turns)
	if err != nil {
		a.logger.Warn("generation call failed", "error", err)
		return a.family.EmptyError, false
	}
	content := artifact.Normalize(raw)
	if content == "" {
		a.logger.Warn("generation call returned no content")
		return a.family.EmptyError, false
	}
	return content, true
}
