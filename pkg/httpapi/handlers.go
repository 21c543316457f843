// Package httpapi exposes session management and the dispatch cycle
// over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deepdiagram/backend/pkg/artifact"
	"github.com/deepdiagram/backend/pkg/conversation"
	"github.com/deepdiagram/backend/pkg/dispatch"
	"github.com/deepdiagram/backend/pkg/store"
)

type ChatHandler struct {
	store      *store.ChatStore
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
}

func NewChatHandler(s *store.ChatStore, d *dispatch.Dispatcher, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{store: s, dispatcher: d, logger: logger}
}

type createSessionRequest struct {
	Title string `json:"title"`
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	// An empty body is fine; the title then defaults.
	_ = c.ShouldBindJSON(&req)
	session, err := h.store.CreateSession(req.Title)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, session)
}

func (h *ChatHandler) ListSessions(c *gin.Context) {
	sessions, err := h.store.ListSessions()
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, sessions)
}

func (h *ChatHandler) History(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid session id")
		return
	}
	messages, err := h.store.History(id)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, messages)
}

func (h *ChatHandler) DeleteSession(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid session id")
		return
	}
	if err := h.store.DeleteSession(id); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, nil)
}

type chatRequest struct {
	Content string   `json:"content" binding:"required"`
	Images  []string `json:"images"`
	// Agent optionally pins a specialist (e.g. "mermaid") instead of
	// letting the router classify.
	Agent string `json:"agent"`
}

type chatResponse struct {
	Intent   string               `json:"intent"`
	Agent    string               `json:"agent"`
	Artifact string               `json:"artifact"`
	Format   artifact.Format      `json:"format"`
	Messages []*store.ChatMessage `json:"messages"`
}

// Chat runs one dispatch cycle for a session: persist the user turn,
// classify, run one specialist, persist what it produced. Persistence
// failures abort the request; routing and generation failures have
// already degraded in-band by the time they reach this handler.
func (h *ChatHandler) Chat(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid session id")
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := h.store.GetSession(id); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			fail(c, http.StatusNotFound, "session not found")
		} else {
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	history, err := h.store.History(id)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	turns, current := replay(history)

	var parentID *int64
	if len(history) > 0 {
		parentID = &history[len(history)-1].ID
	}
	userMsg, err := h.store.AddMessage(store.AddMessageParams{
		SessionID: id,
		Role:      string(conversation.RoleUser),
		Content:   req.Content,
		Images:    req.Images,
		ParentID:  parentID,
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	turns = append(turns, conversation.UserWithImages(req.Content, req.Images))
	result, err := h.dispatcher.Dispatch(c.Request.Context(), dispatch.Request{
		Turns:    turns,
		Artifact: current,
		Agent:    req.Agent,
	})
	if err != nil {
		h.logger.Error("dispatch failed", "session", id, "error", err)
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	produced := result.State.Turns[len(turns):]
	saved, err := h.persistTurns(id, userMsg.ID, result.Agent, produced)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, chatResponse{
		Intent:   string(result.Intent),
		Agent:    result.Agent,
		Artifact: result.State.Artifact.Content,
		Format:   result.State.Artifact.Format,
		Messages: append([]*store.ChatMessage{userMsg}, saved...),
	})
}

func (h *ChatHandler) persistTurns(sessionID, parentID int64, agent string, turns []conversation.Turn) ([]*store.ChatMessage, error) {
	var saved []*store.ChatMessage
	parent := parentID
	for _, t := range turns {
		pid := parent
		params := store.AddMessageParams{
			SessionID: sessionID,
			Role:      string(t.Role),
			Content:   t.Text(),
			Agent:     agent,
			ParentID:  &pid,
		}
		if t.Call != nil {
			steps, err := json.Marshal([]map[string]string{{
				"tool":        t.Call.Name,
				"instruction": t.Call.Instruction(),
			}})
			if err != nil {
				return nil, err
			}
			params.Steps = steps
		}
		msg, err := h.store.AddMessage(params)
		if err != nil {
			return nil, err
		}
		saved = append(saved, msg)
		parent = msg.ID
	}
	return saved, nil
}

// replay rebuilds the in-memory conversation and the current artifact
// from persisted messages. Tool invocations are restored from the steps
// trace so that assistant tool-call turns and their tool results come
// back as a properly paired sequence; the model backends reject a tool
// result without a preceding matching call. The artifact is the content
// of the latest tool message, tagged with the format of the agent that
// produced it.
func replay(history []*store.ChatMessage) ([]conversation.Turn, artifact.State) {
	var turns []conversation.Turn
	current := artifact.State{Format: artifact.FormatNone}
	var pending *conversation.ToolCall
	for _, m := range history {
		switch conversation.Role(m.Role) {
		case conversation.RoleUser:
			turns = append(turns, conversation.UserWithImages(m.Content, m.Images))
			pending = nil
		case conversation.RoleAssistant:
			if call := replayCall(m); call != nil {
				turns = append(turns, conversation.AssistantCall(m.Content, call))
				pending = call
			} else {
				turns = append(turns, conversation.Assistant(m.Content))
				pending = nil
			}
		case conversation.RoleTool:
			result := &conversation.ToolResult{Content: m.Content}
			if pending != nil {
				result.ID = pending.ID
				result.Name = pending.Name
				pending = nil
			}
			turns = append(turns, conversation.ToolReply(result))
			if m.Content != "" {
				current = artifact.State{Format: formatForAgent(m.Agent), Content: m.Content}
			}
		}
	}
	return turns, current
}

// replayCall rebuilds the tool invocation recorded in a message's steps
// trace. The backend call id is not persisted, so a synthetic one pairs
// the call with its result.
func replayCall(m *store.ChatMessage) *conversation.ToolCall {
	if len(m.Steps) == 0 {
		return nil
	}
	var steps []struct {
		Tool        string `json:"tool"`
		Instruction string `json:"instruction"`
	}
	if err := json.Unmarshal(m.Steps, &steps); err != nil || len(steps) == 0 || steps[0].Tool == "" {
		return nil
	}
	return &conversation.ToolCall{
		ID:   fmt.Sprintf("replay-%d", m.ID),
		Name: steps[0].Tool,
		Args: map[string]any{"instruction": steps[0].Instruction},
	}
}

func formatForAgent(agent string) artifact.Format {
	switch agent {
	case "mindmap":
		return artifact.FormatMindmap
	case "flow":
		return artifact.FormatFlow
	case "charts":
		return artifact.FormatChart
	case "mermaid":
		return artifact.FormatMermaid
	case "drawio":
		return artifact.FormatDrawio
	}
	// Unknown provenance; the router will fall back to sniffing.
	return artifact.FormatUnknown
}

func sessionID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
