package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrSessionNotFound = errors.New("chat session not found")

const DefaultSessionTitle = "New Chat"

type ChatSession struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatMessage struct {
	ID        int64           `json:"id"`
	SessionID int64           `json:"session_id"`
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Images    []string        `json:"images,omitempty"`
	Steps     json.RawMessage `json:"steps,omitempty"`
	Agent     string          `json:"agent,omitempty"`
	// ParentID is a weak back-reference to the message that triggered
	// this one; lookup only, not ownership.
	ParentID  *int64    `json:"parent_id,omitempty"`
	TurnIndex int       `json:"turn_index"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatStore struct {
	db *sql.DB
}

func NewChatStore(db *sql.DB) *ChatStore {
	return &ChatStore{db: db}
}

func (s *ChatStore) CreateSession(title string) (*ChatSession, error) {
	if title == "" {
		title = DefaultSessionTitle
	}
	now := time.Now().UTC()
	res, err := s.db.Exec(
		"INSERT INTO chat_sessions (title, created_at, updated_at) VALUES (?, ?, ?)",
		title, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &ChatSession{ID: id, Title: title, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *ChatStore) GetSession(id int64) (*ChatSession, error) {
	var cs ChatSession
	err := s.db.QueryRow(
		"SELECT id, title, created_at, updated_at FROM chat_sessions WHERE id = ?", id).
		Scan(&cs.ID, &cs.Title, &cs.CreatedAt, &cs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session %d: %w", id, err)
	}
	return &cs, nil
}

// ListSessions returns all sessions, most recently updated first.
func (s *ChatStore) ListSessions() ([]*ChatSession, error) {
	rows, err := s.db.Query(
		"SELECT id, title, created_at, updated_at FROM chat_sessions ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()
	var sessions []*ChatSession
	for rows.Next() {
		var cs ChatSession
		if err := rows.Scan(&cs.ID, &cs.Title, &cs.CreatedAt, &cs.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, &cs)
	}
	return sessions, rows.Err()
}

type AddMessageParams struct {
	SessionID int64
	Role      string
	Content   string
	Images    []string
	Steps     json.RawMessage
	Agent     string
	ParentID  *int64
}

// AddMessage appends one message in a single transaction: the turn
// index is parent.turn_index+1 (0 without a parent), and the owning
// session's updated_at is bumped. A failed append leaves no partial row
// and does not advance updated_at.
func (s *ChatStore) AddMessage(p AddMessageParams) (*ChatMessage, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	turnIndex := 0
	if p.ParentID != nil {
		var parentIndex int
		err := tx.QueryRow(
			"SELECT turn_index FROM chat_messages WHERE id = ?", *p.ParentID).
			Scan(&parentIndex)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Weak reference; a vanished parent keeps index 0.
		case err != nil:
			return nil, fmt.Errorf("failed to fetch parent %d: %w", *p.ParentID, err)
		default:
			turnIndex = parentIndex + 1
		}
	}

	var images any
	if len(p.Images) > 0 {
		encoded, err := json.Marshal(p.Images)
		if err != nil {
			return nil, err
		}
		images = string(encoded)
	}
	var steps any
	if len(p.Steps) > 0 {
		steps = string(p.Steps)
	}
	var agent any
	if p.Agent != "" {
		agent = p.Agent
	}

	now := time.Now().UTC()
	res, err := tx.Exec(`
		INSERT INTO chat_messages
			(session_id, role, content, images, steps, agent, parent_id, turn_index, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.SessionID, p.Role, p.Content, images, steps, agent, p.ParentID, turnIndex, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	updated, err := tx.Exec(
		"UPDATE chat_sessions SET updated_at = ? WHERE id = ?", now, p.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to bump session %d: %w", p.SessionID, err)
	}
	if n, err := updated.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrSessionNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit message: %w", err)
	}
	return &ChatMessage{
		ID:        id,
		SessionID: p.SessionID,
		Role:      p.Role,
		Content:   p.Content,
		Images:    p.Images,
		Steps:     p.Steps,
		Agent:     p.Agent,
		ParentID:  p.ParentID,
		TurnIndex: turnIndex,
		CreatedAt: now,
	}, nil
}

// History returns the session's messages in creation order.
func (s *ChatStore) History(sessionID int64) ([]*ChatMessage, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, role, content, images, steps, agent, parent_id, turn_index, created_at
		FROM chat_messages WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %d: %w", sessionID, err)
	}
	defer rows.Close()
	var messages []*ChatMessage
	for rows.Next() {
		var m ChatMessage
		var images, steps, agent sql.NullString
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content,
			&images, &steps, &agent, &m.ParentID, &m.TurnIndex, &m.CreatedAt); err != nil {
			return nil, err
		}
		if images.Valid && images.String != "" {
			if err := json.Unmarshal([]byte(images.String), &m.Images); err != nil {
				return nil, fmt.Errorf("malformed images on message %d: %w", m.ID, err)
			}
		}
		if steps.Valid {
			m.Steps = json.RawMessage(steps.String)
		}
		if agent.Valid {
			m.Agent = agent.String
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// DeleteSession removes the session and all of its messages in one
// transaction; messages go first since the store has no cascade.
func (s *ChatStore) DeleteSession(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM chat_messages WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete messages of %d: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM chat_sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session %d: %w", id, err)
	}
	return tx.Commit()
}
