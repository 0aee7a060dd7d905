package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Session is a named, self-contained capture of one conversation
// buffer. It is independent of the vector store: saving after a
// compaction captures only the surviving turns.
type Session struct {
	SessionName  string    `json:"session_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Messages     []Turn    `json:"messages"`
	MessageCount int       `json:"message_count"`
}

// SaveSession serializes the current buffer to
// <ConversationsDir>/<name>.json and returns the file path. An empty
// name selects a timestamped default. Unlike the store paths, write
// failures here are returned to the caller: a requested save that
// silently fails would be a correctness violation, not a degraded
// service.
func (m *Manager) SaveSession(name string) (string, error) {
	now := time.Now()
	if name == "" {
		name = "session_" + now.Format("20060102_150405")
	}

	start := now
	if len(m.buffer) > 0 {
		start = m.buffer[0].Timestamp
	}

	session := Session{
		SessionName:  name,
		StartTime:    start,
		EndTime:      now,
		Messages:     m.Turns(),
		MessageCount: len(m.buffer),
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := os.MkdirAll(m.config.ConversationsDir, 0o755); err != nil {
		return "", fmt.Errorf("create conversations dir: %w", err)
	}

	path := filepath.Join(m.config.ConversationsDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write session file: %w", err)
	}
	return path, nil
}

// LoadSession reads a session file written by SaveSession.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	return &session, nil
}
