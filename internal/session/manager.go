package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/StudyPartner/client/internal/infrastructure/logging"
	"github.com/GriffinCanCode/StudyPartner/client/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/StudyPartner/client/internal/shared/id"
	"github.com/GriffinCanCode/StudyPartner/client/internal/shared/types"
)

// Greeting opens every fresh session
const Greeting = "Hello! I'm your **AI Study Partner**.\n\n" +
	"I can help you:\n" +
	"1. **Query** the web for real-time info.\n" +
	"2. **Summarize** complex PDFs.\n" +
	"3. **Validate** claims against academic papers.\n\n" +
	"Upload a file or ask me a question to get started!"

const (
	// Stands in for the user's text when only a file is attached
	analyzePlaceholder = "Analyze this document."

	connectionErrorReply = "⚠️ **Connection Error:** I couldn't reach the assistant backend. " +
		"Please check that it is running and try again."
)

// ErrEmptyMessage rejects a send with neither text nor an attached file
var ErrEmptyMessage = errors.New("session: no message text and no context file attached")

// ChatClient is the backend chat surface the manager depends on
type ChatClient interface {
	Chat(ctx context.Context, message string, fileContent *string, history []types.Message) (string, error)
}

// ContextFiles is the attached-file surface the manager depends on.
// Reset drops local state and signals the backend to drop its slot.
type ContextFiles interface {
	Reset()
	Name() string
	Attached() bool
	Content() (string, bool)
}

// Manager is the active-session orchestrator: it holds the current
// session id and transcript, and is the only component that mutates the
// repository or the index. All index read-modify-write sequences run
// under its lock.
type Manager struct {
	mu        sync.Mutex
	repo      *Repository
	index     *Index
	files     ContextFiles
	chat      ChatClient
	log       *logging.Logger
	metrics   *monitoring.Metrics
	current   string
	messages  []types.Message
	lastSaved *time.Time
	onChange  func()
}

// NewManager creates a session manager starting on a fresh session
func NewManager(repo *Repository, index *Index, files ContextFiles, chat ChatClient, log *logging.Logger) *Manager {
	m := &Manager{
		repo:  repo,
		index: index,
		files: files,
		chat:  chat,
		log:   log.WithComponent("session"),
	}
	m.mu.Lock()
	m.startFreshLocked()
	m.mu.Unlock()
	return m
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// OnChange registers a hook invoked after every observable state change.
// The hook runs on its own goroutine so it may call back into the manager.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// CurrentID returns the active session id
func (m *Manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Messages returns a copy of the active transcript
func (m *Manager) Messages() []types.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Message(nil), m.messages...)
}

// Sessions returns the history list, most recent first
func (m *Manager) Sessions() ([]types.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index.List()
}

// NewSession abandons the current thread for a fresh one.
// Nothing is persisted until the new session gains real content.
func (m *Manager) NewSession() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startFreshLocked()
	m.notifyLocked()
}

// Load activates the stored session sid. A stale id with no stored
// record falls back to a fresh session. Switching always drops the
// attached file, locally and on the backend: a file is scoped to one
// conversation's working context, never carried across.
func (m *Manager) Load(sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	messages, err := m.repo.Load(sid)
	if err != nil {
		m.metrics.RecordStorageError()
		return err
	}
	if len(messages) == 0 {
		m.log.Info("Session record missing, starting fresh", zap.String("session_id", sid))
		m.startFreshLocked()
		m.notifyLocked()
		return nil
	}

	m.current = sid
	m.messages = messages
	m.files.Reset()
	m.log.Debug("Session loaded",
		zap.String("session_id", sid),
		zap.Int("messages", len(messages)))
	m.notifyLocked()
	return nil
}

// Delete removes a session's record and index entry. Deleting the
// active session activates the new head of the index, or a fresh
// session when the list is empty.
func (m *Manager) Delete(sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.repo.Delete(sid); err != nil {
		m.metrics.RecordStorageError()
		return err
	}
	remaining, err := m.index.Remove(sid)
	if err != nil {
		m.metrics.RecordStorageError()
		return err
	}
	m.metrics.RecordSessionDeleted(len(remaining))
	m.log.Info("Session deleted", zap.String("session_id", sid))

	if sid != m.current {
		m.notifyLocked()
		return nil
	}

	if len(remaining) == 0 {
		m.startFreshLocked()
		m.notifyLocked()
		return nil
	}

	head := remaining[0].ID
	messages, err := m.repo.Load(head)
	if err != nil {
		m.metrics.RecordStorageError()
		return err
	}
	if len(messages) == 0 {
		m.startFreshLocked()
		m.notifyLocked()
		return nil
	}
	m.current = head
	m.messages = messages
	m.files.Reset()
	m.notifyLocked()
	return nil
}

// Append adds a message to the active transcript and runs the
// persistence-and-index step. This is the only mutation path for
// message content.
func (m *Manager) Append(role types.Role, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, types.Message{Role: role, Content: content})
	err := m.persistLocked()
	m.notifyLocked()
	return err
}

// Send submits user input to the backend and appends the reply.
//
// Rejected with ErrEmptyMessage when text is blank and no context file
// is attached. With a file attached, blank text falls back to a fixed
// placeholder. A failed chat request becomes a fixed assistant error
// message rather than an error return, since the user is waiting for a
// reply; only local persistence failures are returned.
//
// The call blocks for the round-trip; callers run it off their event
// loop and disable re-entry while it is outstanding. The request is
// tagged with the session it was issued for: if the active session
// changed by completion, the reply is discarded instead of corrupting
// an unrelated transcript.
func (m *Manager) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	m.mu.Lock()
	content, attached := m.files.Content()
	if text == "" && !attached {
		m.mu.Unlock()
		return ErrEmptyMessage
	}
	if text == "" {
		text = analyzePlaceholder
	}

	// History is the transcript before this message; the new text rides
	// in the message field.
	history := append([]types.Message(nil), m.messages...)
	m.messages = append(m.messages, types.Message{Role: types.RoleUser, Content: text})
	issuedFor := m.current
	persistErr := m.persistLocked()
	m.notifyLocked()
	m.mu.Unlock()

	var filePtr *string
	if attached {
		filePtr = &content
	}
	reply, chatErr := m.chat.Chat(ctx, text, filePtr, history)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != issuedFor {
		m.log.Warn("Discarding chat response for inactive session",
			zap.String("issued_for", issuedFor),
			zap.String("active", m.current))
		return persistErr
	}

	if chatErr != nil {
		m.log.Warn("Chat request failed, appending error reply", zap.Error(chatErr))
		m.messages = append(m.messages, types.Message{Role: types.RoleAssistant, Content: connectionErrorReply})
	} else {
		m.messages = append(m.messages, types.Message{Role: types.RoleAssistant, Content: reply})
	}

	if err := m.persistLocked(); err != nil && persistErr == nil {
		persistErr = err
	}
	m.notifyLocked()
	return persistErr
}

// RemoveContextFile drops the attached file on explicit user request
// and re-runs the persistence-and-index step so the title follows.
func (m *Manager) RemoveContextFile() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files.Reset()
	err := m.persistLocked()
	m.notifyLocked()
	return err
}

// SyncContext re-runs the persistence-and-index step after the context
// file changed out of band (upload completion).
func (m *Manager) SyncContext() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.persistLocked(); err != nil {
		m.log.Error("Failed to persist after context change", zap.Error(err))
	}
	m.notifyLocked()
}

// Stats describes the manager's current state
type Stats struct {
	CurrentID       string     `json:"current_id"`
	CurrentMessages int        `json:"current_messages"`
	IndexedSessions int        `json:"indexed_sessions"`
	LastSaved       *time.Time `json:"last_saved,omitempty"`
}

// Stats returns session manager statistics
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	indexed := 0
	if summaries, err := m.index.List(); err == nil {
		indexed = len(summaries)
	}
	return Stats{
		CurrentID:       m.current,
		CurrentMessages: len(m.messages),
		IndexedSessions: indexed,
		LastSaved:       m.lastSaved,
	}
}

// startFreshLocked resets to a brand-new session: fresh id, greeting
// transcript, no attached file here or on the backend.
func (m *Manager) startFreshLocked() {
	m.current = id.NewSessionID().String()
	m.messages = []types.Message{{Role: types.RoleAssistant, Content: Greeting}}
	m.files.Reset()
	m.log.Debug("Started fresh session", zap.String("session_id", m.current))
}

// emptyLocked is the empty-session predicate: nothing beyond the
// greeting and no attached file. Structural on purpose; comparing
// against the greeting text would break on copy edits.
func (m *Manager) emptyLocked() bool {
	return len(m.messages) <= 1 && !m.files.Attached()
}

// persistLocked is the persistence-and-index step: skip empty sessions
// entirely, otherwise write the transcript then upsert the index.
func (m *Manager) persistLocked() error {
	if m.emptyLocked() {
		return nil
	}

	if err := m.repo.Save(m.current, m.messages); err != nil {
		m.metrics.RecordStorageError()
		m.log.Error("Failed to persist transcript", zap.String("session_id", m.current), zap.Error(err))
		return err
	}

	fileName := ""
	if m.files.Attached() {
		fileName = m.files.Name()
	}
	summaries, err := m.index.Upsert(m.current, DeriveTitle(m.messages, fileName))
	if err != nil {
		m.metrics.RecordStorageError()
		m.log.Error("Failed to persist index", zap.String("session_id", m.current), zap.Error(err))
		return err
	}

	m.metrics.RecordSessionSaved(len(summaries))
	now := time.Now()
	m.lastSaved = &now
	return nil
}

func (m *Manager) notifyLocked() {
	if m.onChange != nil {
		go m.onChange()
	}
}
