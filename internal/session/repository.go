package session

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/StudyPartner/client/internal/shared/types"
	"github.com/GriffinCanCode/StudyPartner/client/internal/storage"
)

const recordKeyPrefix = "chat_session_"

// Repository persists one transcript per session id.
// It owns the stored shape of a session's content; titles and timestamps
// live in the index only.
type Repository struct {
	store storage.Store
}

// NewRepository creates a repository over the given store
func NewRepository(store storage.Store) *Repository {
	return &Repository{store: store}
}

// Save serializes the transcript under the session's key, replacing any
// prior content. Store failures (e.g. over quota) propagate.
func (r *Repository) Save(sid string, messages []types.Message) error {
	if messages == nil {
		messages = []types.Message{}
	}
	data, err := sonic.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sid, err)
	}
	if err := r.store.Set(recordKey(sid), string(data)); err != nil {
		return fmt.Errorf("failed to persist session %s: %w", sid, err)
	}
	return nil
}

// Load returns the stored transcript, or an empty one if absent.
// Absence is not an error: a freshly created session has not persisted yet.
func (r *Repository) Load(sid string) ([]types.Message, error) {
	raw, err := r.store.Get(recordKey(sid))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", sid, err)
	}

	var messages []types.Message
	if err := sonic.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, fmt.Errorf("session %s record corrupt: %w", sid, err)
	}
	return messages, nil
}

// Delete removes the transcript; deleting an absent id is a no-op
func (r *Repository) Delete(sid string) error {
	if err := r.store.Delete(recordKey(sid)); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sid, err)
	}
	return nil
}

func recordKey(sid string) string {
	return recordKeyPrefix + sid
}
