package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/GriffinCanCode/StudyPartner/client/internal/shared/types"
	"github.com/GriffinCanCode/StudyPartner/client/internal/storage"
)

const (
	indexKey = "chat_sessions"

	// DefaultTitle labels a session with no user content yet
	DefaultTitle = "New Chat"

	titleMaxRunes   = 30
	titleEllipsis   = "..."
	titleFilePrefix = "File: "
)

// Index maintains the ordered list of session summaries as a single
// stored record, most-recently-touched first.
type Index struct {
	store storage.Store
}

// NewIndex creates an index over the given store
func NewIndex(store storage.Store) *Index {
	return &Index{store: store}
}

// List returns the current summaries, most recent first.
// An absent index record reads as an empty list.
func (ix *Index) List() ([]types.Summary, error) {
	raw, err := ix.store.Get(indexKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session index: %w", err)
	}

	var summaries []types.Summary
	if err := json.Unmarshal([]byte(raw), &summaries); err != nil {
		return nil, fmt.Errorf("session index corrupt: %w", err)
	}
	return summaries, nil
}

// Upsert records a touch of sid with the given title and persists the
// updated list. A new id is inserted at the head. An id already at the
// head is updated in place: the session being actively edited must not
// thrash its position. An id further down is promoted to the head with
// the relative order of all other entries preserved.
func (ix *Index) Upsert(sid, title string) ([]types.Summary, error) {
	summaries, err := ix.List()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	pos := -1
	for i := range summaries {
		if summaries[i].ID == sid {
			pos = i
			break
		}
	}

	switch {
	case pos < 0:
		summaries = append([]types.Summary{{ID: sid, Title: title, LastUpdated: now}}, summaries...)
	case pos == 0:
		summaries[0].Title = title
		summaries[0].LastUpdated = now
	default:
		entry := summaries[pos]
		entry.Title = title
		entry.LastUpdated = now
		summaries = append(summaries[:pos], summaries[pos+1:]...)
		summaries = append([]types.Summary{entry}, summaries...)
	}

	if err := ix.write(summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Remove filters sid out and persists the result; idempotent
func (ix *Index) Remove(sid string) ([]types.Summary, error) {
	summaries, err := ix.List()
	if err != nil {
		return nil, err
	}

	filtered := make([]types.Summary, 0, len(summaries))
	for _, s := range summaries {
		if s.ID != sid {
			filtered = append(filtered, s)
		}
	}

	if err := ix.write(filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

func (ix *Index) write(summaries []types.Summary) error {
	if summaries == nil {
		summaries = []types.Summary{}
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to encode session index: %w", err)
	}
	if err := ix.store.Set(indexKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist session index: %w", err)
	}
	return nil
}

// DeriveTitle computes a session's display title: the first user
// message truncated to 30 runes (with an ellipsis when cut), else
// "File: <name>" when a context file is attached, else DefaultTitle.
func DeriveTitle(messages []types.Message, fileName string) string {
	for _, msg := range messages {
		if msg.Role != types.RoleUser {
			continue
		}
		runes := []rune(msg.Content)
		if len(runes) > titleMaxRunes {
			return string(runes[:titleMaxRunes]) + titleEllipsis
		}
		return msg.Content
	}
	if fileName != "" {
		return titleFilePrefix + fileName
	}
	return DefaultTitle
}
