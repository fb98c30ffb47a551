package session

import (
	"strings"
	"testing"
	"time"

	"github.com/GriffinCanCode/StudyPartner/client/internal/shared/types"
	"github.com/GriffinCanCode/StudyPartner/client/internal/storage"
)

func ids(summaries []types.Summary) []string {
	out := make([]string, len(summaries))
	for i, s := range summaries {
		out[i] = s.ID
	}
	return out
}

func TestIndexListEmpty(t *testing.T) {
	index := NewIndex(storage.NewMemory())

	summaries, err := index.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("Expected empty index, got %v", summaries)
	}
}

func TestIndexUpsertInsertsAtHead(t *testing.T) {
	index := NewIndex(storage.NewMemory())

	index.Upsert("sess_a", "first")
	summaries, err := index.Upsert("sess_b", "second")
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got := ids(summaries)
	if got[0] != "sess_b" || got[1] != "sess_a" {
		t.Errorf("Expected new entry at head, got %v", got)
	}
}

func TestIndexUpsertAtHeadDoesNotReorder(t *testing.T) {
	index := NewIndex(storage.NewMemory())

	index.Upsert("sess_a", "a")
	index.Upsert("sess_b", "b")
	index.Upsert("sess_c", "c")
	// sess_c is at the head; hammering it must only touch title/timestamp
	var summaries []types.Summary
	var err error
	for i := 0; i < 5; i++ {
		summaries, err = index.Upsert("sess_c", "c updated")
		if err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	got := ids(summaries)
	want := []string{"sess_c", "sess_b", "sess_a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Order changed on head upsert: got %v, want %v", got, want)
		}
	}
	if summaries[0].Title != "c updated" {
		t.Errorf("Expected title updated in place, got %q", summaries[0].Title)
	}
}

func TestIndexUpsertPromotesFromLowerPosition(t *testing.T) {
	index := NewIndex(storage.NewMemory())

	index.Upsert("sess_a", "a")
	index.Upsert("sess_b", "b")
	index.Upsert("sess_c", "c")
	index.Upsert("sess_d", "d")
	// [d c b a] — touching b must promote it with c/a order preserved
	summaries, err := index.Upsert("sess_b", "b again")
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got := ids(summaries)
	want := []string{"sess_b", "sess_d", "sess_c", "sess_a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}
}

func TestIndexUpsertRefreshesTimestamp(t *testing.T) {
	index := NewIndex(storage.NewMemory())

	first, _ := index.Upsert("sess_a", "a")
	time.Sleep(5 * time.Millisecond)
	second, err := index.Upsert("sess_a", "a")
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if !second[0].LastUpdated.After(first[0].LastUpdated) {
		t.Errorf("Expected LastUpdated to advance: %v then %v",
			first[0].LastUpdated, second[0].LastUpdated)
	}
}

func TestIndexRemove(t *testing.T) {
	index := NewIndex(storage.NewMemory())

	index.Upsert("sess_a", "a")
	index.Upsert("sess_b", "b")
	summaries, err := index.Remove("sess_a")
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "sess_b" {
		t.Errorf("Expected only sess_b, got %v", summaries)
	}

	// Removing again is idempotent
	summaries, err = index.Remove("sess_a")
	if err != nil {
		t.Fatalf("Second remove failed: %v", err)
	}
	if len(summaries) != 1 {
		t.Errorf("Expected list unchanged, got %v", summaries)
	}
}

func TestIndexSurvivesReconstruction(t *testing.T) {
	store := storage.NewMemory()

	NewIndex(store).Upsert("sess_a", "a")
	summaries, err := NewIndex(store).List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "sess_a" {
		t.Errorf("Expected persisted index to reload, got %v", summaries)
	}
}

func TestDeriveTitleTruncatesLongUserMessage(t *testing.T) {
	long := strings.Repeat("x", 35)
	messages := []types.Message{
		{Role: types.RoleAssistant, Content: "Hello!"},
		{Role: types.RoleUser, Content: long},
	}

	title := DeriveTitle(messages, "")
	want := strings.Repeat("x", 30) + "..."
	if title != want {
		t.Errorf("Expected %q, got %q", want, title)
	}
}

func TestDeriveTitleShortUserMessageUnmodified(t *testing.T) {
	messages := []types.Message{
		{Role: types.RoleUser, Content: "ten chars!"},
	}

	if title := DeriveTitle(messages, ""); title != "ten chars!" {
		t.Errorf("Expected message unmodified, got %q", title)
	}
}

func TestDeriveTitleExactly30NotTruncated(t *testing.T) {
	exact := strings.Repeat("y", 30)
	messages := []types.Message{{Role: types.RoleUser, Content: exact}}

	if title := DeriveTitle(messages, ""); title != exact {
		t.Errorf("Expected no ellipsis at the boundary, got %q", title)
	}
}

func TestDeriveTitleFromFileName(t *testing.T) {
	messages := []types.Message{
		{Role: types.RoleAssistant, Content: "Hello!"},
	}

	if title := DeriveTitle(messages, "notes.pdf"); title != "File: notes.pdf" {
		t.Errorf("Expected file title, got %q", title)
	}
}

func TestDeriveTitleDefault(t *testing.T) {
	messages := []types.Message{
		{Role: types.RoleAssistant, Content: "Hello!"},
	}

	if title := DeriveTitle(messages, ""); title != DefaultTitle {
		t.Errorf("Expected default title, got %q", title)
	}
}

func TestDeriveTitleUsesFirstUserMessage(t *testing.T) {
	messages := []types.Message{
		{Role: types.RoleAssistant, Content: "Hello!"},
		{Role: types.RoleUser, Content: "first question"},
		{Role: types.RoleAssistant, Content: "answer"},
		{Role: types.RoleUser, Content: "second question"},
	}

	if title := DeriveTitle(messages, ""); title != "first question" {
		t.Errorf("Expected first user message, got %q", title)
	}
}
