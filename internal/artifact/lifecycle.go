package artifact

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/StudyPartner/client/internal/infrastructure/logging"
)

// Status is the artifact lifecycle state
type Status string

const (
	StatusNone      Status = "none"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// FailedName replaces the display name when an upload fails
const FailedName = "Upload Failed"

const clearTimeout = 10 * time.Second

// Uploader is the backend surface the lifecycle depends on
type Uploader interface {
	UploadDocument(ctx context.Context, name string, data []byte) (string, error)
	ClearContext(ctx context.Context) error
}

// Manager tracks the attached file's status, name and parsed content
type Manager struct {
	mu       sync.Mutex
	uploader Uploader
	log      *logging.Logger
	status   Status
	name     string
	content  string
	uploadID string
	notify   func()
}

// NewManager creates an artifact manager in the none state
func NewManager(uploader Uploader, log *logging.Logger) *Manager {
	return &Manager{
		uploader: uploader,
		log:      log.WithComponent("artifact"),
		status:   StatusNone,
	}
}

// SetNotify registers a hook invoked after an upload settles.
// Invoked without the manager's lock held.
func (m *Manager) SetNotify(fn func()) {
	m.mu.Lock()
	m.notify = fn
	m.mu.Unlock()
}

// Status returns the current lifecycle state
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Name returns the display name recorded at upload start, or the fixed
// failure label after a failed upload
func (m *Manager) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// Attached reports whether parsed content is ready to ride on chat requests
func (m *Manager) Attached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status == StatusSuccess
}

// Content returns the parsed content when the upload has succeeded
func (m *Manager) Content() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status != StatusSuccess {
		return "", false
	}
	return m.content, true
}

// Start begins uploading a file. The display name is recorded before
// the network result is known. The upload runs detached and resolves by
// updating state: success stores the parsed content, failure moves to
// the error state with the fixed failure label. Callers disable the
// upload control while status is uploading.
func (m *Manager) Start(ctx context.Context, name string, data []byte) {
	m.mu.Lock()
	uploadID := uuid.NewString()
	m.status = StatusUploading
	m.name = name
	m.content = ""
	m.uploadID = uploadID
	m.mu.Unlock()

	m.log.Info("Upload started", zap.String("filename", name), zap.Int("bytes", len(data)))
	go m.run(ctx, uploadID, name, data)
}

func (m *Manager) run(ctx context.Context, uploadID, name string, data []byte) {
	content, err := m.uploader.UploadDocument(ctx, name, data)

	m.mu.Lock()
	if m.uploadID != uploadID {
		// A reset or newer upload superseded this one
		m.mu.Unlock()
		m.log.Debug("Ignoring stale upload result", zap.String("filename", name))
		return
	}
	if err != nil {
		m.status = StatusError
		m.name = FailedName
		m.content = ""
		m.log.Warn("Upload failed", zap.String("filename", name), zap.Error(err))
	} else {
		m.status = StatusSuccess
		m.content = content
		m.log.Info("Upload succeeded", zap.String("filename", name))
	}
	fn := m.notify
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Reset returns to the none state and fires a detached best-effort
// signal clearing the backend's attached-file slot. Failures of the
// signal are logged only: they have no correctness impact on local data
// and are never retried or surfaced.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.status = StatusNone
	m.name = ""
	m.content = ""
	m.uploadID = "" // Invalidates any in-flight upload
	m.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), clearTimeout)
		defer cancel()
		if err := m.uploader.ClearContext(ctx); err != nil {
			m.log.Debug("Backend context clear failed", zap.Error(err))
		}
	}()
}
