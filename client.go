// Package client wires the Study Partner client core: configuration,
// logging, local persistence, the backend HTTP client, and the session
// and context-file managers. A UI shell embeds one Client and drives it
// from its event loop.
package client

import (
	"github.com/GriffinCanCode/StudyPartner/client/internal/artifact"
	"github.com/GriffinCanCode/StudyPartner/client/internal/backend"
	"github.com/GriffinCanCode/StudyPartner/client/internal/infrastructure/config"
	"github.com/GriffinCanCode/StudyPartner/client/internal/infrastructure/logging"
	"github.com/GriffinCanCode/StudyPartner/client/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/StudyPartner/client/internal/session"
	"github.com/GriffinCanCode/StudyPartner/client/internal/storage"
)

// Client is the assembled client core
type Client struct {
	Sessions *session.Manager
	Files    *artifact.Manager
	Backend  *backend.Client
	Log      *logging.Logger
}

// New assembles a client from configuration. Pass nil to resolve
// configuration from the environment with hardcoded fallbacks.
func New(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		cfg = config.LoadOrDefault()
	}

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stdout"},
	})
	if err != nil {
		return nil, err
	}

	store, err := storage.NewDisk(cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}

	api := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)
	files := artifact.NewManager(api, log)
	sessions := session.NewManager(
		session.NewRepository(store),
		session.NewIndex(store),
		files,
		api,
		log,
	)
	// Upload completion re-runs the persistence step so the session
	// title and suppression state follow the attached file.
	files.SetNotify(sessions.SyncContext)

	return &Client{
		Sessions: sessions,
		Files:    files,
		Backend:  api,
		Log:      log,
	}, nil
}

// EnableMetrics registers Prometheus metrics on the default registry
// and threads them through the core.
func (c *Client) EnableMetrics() *Client {
	metrics := monitoring.NewMetrics()
	c.Backend.WithMetrics(metrics)
	c.Sessions.WithMetrics(metrics)
	return c
}
