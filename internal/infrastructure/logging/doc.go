// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Every subsystem of the client core logs through a component-scoped
// child logger so persistence, chat and upload activity can be filtered
// independently.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Session persisted", zap.String("session_id", sid))
//	logger.Error("Chat request failed", zap.Error(err))
package logging
