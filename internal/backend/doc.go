// Package backend is the HTTP client for the Study Partner agent backend.
//
// The backend is an external collaborator; only three operations are
// consumed:
//   - POST /chat: agentic response for a message plus transcript
//   - POST /upload: parse a document into the backend's context slot
//   - DELETE /delete-file: best-effort clear of that slot
//
// The backend holds exactly one attached-file slot scoped to the current
// working context, not per session, so callers clear it on every session
// transition.
//
// Chat is never retried (it is not idempotent); uploads are retried
// because a repeat upload simply replaces the slot; the clear signal is
// fire-and-forget and never retried.
package backend
