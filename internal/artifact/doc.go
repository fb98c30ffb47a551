// Package artifact tracks the single attached context file.
//
// The artifact is transient working state: it lives in process memory
// only and is intentionally never persisted, so a reloaded session never
// silently re-attaches a stale document.
//
// State machine:
//
//	none → uploading → {success, error}
//	success | error → none (explicit reset)
//
// Starting an upload while one is already in flight is prevented by the
// caller (the control is disabled while uploading), not handled here.
//
// Reset clears local state and fires a detached best-effort signal
// telling the backend to drop its attached-file slot. The backend holds
// exactly one such slot scoped to the current working context — not per
// session — so every session transition must clear it or a later message
// in a different session could inherit a stale document.
package artifact
