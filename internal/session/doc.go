// Package session provides conversation session management for the
// Study Partner client.
//
// A session is one independent conversation thread. Its transcript is
// stored under its own key; an ordered index of summaries (id, title,
// last-updated) is stored under a single key and drives the history list.
//
// Components:
//   - Repository: transcript persistence per session id
//   - Index: ordered summary list with MRU promotion and title derivation
//   - Manager: the active-session orchestrator and sole mutator of both
//
// Ordering rules:
//   - Index order is most-recently-touched first.
//   - Updating the entry already at the head updates it in place without
//     reordering, so the session being actively edited never thrashes
//     its position. Only reentry from a lower position promotes.
//
// Persistence rules:
//   - A session holding nothing but the fixed greeting and no attached
//     context file is never written, keeping the history list free of
//     empty threads.
//   - The in-memory transcript is mutated first, then the transcript
//     record, then the index, in that order.
//
// Example Usage:
//
//	sessions := session.NewManager(repo, index, files, api, logger)
//	sessions.NewSession()
//	err := sessions.Send(ctx, "Explain chapter 2")
package session
