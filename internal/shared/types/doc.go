// Package types provides shared data structures for the Study Partner client core.
//
// This package defines the conversation data model used across all client
// components, ensuring type safety and consistent serialization.
//
// Core Types:
//   - Message: One transcript entry (user or assistant)
//   - Summary: Session index entry (id, title, last-updated)
//   - Role: Message author enum
//
// Example Usage:
//
//	msg := types.Message{
//	    Role:    types.RoleUser,
//	    Content: "Summarize chapter 3 for me",
//	}
package types
