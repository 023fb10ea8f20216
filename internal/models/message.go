// ABOUTME: Message is one turn in a chat session, append-only and timestamp-ordered
// ABOUTME: Only ASSISTANT messages carry context, sources, and confidence
package models

import "time"

// MessageRole identifies who produced a message
type MessageRole string

const (
	RoleUser      MessageRole = "USER"
	RoleAssistant MessageRole = "ASSISTANT"
)

// Message represents one message within a chat session
type Message struct {
	ID        string      `json:"id"`
	SessionID string      `json:"session_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`

	// Assistant-only provenance fields
	Context         string   `json:"context,omitempty"`
	SourceDocuments []string `json:"source_documents,omitempty"`
	Confidence      float64  `json:"confidence"`
}
