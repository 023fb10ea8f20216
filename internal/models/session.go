// ABOUTME: ChatSession groups the messages of one conversation for one user
// ABOUTME: Deletion is a soft delete; history stays retrievable by the owner
package models

import "time"

// ChatSession represents one conversation owned by a single user
type ChatSession struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	LastMessageAt time.Time `json:"last_message_at"`
	Active        bool      `json:"active"`
}

// SessionInfo summarizes a session for listings
type SessionInfo struct {
	ID            string
	Title         string
	MessageCount  int
	CreatedAt     time.Time
	LastMessageAt time.Time
}
