// Package models defines the server-side data model for chat delivery.
package models

import "time"

// Message is a single chat message in flight. SenderID is always the
// identity bound to the sending connection, never taken from client input.
// Immutable once created.
type Message struct {
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	SentAt      time.Time `json:"sentAt"`
	Text        string    `json:"text"`
}

// QueuedMessage is a Message persisted for an offline recipient. ID is
// assigned by the store on append; replay uses it to purge exactly the
// rows it has drained.
type QueuedMessage struct {
	ID string
	Message
}
