package models

// ChatMessage is the slice of a stored chat message the notification path
// reads: who sent it, what it said, and in which group.
type ChatMessage struct {
	GroupID  string `json:"group_id"`
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
}
