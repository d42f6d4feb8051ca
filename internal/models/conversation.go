// internal/models/conversation.go
package models

import "time"

// Turn is one question/answer exchange of a user's conversation.
type Turn struct {
	ID        string      `json:"id"`
	Question  string      `json:"question"`
	Answer    string      `json:"answer"`
	Intent    QueryIntent `json:"intent"`
	CreatedAt time.Time   `json:"createdAt"`
}
