package entities

import "time"

// Subscriber receives availability notifications.
type Subscriber struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
