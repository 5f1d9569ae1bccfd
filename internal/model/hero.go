package model

import "time"

type Hero struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateHero struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// HeroPatch is a partial update. Nil fields leave the stored value untouched.
type HeroPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}
