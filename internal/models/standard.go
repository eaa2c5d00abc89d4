package models

import "time"

// Standard is a curriculum standard content is generated against.
type Standard struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// PromptLabel renders the standard the way prompts reference it.
func (s Standard) PromptLabel() string {
	switch {
	case s.Code == "":
		return s.Description
	case s.Description == "":
		return s.Code
	default:
		return s.Code + ": " + s.Description
	}
}
