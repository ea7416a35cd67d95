package domain

import "time"

type Building struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required"`
	Address     string    `json:"address"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
