package domain

import "time"

type Termbase struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Language struct {
	ID         int64  `json:"id"`
	TermbaseID int64  `json:"termbase_id"`
	Code       string `json:"code"`
}
