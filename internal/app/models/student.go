package models

import "time"

// Student defines the student model based on the 'sweek_students' table.
// Students are created and activated by the sync job and only ever read by
// the web application; identity is established by the SHA-256 hash of the
// bearer token carried in the magic link.
type Student struct {
	ID        string    `json:"id" db:"id" example:"7a9f1c52-3e86-4a46-9d50-5f8b6a3c2e11"` // UUID
	Email     string    `json:"email" db:"email" example:"student@umich.edu"`
	Name      string    `json:"name" db:"name" example:"Alex Rivera"`
	Token     string    `json:"-" db:"token"`      // plaintext bearer, read only by the mailer
	TokenHash string    `json:"-" db:"token_hash"` // hex SHA-256, unique, immutable
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
