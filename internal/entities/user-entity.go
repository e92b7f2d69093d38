package entities

import "time"

type User struct {
	ID           uint64    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	Department   *string   `json:"department" db:"department"`
	CompanyName  *string   `json:"company_name" db:"company_name"`
	TeamID       *uint64   `json:"team_id" db:"team_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
