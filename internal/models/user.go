package models

import "time"

// User is created implicitly on first reference. Reputation only ever
// increases.
type User struct {
	Address    string    `db:"address" json:"address"`
	Reputation uint64    `db:"reputation" json:"reputation"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
