package models

import "time"

type Answer struct {
	ID             uint64    `db:"id" json:"id"`
	QuestionID     uint64    `db:"question_id" json:"questionId"`
	Author         string    `db:"author" json:"author"`
	DescriptionCID string    `db:"description_cid" json:"descriptionCid"`
	Correct        bool      `db:"correct" json:"correct"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`

	// Vote tallies live outside the authoritative store and are merged in
	// on reads.
	Upvotes   uint64 `json:"upvotes"`
	Downvotes uint64 `json:"downvotes"`
}
