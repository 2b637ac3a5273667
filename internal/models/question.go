package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuestionStatus matches the on-chain representation: 0 open, 1 resolved.
type QuestionStatus int32

const (
	QuestionOpen     QuestionStatus = 0
	QuestionResolved QuestionStatus = 1
)

type Question struct {
	ID             uint64         `db:"id" json:"id"`
	ForumID        uint64         `db:"forum_id" json:"forumId"`
	Author         string         `db:"author" json:"author"`
	Title          string         `db:"title" json:"title"`
	DescriptionCID string         `db:"description_cid" json:"descriptionCid"`
	RepositoryURL  string         `db:"repository_url" json:"repositoryUrl"`
	Tags           []string       `db:"tags" json:"tags"` // insertion order preserved
	Status         QuestionStatus `db:"status" json:"status"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`

	// Amount is the currently escrowed stake, aggregated from the stakes
	// table on reads. Zero once the question has been resolved.
	Amount decimal.Decimal `json:"amount"`
}
