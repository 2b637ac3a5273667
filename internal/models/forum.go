package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Forum struct {
	ID             uint64          `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	IconCID        string          `db:"icon_cid" json:"iconCid"`
	Deleted        bool            `db:"deleted" json:"deleted"`
	TotalQuestions uint64          `db:"total_questions" json:"totalQuestions"`
	TotalStaked    decimal.Decimal `db:"total_staked" json:"amount"` // cumulative, never decreases
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}
