package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stake is the accumulated escrow contribution of one staker to one
// question. ReleasedAt is set when the escrow is paid out on resolution.
type Stake struct {
	QuestionID uint64          `db:"question_id" json:"questionId"`
	Staker     string          `db:"staker" json:"staker"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	ReleasedAt *time.Time      `db:"released_at" json:"releasedAt,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
}
