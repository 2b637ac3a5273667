package service

import (
	"context"

	"github.com/shopspring/decimal"
)

// ValueLedger is the external fungible-token account system the engine
// debits and credits for stakes and payouts. The engine never implements
// token accounting itself; it only issues transfer instructions and trusts
// the ledger's success or failure signal.
type ValueLedger interface {
	Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error
	BalanceOf(ctx context.Context, address string) (decimal.Decimal, error)
}

// VoteTally stores ephemeral up/down vote counters for answers outside the
// authoritative store.
type VoteTally interface {
	Upvote(ctx context.Context, answerID uint64) error
	Downvote(ctx context.Context, answerID uint64) error
	Get(ctx context.Context, answerID uint64) (up, down uint64, err error)
}
