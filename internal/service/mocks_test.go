package service

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error {
	args := m.Called(ctx, from, to, amount)
	return args.Error(0)
}

func (m *mockLedger) BalanceOf(ctx context.Context, address string) (decimal.Decimal, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockTally struct {
	mock.Mock
}

func (m *mockTally) Upvote(ctx context.Context, answerID uint64) error {
	args := m.Called(ctx, answerID)
	return args.Error(0)
}

func (m *mockTally) Downvote(ctx context.Context, answerID uint64) error {
	args := m.Called(ctx, answerID)
	return args.Error(0)
}

func (m *mockTally) Get(ctx context.Context, answerID uint64) (uint64, uint64, error) {
	args := m.Called(ctx, answerID)
	return args.Get(0).(uint64), args.Get(1).(uint64), args.Error(2)
}
