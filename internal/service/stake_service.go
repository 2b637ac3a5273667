package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MullerEsposito/starkoverflow-engine/internal/models"
	"github.com/MullerEsposito/starkoverflow-engine/internal/repository"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/logger"
)

// StakeService brokers escrow deposits for open questions. Release of the
// escrow happens inside the resolution transaction, not here.
type StakeService struct {
	stakeRepo     *repository.StakeRepository
	questionRepo  *repository.QuestionRepository
	ledger        ValueLedger
	escrowAccount string
	gate          *CommandGate
	log           *logger.Logger
}

func NewStakeService(
	stakeRepo *repository.StakeRepository,
	questionRepo *repository.QuestionRepository,
	ledger ValueLedger,
	escrowAccount string,
	gate *CommandGate,
	log *logger.Logger,
) *StakeService {
	return &StakeService{
		stakeRepo:     stakeRepo,
		questionRepo:  questionRepo,
		ledger:        ledger,
		escrowAccount: escrowAccount,
		gate:          gate,
		log:           log,
	}
}

// Deposit escrows additional stake on an open question. The token transfer
// is attempted first; on failure no local state changes, so the caller can
// safely retry.
func (s *StakeService) Deposit(ctx context.Context, staker string, questionID uint64, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: stake amount must be positive", ErrInvalidArgument)
	}

	// Holding the gate across the status check, the transfer and the local
	// write keeps a concurrent resolution from releasing the escrow between
	// them, which would strand this deposit.
	s.gate.Lock()
	defer s.gate.Unlock()

	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return err
	}
	if question == nil {
		return fmt.Errorf("%w: question %d", ErrNotFound, questionID)
	}
	if question.Status != models.QuestionOpen {
		return fmt.Errorf("%w: question %d", ErrQuestionClosed, questionID)
	}

	if err := s.ledger.Transfer(ctx, staker, s.escrowAccount, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	if err := s.stakeRepo.Deposit(ctx, questionID, question.ForumID, staker, amount); err != nil {
		// Refund so the escrow account never holds value the stake
		// ledger does not account for.
		if refundErr := s.ledger.Transfer(ctx, s.escrowAccount, staker, amount); refundErr != nil {
			s.log.WithAddress(staker).WithField("amount", amount.String()).
				Errorf("Failed to refund stake after deposit failure: %v", refundErr)
		}
		return fmt.Errorf("failed to record stake: %w", err)
	}

	s.log.WithAddress(staker).WithField("question_id", questionID).
		WithField("amount", amount.String()).Info("Stake deposited")
	return nil
}

// TotalFor returns the escrow currently held for a question.
func (s *StakeService) TotalFor(ctx context.Context, questionID uint64) (decimal.Decimal, error) {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return decimal.Zero, err
	}
	if question == nil {
		return decimal.Zero, fmt.Errorf("%w: question %d", ErrNotFound, questionID)
	}

	return s.stakeRepo.TotalFor(ctx, questionID)
}

// ListFor returns the individual stake records for a question, released
// ones included, in deposit order.
func (s *StakeService) ListFor(ctx context.Context, questionID uint64) ([]*models.Stake, error) {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, fmt.Errorf("%w: question %d", ErrNotFound, questionID)
	}

	return s.stakeRepo.ListByQuestion(ctx, questionID)
}
