package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MullerEsposito/starkoverflow-engine/internal/models"
	"github.com/MullerEsposito/starkoverflow-engine/internal/repository"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/logger"
)

// ResolutionService performs the one irreversible transition in the
// system: marking an answer correct, which closes the question, pays the
// full escrow to the answer's author and bumps their reputation.
type ResolutionService struct {
	questionRepo   *repository.QuestionRepository
	answerRepo     *repository.AnswerRepository
	stakeRepo      *repository.StakeRepository
	resolutionRepo *repository.ResolutionRepository
	ledger         ValueLedger
	escrowAccount  string
	gate           *CommandGate
	log            *logger.Logger
}

func NewResolutionService(
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRepository,
	stakeRepo *repository.StakeRepository,
	resolutionRepo *repository.ResolutionRepository,
	ledger ValueLedger,
	escrowAccount string,
	gate *CommandGate,
	log *logger.Logger,
) *ResolutionService {
	return &ResolutionService{
		questionRepo:   questionRepo,
		answerRepo:     answerRepo,
		stakeRepo:      stakeRepo,
		resolutionRepo: resolutionRepo,
		ledger:         ledger,
		escrowAccount:  escrowAccount,
		gate:           gate,
		log:            log,
	}
}

// MarkCorrect validates and applies the resolution transition. The payout
// transfer is the first side effect attempted, since it is the only one
// with an external failure mode; the four local mutations then commit as a
// single transaction.
func (s *ResolutionService) MarkCorrect(ctx context.Context, caller string, questionID, answerID uint64) error {
	// Holding the gate from the status check through the commit means two
	// concurrent resolutions cannot both see the question open and both
	// issue the payout.
	s.gate.Lock()
	defer s.gate.Unlock()

	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return err
	}
	if question == nil {
		return fmt.Errorf("%w: question %d", ErrNotFound, questionID)
	}
	if !strings.EqualFold(question.Author, caller) {
		return fmt.Errorf("%w: only the question author may mark an answer correct", ErrUnauthorized)
	}
	if question.Status != models.QuestionOpen {
		return fmt.Errorf("%w: question %d", ErrAlreadyResolved, questionID)
	}

	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		return err
	}
	if answer == nil || answer.QuestionID != questionID {
		return fmt.Errorf("%w: answer %d does not belong to question %d", ErrAnswerMismatch, answerID, questionID)
	}

	// Unreachable while the status check above holds, since flagging and
	// closing commit together.
	correct, err := s.answerRepo.FindCorrect(ctx, questionID)
	if err != nil {
		return err
	}
	if correct != nil {
		return fmt.Errorf("%w: answer %d", ErrDuplicateResolution, correct.ID)
	}

	total, err := s.stakeRepo.TotalFor(ctx, questionID)
	if err != nil {
		return err
	}

	if total.Sign() > 0 {
		if err := s.ledger.Transfer(ctx, s.escrowAccount, answer.Author, total); err != nil {
			// Escrow is untouched, so the caller may retry.
			return fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
	}

	if err := s.resolutionRepo.Resolve(ctx, questionID, answerID, answer.Author); err != nil {
		// Claw the payout back so state and token balances cannot diverge.
		if total.Sign() > 0 {
			if refundErr := s.ledger.Transfer(ctx, answer.Author, s.escrowAccount, total); refundErr != nil {
				s.log.WithField("question_id", questionID).
					Errorf("Failed to recover payout after resolution failure: %v", refundErr)
			}
		}
		if errors.Is(err, repository.ErrQuestionAlreadyResolved) {
			return fmt.Errorf("%w: question %d", ErrAlreadyResolved, questionID)
		}
		return fmt.Errorf("failed to resolve question: %w", err)
	}

	s.log.WithAddress(caller).WithField("question_id", questionID).
		WithField("answer_id", answerID).WithField("payout", total.String()).
		Info("Question resolved")
	return nil
}

// CorrectAnswer returns the answer flagged correct for a question, or nil
// while the question is still open.
func (s *ResolutionService) CorrectAnswer(ctx context.Context, questionID uint64) (*models.Answer, error) {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, fmt.Errorf("%w: question %d", ErrNotFound, questionID)
	}

	return s.answerRepo.FindCorrect(ctx, questionID)
}
