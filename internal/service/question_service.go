package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MullerEsposito/starkoverflow-engine/internal/models"
	"github.com/MullerEsposito/starkoverflow-engine/internal/repository"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/logger"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/pagination"
)

// QuestionService owns question records and their relationship to forums
// and escrow.
type QuestionService struct {
	questionRepo  *repository.QuestionRepository
	forumRepo     *repository.ForumRepository
	stakeRepo     *repository.StakeRepository
	ledger        ValueLedger
	escrowAccount string
	gate          *CommandGate
	log           *logger.Logger
}

func NewQuestionService(
	questionRepo *repository.QuestionRepository,
	forumRepo *repository.ForumRepository,
	stakeRepo *repository.StakeRepository,
	ledger ValueLedger,
	escrowAccount string,
	gate *CommandGate,
	log *logger.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo:  questionRepo,
		forumRepo:     forumRepo,
		stakeRepo:     stakeRepo,
		ledger:        ledger,
		escrowAccount: escrowAccount,
		gate:          gate,
		log:           log,
	}
}

// AskInput carries the askQuestion command parameters.
type AskInput struct {
	ForumID        uint64
	Author         string
	Title          string
	DescriptionCID string
	RepositoryURL  string
	Tags           []string
	Amount         decimal.Decimal
}

// Ask creates a question backed by an initial stake. The token transfer
// into escrow is attempted first; if the local write then fails, the stake
// is refunded so no value is stranded.
func (s *QuestionService) Ask(ctx context.Context, in AskInput) (*models.Question, error) {
	s.gate.Lock()
	defer s.gate.Unlock()

	forum, err := s.forumRepo.FindByID(ctx, in.ForumID)
	if err != nil {
		return nil, err
	}
	if forum == nil {
		return nil, fmt.Errorf("%w: forum %d", ErrNotFound, in.ForumID)
	}
	if forum.Deleted {
		return nil, fmt.Errorf("%w: forum %d", ErrForumDeleted, in.ForumID)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: question title is required", ErrInvalidArgument)
	}
	if in.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: stake amount must be positive", ErrInvalidArgument)
	}

	if err := s.ledger.Transfer(ctx, in.Author, s.escrowAccount, in.Amount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	question, err := s.questionRepo.Create(ctx, &models.Question{
		ForumID:        in.ForumID,
		Author:         in.Author,
		Title:          in.Title,
		DescriptionCID: in.DescriptionCID,
		RepositoryURL:  in.RepositoryURL,
		Tags:           in.Tags,
	}, in.Amount)
	if err != nil {
		// Refund the escrowed stake so no question exists without its
		// stake and no stake exists without its question.
		if refundErr := s.ledger.Transfer(ctx, s.escrowAccount, in.Author, in.Amount); refundErr != nil {
			s.log.WithAddress(in.Author).WithField("amount", in.Amount.String()).
				Errorf("Failed to refund stake after question creation failure: %v", refundErr)
		}
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.log.WithAddress(in.Author).WithField("question_id", question.ID).
		WithField("amount", in.Amount.String()).Info("Question asked")
	return question, nil
}

// Get returns a question with its current escrow total inlined.
func (s *QuestionService) Get(ctx context.Context, questionID uint64) (*models.Question, error) {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, fmt.Errorf("%w: question %d", ErrNotFound, questionID)
	}

	total, err := s.stakeRepo.TotalFor(ctx, questionID)
	if err != nil {
		return nil, err
	}
	question.Amount = total
	return question, nil
}

// List returns a forum's questions in insertion order. The forum may be
// soft-deleted: its historical questions remain queryable.
func (s *QuestionService) List(ctx context.Context, forumID uint64, pageSize, page int) ([]*models.Question, int, bool, error) {
	forum, err := s.forumRepo.FindByID(ctx, forumID)
	if err != nil {
		return nil, 0, false, err
	}
	if forum == nil {
		return nil, 0, false, fmt.Errorf("%w: forum %d", ErrNotFound, forumID)
	}

	total, err := s.questionRepo.CountByForum(ctx, forumID)
	if err != nil {
		return nil, 0, false, err
	}

	slice, err := pagination.Slice(total, pageSize, page)
	if err != nil {
		return nil, 0, false, err
	}
	if slice.Limit() == 0 {
		return []*models.Question{}, total, false, nil
	}

	questions, err := s.questionRepo.ListByForum(ctx, forumID, slice.Limit(), slice.Offset())
	if err != nil {
		return nil, 0, false, err
	}

	for _, question := range questions {
		amount, err := s.stakeRepo.TotalFor(ctx, question.ID)
		if err != nil {
			return nil, 0, false, err
		}
		question.Amount = amount
	}

	return questions, total, slice.HasNext, nil
}
