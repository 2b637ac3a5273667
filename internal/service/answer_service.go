package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MullerEsposito/starkoverflow-engine/internal/models"
	"github.com/MullerEsposito/starkoverflow-engine/internal/repository"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/logger"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/pagination"
)

// Vote directions accepted by Vote.
const (
	VoteUp   = "up"
	VoteDown = "down"
)

// AnswerService owns answer records and merges the ephemeral vote tallies
// into reads.
type AnswerService struct {
	answerRepo   *repository.AnswerRepository
	questionRepo *repository.QuestionRepository
	tally        VoteTally
	log          *logger.Logger
}

func NewAnswerService(
	answerRepo *repository.AnswerRepository,
	questionRepo *repository.QuestionRepository,
	tally VoteTally,
	log *logger.Logger,
) *AnswerService {
	return &AnswerService{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		tally:        tally,
		log:          log,
	}
}

// Submit records an answer. Resolved questions still accept answers for
// record keeping; they just can no longer win the stake.
func (s *AnswerService) Submit(ctx context.Context, author string, questionID uint64, descriptionCID string) (*models.Answer, error) {
	if strings.TrimSpace(descriptionCID) == "" {
		return nil, fmt.Errorf("%w: answer content reference is required", ErrInvalidArgument)
	}

	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, fmt.Errorf("%w: question %d", ErrNotFound, questionID)
	}

	answer, err := s.answerRepo.Create(ctx, questionID, author, descriptionCID)
	if err != nil {
		return nil, fmt.Errorf("failed to submit answer: %w", err)
	}

	s.log.WithAddress(author).WithField("question_id", questionID).
		WithField("answer_id", answer.ID).Info("Answer submitted")
	return answer, nil
}

// Get returns an answer with its vote tallies merged in.
func (s *AnswerService) Get(ctx context.Context, answerID uint64) (*models.Answer, error) {
	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return nil, fmt.Errorf("%w: answer %d", ErrNotFound, answerID)
	}

	if err := s.fillVotes(ctx, answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// ListFor returns a question's answers in insertion order.
func (s *AnswerService) ListFor(ctx context.Context, questionID uint64, pageSize, page int) ([]*models.Answer, int, bool, error) {
	question, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, 0, false, err
	}
	if question == nil {
		return nil, 0, false, fmt.Errorf("%w: question %d", ErrNotFound, questionID)
	}

	total, err := s.answerRepo.CountByQuestion(ctx, questionID)
	if err != nil {
		return nil, 0, false, err
	}

	slice, err := pagination.Slice(total, pageSize, page)
	if err != nil {
		return nil, 0, false, err
	}
	if slice.Limit() == 0 {
		return []*models.Answer{}, total, false, nil
	}

	answers, err := s.answerRepo.ListByQuestion(ctx, questionID, slice.Limit(), slice.Offset())
	if err != nil {
		return nil, 0, false, err
	}

	for _, answer := range answers {
		if err := s.fillVotes(ctx, answer); err != nil {
			return nil, 0, false, err
		}
	}

	return answers, total, slice.HasNext, nil
}

// Vote records a bare up or down vote. There is no duplicate-vote
// prevention; tallies are advisory.
func (s *AnswerService) Vote(ctx context.Context, answerID uint64, direction string) error {
	answer, err := s.answerRepo.FindByID(ctx, answerID)
	if err != nil {
		return err
	}
	if answer == nil {
		return fmt.Errorf("%w: answer %d", ErrNotFound, answerID)
	}

	switch direction {
	case VoteUp:
		return s.tally.Upvote(ctx, answerID)
	case VoteDown:
		return s.tally.Downvote(ctx, answerID)
	default:
		return fmt.Errorf("%w: vote direction must be %q or %q", ErrInvalidArgument, VoteUp, VoteDown)
	}
}

func (s *AnswerService) fillVotes(ctx context.Context, answer *models.Answer) error {
	up, down, err := s.tally.Get(ctx, answer.ID)
	if err != nil {
		return err
	}
	answer.Upvotes = up
	answer.Downvotes = down
	return nil
}
