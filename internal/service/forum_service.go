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

// ForumService owns forum records. Mutations are restricted to the
// configured owner principal; reads are open.
type ForumService struct {
	forumRepo *repository.ForumRepository
	owner     string
	log       *logger.Logger
}

func NewForumService(forumRepo *repository.ForumRepository, owner string, log *logger.Logger) *ForumService {
	return &ForumService{forumRepo: forumRepo, owner: owner, log: log}
}

// Owner returns the address allowed to mutate forums.
func (s *ForumService) Owner() string {
	return s.owner
}

func (s *ForumService) requireOwner(caller string) error {
	if !strings.EqualFold(caller, s.owner) {
		return fmt.Errorf("%w: only the owner may manage forums", ErrUnauthorized)
	}
	return nil
}

func (s *ForumService) Create(ctx context.Context, caller, name, iconCID string) (*models.Forum, error) {
	if err := s.requireOwner(caller); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: forum name is required", ErrInvalidArgument)
	}

	forum, err := s.forumRepo.Create(ctx, name, iconCID)
	if err != nil {
		return nil, fmt.Errorf("failed to create forum: %w", err)
	}

	s.log.WithAddress(caller).WithField("forum_id", forum.ID).Info("Forum created")
	return forum, nil
}

func (s *ForumService) Update(ctx context.Context, caller string, forumID uint64, name, iconCID string) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: forum name is required", ErrInvalidArgument)
	}

	forum, err := s.forumRepo.FindByID(ctx, forumID)
	if err != nil {
		return err
	}
	if forum == nil || forum.Deleted {
		return fmt.Errorf("%w: forum %d", ErrNotFound, forumID)
	}

	return s.forumRepo.Update(ctx, forumID, name, iconCID)
}

// Delete soft-deletes a forum. Deleting twice is reported as NotFound, not
// silently ignored.
func (s *ForumService) Delete(ctx context.Context, caller string, forumID uint64) error {
	if err := s.requireOwner(caller); err != nil {
		return err
	}

	forum, err := s.forumRepo.FindByID(ctx, forumID)
	if err != nil {
		return err
	}
	if forum == nil {
		return fmt.Errorf("%w: forum %d", ErrNotFound, forumID)
	}
	if forum.Deleted {
		return fmt.Errorf("%w: forum %d is already deleted", ErrNotFound, forumID)
	}

	if err := s.forumRepo.SoftDelete(ctx, forumID); err != nil {
		return err
	}

	s.log.WithAddress(caller).WithField("forum_id", forumID).Info("Forum deleted")
	return nil
}

// Get returns a forum by id. Soft-deleted forums remain fetchable so that
// historical questions stay resolvable.
func (s *ForumService) Get(ctx context.Context, forumID uint64) (*models.Forum, error) {
	forum, err := s.forumRepo.FindByID(ctx, forumID)
	if err != nil {
		return nil, err
	}
	if forum == nil {
		return nil, fmt.Errorf("%w: forum %d", ErrNotFound, forumID)
	}
	return forum, nil
}

// List returns non-deleted forums in creation order.
func (s *ForumService) List(ctx context.Context, pageSize, page int) ([]*models.Forum, int, bool, error) {
	total, err := s.forumRepo.CountActive(ctx)
	if err != nil {
		return nil, 0, false, err
	}

	slice, err := pagination.Slice(total, pageSize, page)
	if err != nil {
		return nil, 0, false, err
	}
	if slice.Limit() == 0 {
		return []*models.Forum{}, total, false, nil
	}

	forums, err := s.forumRepo.ListActive(ctx, slice.Limit(), slice.Offset())
	if err != nil {
		return nil, 0, false, err
	}
	return forums, total, slice.HasNext, nil
}
