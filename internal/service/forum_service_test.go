package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MullerEsposito/starkoverflow-engine/internal/repository"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/logger"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/pagination"
)

const (
	testOwner  = "0xAb5801a7D398351b8bE11C439e05C5b3259aeC9B"
	testCaller = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
)

var forumColumns = []string{"id", "name", "icon_cid", "deleted", "total_questions", "total_staked", "created_at", "updated_at"}

func newForumService(t *testing.T) (*ForumService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	forumRepo := repository.NewForumRepository(db, repository.NewIDAllocator(db))
	svc := NewForumService(forumRepo, testOwner, logger.NewLogger("test"))
	return svc, mock, func() { db.Close() }
}

func TestForumService_Create(t *testing.T) {
	svc, mock, cleanup := newForumService(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE entity_counters").
			WithArgs(repository.EntityForum).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO forums").
			WithArgs(uint64(1), "Cairo", "QmIcon", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		forum, err := svc.Create(ctx, testOwner, "Cairo", "QmIcon")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), forum.ID)
		assert.Equal(t, "Cairo", forum.Name)
		assert.False(t, forum.Deleted)
	})

	t.Run("NotOwner", func(t *testing.T) {
		forum, err := svc.Create(ctx, testCaller, "Cairo", "")
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Nil(t, forum)
	})

	t.Run("BlankName", func(t *testing.T) {
		forum, err := svc.Create(ctx, testOwner, "   ", "")
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Nil(t, forum)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestForumService_Delete(t *testing.T) {
	svc, mock, cleanup := newForumService(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, icon_cid").
			WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows(forumColumns).
				AddRow(7, "Cairo", "", false, 0, "0", now, now))
		mock.ExpectExec("UPDATE forums SET deleted = 1").
			WithArgs(sqlmock.AnyArg(), uint64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, svc.Delete(ctx, testOwner, 7))
	})

	t.Run("AlreadyDeleted", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, icon_cid").
			WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows(forumColumns).
				AddRow(7, "Cairo", "", true, 0, "0", now, now))

		err := svc.Delete(ctx, testOwner, 7)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("NotOwner", func(t *testing.T) {
		err := svc.Delete(ctx, testCaller, 7)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestForumService_Get(t *testing.T) {
	svc, mock, cleanup := newForumService(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	t.Run("DeletedForumStaysFetchable", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, icon_cid").
			WithArgs(uint64(3)).
			WillReturnRows(sqlmock.NewRows(forumColumns).
				AddRow(3, "Starknet", "", true, 4, "250", now, now))

		forum, err := svc.Get(ctx, 3)
		require.NoError(t, err)
		assert.True(t, forum.Deleted)
		assert.Equal(t, uint64(4), forum.TotalQuestions)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, icon_cid").
			WithArgs(uint64(99)).
			WillReturnRows(sqlmock.NewRows(forumColumns))

		forum, err := svc.Get(ctx, 99)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, forum)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestForumService_List(t *testing.T) {
	svc, mock, cleanup := newForumService(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()

	t.Run("FirstPage", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM forums`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectQuery("SELECT id, name, icon_cid").
			WithArgs(2, 0).
			WillReturnRows(sqlmock.NewRows(forumColumns).
				AddRow(1, "Cairo", "", false, 0, "0", now, now).
				AddRow(2, "Starknet", "", false, 0, "0", now, now))

		forums, total, hasNext, err := svc.List(ctx, 2, 1)
		require.NoError(t, err)
		assert.Len(t, forums, 2)
		assert.Equal(t, 3, total)
		assert.True(t, hasNext)
	})

	t.Run("PastEndIsEmpty", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM forums`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		forums, total, hasNext, err := svc.List(ctx, 2, 5)
		require.NoError(t, err)
		assert.Empty(t, forums)
		assert.Equal(t, 3, total)
		assert.False(t, hasNext)
	})

	t.Run("InvalidPageSize", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM forums`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		_, _, _, err := svc.List(ctx, 0, 1)
		assert.ErrorIs(t, err, pagination.ErrInvalidPageSize)
	})

	t.Run("InvalidPage", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM forums`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		_, _, _, err := svc.List(ctx, 2, 0)
		assert.ErrorIs(t, err, pagination.ErrInvalidPage)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
