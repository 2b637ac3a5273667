package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MullerEsposito/starkoverflow-engine/internal/repository"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/logger"
)

const answerAuthor = "0x2546BcD3c84621e976D8185a91A922aE77ECEc30"

var answerColumns = []string{"id", "question_id", "author", "description_cid", "correct", "created_at"}

func newResolutionService(t *testing.T) (*ResolutionService, sqlmock.Sqlmock, *mockLedger, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	ids := repository.NewIDAllocator(db)
	ledger := new(mockLedger)
	svc := NewResolutionService(
		repository.NewQuestionRepository(db, ids),
		repository.NewAnswerRepository(db, ids),
		repository.NewStakeRepository(db),
		repository.NewResolutionRepository(db),
		ledger,
		testEscrow,
		NewCommandGate(),
		logger.NewLogger("test"),
	)
	return svc, mock, ledger, func() { db.Close() }
}

func expectAnswer(mock sqlmock.Sqlmock, answerID, questionID uint64) {
	mock.ExpectQuery("SELECT id, question_id, author, description_cid, correct").
		WithArgs(answerID).
		WillReturnRows(sqlmock.NewRows(answerColumns).
			AddRow(answerID, questionID, answerAuthor, "QmAnswer", false, time.Now()))
}

func expectNoCorrectAnswer(mock sqlmock.Sqlmock, questionID uint64) {
	mock.ExpectQuery("SELECT id, question_id, author, description_cid, correct").
		WithArgs(questionID).
		WillReturnRows(sqlmock.NewRows(answerColumns))
}

func TestResolutionService_MarkCorrect(t *testing.T) {
	ctx := context.Background()
	payout := decimal.NewFromInt(150)

	t.Run("Success", func(t *testing.T) {
		svc, mock, ledger, cleanup := newResolutionService(t)
		defer cleanup()

		expectQuestion(mock, 10, 1, 0)
		expectAnswer(mock, 20, 10)
		expectNoCorrectAnswer(mock, 10)
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)`).
			WithArgs(uint64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("150"))

		ledger.On("Transfer", ctx, testEscrow, answerAuthor, payout).Return(nil).Once()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE questions SET status = 1").
			WithArgs(sqlmock.AnyArg(), uint64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE answers SET correct = 1").
			WithArgs(uint64(20)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE stakes SET released_at").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), uint64(10)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("INSERT INTO users").
			WithArgs(answerAuthor, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, svc.MarkCorrect(ctx, testCaller, 10, 20))

		ledger.AssertExpectations(t)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotAuthor", func(t *testing.T) {
		svc, mock, _, cleanup := newResolutionService(t)
		defer cleanup()

		expectQuestion(mock, 10, 1, 0)

		err := svc.MarkCorrect(ctx, answerAuthor, 10, 20)
		assert.ErrorIs(t, err, ErrUnauthorized)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyResolved", func(t *testing.T) {
		svc, mock, _, cleanup := newResolutionService(t)
		defer cleanup()

		expectQuestion(mock, 10, 1, 1)

		err := svc.MarkCorrect(ctx, testCaller, 10, 20)
		assert.ErrorIs(t, err, ErrAlreadyResolved)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AnswerFromAnotherQuestion", func(t *testing.T) {
		svc, mock, _, cleanup := newResolutionService(t)
		defer cleanup()

		expectQuestion(mock, 10, 1, 0)
		expectAnswer(mock, 20, 11)

		err := svc.MarkCorrect(ctx, testCaller, 10, 20)
		assert.ErrorIs(t, err, ErrAnswerMismatch)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownAnswer", func(t *testing.T) {
		svc, mock, _, cleanup := newResolutionService(t)
		defer cleanup()

		expectQuestion(mock, 10, 1, 0)
		mock.ExpectQuery("SELECT id, question_id, author, description_cid, correct").
			WithArgs(uint64(99)).
			WillReturnRows(sqlmock.NewRows(answerColumns))

		err := svc.MarkCorrect(ctx, testCaller, 10, 99)
		assert.ErrorIs(t, err, ErrAnswerMismatch)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("PayoutRejectedLeavesQuestionOpen", func(t *testing.T) {
		svc, mock, ledger, cleanup := newResolutionService(t)
		defer cleanup()

		expectQuestion(mock, 10, 1, 0)
		expectAnswer(mock, 20, 10)
		expectNoCorrectAnswer(mock, 10)
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)`).
			WithArgs(uint64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("150"))

		ledger.On("Transfer", ctx, testEscrow, answerAuthor, payout).
			Return(errors.New("ledger unavailable")).Once()

		err := svc.MarkCorrect(ctx, testCaller, 10, 20)
		assert.ErrorIs(t, err, ErrTransferFailed)

		ledger.AssertExpectations(t)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LostRaceReportsConflict", func(t *testing.T) {
		svc, mock, ledger, cleanup := newResolutionService(t)
		defer cleanup()

		expectQuestion(mock, 10, 1, 0)
		expectAnswer(mock, 20, 10)
		expectNoCorrectAnswer(mock, 10)
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)`).
			WithArgs(uint64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("150"))

		ledger.On("Transfer", ctx, testEscrow, answerAuthor, payout).Return(nil).Once()

		// The status guard matches no rows: another resolution committed
		// between the read and the close.
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE questions SET status = 1").
			WithArgs(sqlmock.AnyArg(), uint64(10)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		ledger.On("Transfer", ctx, answerAuthor, testEscrow, payout).Return(nil).Once()

		err := svc.MarkCorrect(ctx, testCaller, 10, 20)
		assert.ErrorIs(t, err, ErrAlreadyResolved)

		ledger.AssertExpectations(t)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LocalFailureClawsBackPayout", func(t *testing.T) {
		svc, mock, ledger, cleanup := newResolutionService(t)
		defer cleanup()

		expectQuestion(mock, 10, 1, 0)
		expectAnswer(mock, 20, 10)
		expectNoCorrectAnswer(mock, 10)
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\)`).
			WithArgs(uint64(10)).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("150"))

		ledger.On("Transfer", ctx, testEscrow, answerAuthor, payout).Return(nil).Once()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE questions SET status = 1").
			WithArgs(sqlmock.AnyArg(), uint64(10)).
			WillReturnError(errors.New("connection lost"))
		mock.ExpectRollback()

		ledger.On("Transfer", ctx, answerAuthor, testEscrow, payout).Return(nil).Once()

		err := svc.MarkCorrect(ctx, testCaller, 10, 20)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrTransferFailed)

		ledger.AssertExpectations(t)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestResolutionService_CorrectAnswer(t *testing.T) {
	svc, mock, _, cleanup := newResolutionService(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("NilWhileOpen", func(t *testing.T) {
		expectQuestion(mock, 10, 1, 0)
		expectNoCorrectAnswer(mock, 10)

		answer, err := svc.CorrectAnswer(ctx, 10)
		require.NoError(t, err)
		assert.Nil(t, answer)
	})

	t.Run("ReturnsFlaggedAnswer", func(t *testing.T) {
		expectQuestion(mock, 10, 1, 1)
		mock.ExpectQuery("SELECT id, question_id, author, description_cid, correct").
			WithArgs(uint64(10)).
			WillReturnRows(sqlmock.NewRows(answerColumns).
				AddRow(20, 10, answerAuthor, "QmAnswer", true, time.Now()))

		answer, err := svc.CorrectAnswer(ctx, 10)
		require.NoError(t, err)
		require.NotNil(t, answer)
		assert.Equal(t, uint64(20), answer.ID)
		assert.True(t, answer.Correct)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
