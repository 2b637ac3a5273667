package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MullerEsposito/starkoverflow-engine/internal/repository"
	"github.com/MullerEsposito/starkoverflow-engine/internal/service"
	"github.com/MullerEsposito/starkoverflow-engine/pkg/logger"
)

const (
	ownerAddr    = "0xAb5801a7D398351b8bE11C439e05C5b3259aeC9B"
	strangerAddr = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
)

var forumColumns = []string{"id", "name", "icon_cid", "deleted", "total_questions", "total_staked", "created_at", "updated_at"}

func newForumRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	forumService := service.NewForumService(
		repository.NewForumRepository(db, repository.NewIDAllocator(db)),
		ownerAddr,
		logger.NewLogger("test"),
	)
	h := NewForumHandler(forumService)

	r := gin.New()
	r.POST("/api/forums", h.Create)
	r.GET("/api/forums", h.List)
	r.GET("/api/forums/:id", h.Get)
	r.DELETE("/api/forums/:id", h.Delete)
	r.GET("/api/owner", h.Owner)

	return r, mock, func() { db.Close() }
}

func TestForumHandler_Create(t *testing.T) {
	r, mock, cleanup := newForumRouter(t)
	defer cleanup()

	t.Run("Created", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE entity_counters").
			WithArgs(repository.EntityForum).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("INSERT INTO forums").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		req := httptest.NewRequest(http.MethodPost, "/api/forums", strings.NewReader(`{"name":"Cairo"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(CallerHeader, ownerAddr)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Cairo", body["name"])
	})

	t.Run("MissingCallerHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/forums", strings.NewReader(`{"name":"Cairo"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NotOwnerIsForbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/forums", strings.NewReader(`{"name":"Cairo"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(CallerHeader, strangerAddr)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestForumHandler_Get(t *testing.T) {
	r, mock, cleanup := newForumRouter(t)
	defer cleanup()

	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, icon_cid").
			WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows(forumColumns).
				AddRow(1, "Cairo", "", false, 2, "300", now, now))

		req := httptest.NewRequest(http.MethodGet, "/api/forums/1", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, name, icon_cid").
			WithArgs(uint64(9)).
			WillReturnRows(sqlmock.NewRows(forumColumns))

		req := httptest.NewRequest(http.MethodGet, "/api/forums/9", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("BadID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/forums/abc", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestForumHandler_List(t *testing.T) {
	r, mock, cleanup := newForumRouter(t)
	defer cleanup()

	t.Run("InvalidPageSizeIsBadRequest", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM forums`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		req := httptest.NewRequest(http.MethodGet, "/api/forums?pageSize=0", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("NonNumericPageSizeIsBadRequest", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/forums?pageSize=abc", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "pageSize must be an integer", body["err"])
	})

	t.Run("NonNumericPageIsBadRequest", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/forums?page=first", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("EmptyPage", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM forums`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		req := httptest.NewRequest(http.MethodGet, "/api/forums", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data        []any `json:"data"`
			Total       int   `json:"total"`
			HasNextPage bool  `json:"hasNextPage"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Empty(t, body.Data)
		assert.Zero(t, body.Total)
		assert.False(t, body.HasNextPage)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestForumHandler_Owner(t *testing.T) {
	r, _, cleanup := newForumRouter(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/owner", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ownerAddr, body["owner"])
}
