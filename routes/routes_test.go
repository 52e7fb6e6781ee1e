package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/library-backend/config"
	"github.com/vnkhanh/library-backend/jobs"
	"github.com/vnkhanh/library-backend/models"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	cfg := config.Settings{
		LibrarianEmail: "librarian@email.com",
		LoanPeriod:     3 * 24 * time.Hour,
		ExportDir:      t.TempDir(),
	}
	require.NoError(t, config.Seed(db, cfg.LibrarianEmail))

	r := SetupRouter(gin.New(), db, cfg, jobs.NewExportStore(cfg.ExportDir))
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	parsed := map[string]interface{}{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	}
	return w, parsed
}

func loginUser(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w, resp := doJSON(t, r, http.MethodPost, "/user_login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, "login failed: %v", resp)
	return resp["auth_token"].(string)
}

func loginLibrarian(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w, resp := doJSON(t, r, http.MethodPost, "/librarian_login", "", gin.H{"email": "librarian@email.com", "password": "librarian"})
	require.Equal(t, http.StatusOK, w.Code, "librarian login failed: %v", resp)
	return resp["auth_token"].(string)
}

func TestBorrowReturnScenario(t *testing.T) {
	r, db := newTestServer(t)

	w, _ := doJSON(t, r, http.MethodPost, "/user_register", "", gin.H{"email": "a@x.com", "username": "a", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)

	userToken := loginUser(t, r, "a@x.com", "pw")

	// Request the first seeded book.
	w, resp := doJSON(t, r, http.MethodPost, "/request_book/1", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Book requested successfully!", resp["message"])

	var user models.User
	require.NoError(t, db.Where("email = ?", "a@x.com").First(&user).Error)
	assert.Equal(t, 1, user.BookCounts)

	// Librarian approves it; due date lands three days out.
	librarianToken := loginLibrarian(t, r)
	w, _ = doJSON(t, r, http.MethodPost, "/approve_book/1", librarianToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var book models.Book
	require.NoError(t, db.First(&book, 1).Error)
	assert.True(t, book.IsApproved)
	require.NotNil(t, book.DueDate)
	assert.WithinDuration(t, time.Now().Add(3*24*time.Hour), *book.DueDate, time.Minute)

	// Return it.
	w, _ = doJSON(t, r, http.MethodPost, "/return_book/1", userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.First(&book, 1).Error)
	assert.True(t, book.Available())
	require.NoError(t, db.First(&user, user.ID).Error)
	assert.Equal(t, 0, user.BookCounts)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, _ := newTestServer(t)

	w, _ := doJSON(t, r, http.MethodPost, "/user_register", "", gin.H{"email": "a@x.com", "username": "a", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := doJSON(t, r, http.MethodPost, "/user_register", "", gin.H{"email": "a@x.com", "username": "a2", "password": "pw"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already registered.", resp["message"])
}

func TestRoleGateBlocksBeforeMutation(t *testing.T) {
	r, db := newTestServer(t)

	doJSON(t, r, http.MethodPost, "/user_register", "", gin.H{"email": "a@x.com", "username": "a", "password": "pw"})
	userToken := loginUser(t, r, "a@x.com", "pw")

	doJSON(t, r, http.MethodPost, "/request_book/1", userToken, nil)

	// A plain user cannot approve, even their own request.
	w, _ := doJSON(t, r, http.MethodPost, "/approve_book/1", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var book models.Book
	require.NoError(t, db.First(&book, 1).Error)
	assert.False(t, book.IsApproved)

	// And a librarian cannot request.
	librarianToken := loginLibrarian(t, r)
	w, _ = doJSON(t, r, http.MethodPost, "/request_book/2", librarianToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// No token at all is unauthorized.
	w, _ = doJSON(t, r, http.MethodPost, "/request_book/2", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookContentOwnership(t *testing.T) {
	r, _ := newTestServer(t)

	doJSON(t, r, http.MethodPost, "/user_register", "", gin.H{"email": "a@x.com", "username": "a", "password": "pw"})
	doJSON(t, r, http.MethodPost, "/user_register", "", gin.H{"email": "b@x.com", "username": "b", "password": "pw"})
	tokenA := loginUser(t, r, "a@x.com", "pw")
	tokenB := loginUser(t, r, "b@x.com", "pw")

	doJSON(t, r, http.MethodPost, "/request_book/1", tokenA, nil)

	// Content is locked until approval, even for the requester.
	w, _ := doJSON(t, r, http.MethodGet, "/book_content/1", tokenA, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	librarianToken := loginLibrarian(t, r)
	doJSON(t, r, http.MethodPost, "/approve_book/1", librarianToken, nil)

	w, resp := doJSON(t, r, http.MethodGet, "/book_content/1", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	bookPayload := resp["book"].(map[string]interface{})
	assert.NotEmpty(t, bookPayload["content"])

	// Another user never sees it.
	w, _ = doJSON(t, r, http.MethodGet, "/book_content/1", tokenB, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestTakenBookFails(t *testing.T) {
	r, _ := newTestServer(t)

	doJSON(t, r, http.MethodPost, "/user_register", "", gin.H{"email": "a@x.com", "username": "a", "password": "pw"})
	doJSON(t, r, http.MethodPost, "/user_register", "", gin.H{"email": "b@x.com", "username": "b", "password": "pw"})
	tokenA := loginUser(t, r, "a@x.com", "pw")
	tokenB := loginUser(t, r, "b@x.com", "pw")

	w, _ := doJSON(t, r, http.MethodPost, "/request_book/1", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := doJSON(t, r, http.MethodPost, "/request_book/1", tokenB, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "This book is already requested by another user.", resp["error"])
}

func TestCSVExportEndpoints(t *testing.T) {
	r, _ := newTestServer(t)

	// Unknown job ids poll as pending.
	w, resp := doJSON(t, r, http.MethodGet, "/getcsv/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task Pending", resp["message"])

	w, resp = doJSON(t, r, http.MethodGet, "/download", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	taskID := resp["taskid"].(string)
	require.NotEmpty(t, taskID)

	require.Eventually(t, func() bool {
		w, _ := doJSON(t, r, http.MethodGet, "/getcsv/"+taskID, "", nil)
		return w.Code == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	w, _ = doJSON(t, r, http.MethodGet, "/getcsv/"+taskID, "", nil)
	assert.Contains(t, w.Body.String(), "author,book_name")
	assert.Contains(t, w.Body.String(), "Harper Lee")
}
