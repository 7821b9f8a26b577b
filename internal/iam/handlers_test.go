package iam

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-admin/pkg/logger"
)

func newTestHandlers(t *testing.T) (*Handlers, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.New("error")
	users := NewUserRepository(db, log)
	passwords := NewPasswordManager()
	tokens := NewTokenManager("test-secret", "clinic-admin", time.Hour)
	limiter := NewLoginRateLimiter(5, time.Minute)

	return NewHandlers(users, passwords, tokens, limiter, nil, log), mock
}

func userRows(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()

	hash, err := NewPasswordManager().HashPassword(password)
	require.NoError(t, err)

	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "role", "assigned_clinics",
		"primary_clinic", "language", "theme", "active",
	}).AddRow(
		"user-123", "nurse@clinic.example", hash, "nurse",
		"{clinic-1}", "clinic-1", "en", "light", true,
	)
}

func postLogin(h *Handlers, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLoginSuccess(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("nurse@clinic.example").
		WillReturnRows(userRows(t, "s3cret"))

	rec := postLogin(h, loginRequest{Email: "nurse@clinic.example", Password: "s3cret"})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "nurse", resp.Role)
	require.NotEmpty(t, resp.Token)

	user, err := h.tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", user.ID)
	assert.Equal(t, []string{"clinic-1"}, user.AssignedClinics)
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("nurse@clinic.example").
		WillReturnRows(userRows(t, "s3cret"))

	rec := postLogin(h, loginRequest{Email: "nurse@clinic.example", Password: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid email or password", body["error"])
}

func TestLoginUnknownUser(t *testing.T) {
	h, mock := newTestHandlers(t)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("nobody@clinic.example").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "password_hash", "role", "assigned_clinics",
			"primary_clinic", "language", "theme", "active",
		}))

	rec := postLogin(h, loginRequest{Email: "nobody@clinic.example", Password: "anything"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Invalid email or password", body["error"])
}

func TestLoginMissingFields(t *testing.T) {
	h, _ := newTestHandlers(t)

	rec := postLogin(h, loginRequest{Email: "", Password: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginInvalidBody(t *testing.T) {
	h, _ := newTestHandlers(t)

	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginThrottled(t *testing.T) {
	h, mock := newTestHandlers(t)
	h.limiter = NewLoginRateLimiter(2, time.Hour)

	for i := 0; i < 2; i++ {
		mock.ExpectQuery("SELECT id, email, password_hash").
			WithArgs("nurse@clinic.example").
			WillReturnRows(userRows(t, "s3cret"))
		rec := postLogin(h, loginRequest{Email: "nurse@clinic.example", Password: "wrong"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	// Third attempt from the same client is throttled before any lookup.
	rec := postLogin(h, loginRequest{Email: "nurse@clinic.example", Password: "wrong"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLoginSuccessResetsThrottle(t *testing.T) {
	h, mock := newTestHandlers(t)
	h.limiter = NewLoginRateLimiter(2, time.Hour)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("nurse@clinic.example").
		WillReturnRows(userRows(t, "s3cret"))
	rec := postLogin(h, loginRequest{Email: "nurse@clinic.example", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("nurse@clinic.example").
		WillReturnRows(userRows(t, "s3cret"))
	rec = postLogin(h, loginRequest{Email: "nurse@clinic.example", Password: "s3cret"})
	require.Equal(t, http.StatusOK, rec.Code)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("nurse@clinic.example").
		WillReturnRows(userRows(t, "s3cret"))
	rec = postLogin(h, loginRequest{Email: "nurse@clinic.example", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
