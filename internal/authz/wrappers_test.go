package authz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-admin/pkg/logger"
	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// memoryAuditStore collects audit entries in memory.
type memoryAuditStore struct {
	mu      sync.Mutex
	entries []rbac.AuditEntry
}

func (s *memoryAuditStore) Insert(ctx context.Context, entry *rbac.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *memoryAuditStore) all() []rbac.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]rbac.AuditEntry(nil), s.entries...)
}

// countingHandler counts invocations and writes the configured status.
type countingHandler struct {
	calls  int
	status int
}

func (h *countingHandler) handle(w http.ResponseWriter, r *http.Request, user *rbac.SessionUser, rctx *RouteContext) {
	h.calls++
	if h.status != 0 {
		w.WriteHeader(h.status)
	}
}

func TestWithPermissionShortCircuits(t *testing.T) {
	a := newTestAuthorizer(sessionUser(rbac.RoleNurse, "c1"))
	handler := &countingHandler{}

	// Nurse cannot delete patients; the wrapped handler must never run.
	wrapped := a.WithPermission(rbac.ResourcePatient, rbac.ActionDelete, handler.handle)

	w := httptest.NewRecorder()
	wrapped(w, testRequest())

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, handler.calls)
}

func TestWithRoleShortCircuitsWithoutAudit(t *testing.T) {
	a := newTestAuthorizer(sessionUser(rbac.RoleReception, "c1"))
	store := &memoryAuditStore{}
	recorder := NewAuditRecorder(store, logger.New("error"), 16)
	handler := &countingHandler{}

	wrapped := a.WithRole([]rbac.Role{rbac.RoleAdmin}, handler.handle)

	w := httptest.NewRecorder()
	wrapped(w, testRequest())

	recorder.Close()
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, handler.calls)
	assert.Empty(t, store.all())
}

func TestWithAuthInvokesHandler(t *testing.T) {
	user := sessionUser(rbac.RoleDoctor, "c1")
	a := newTestAuthorizer(user)

	var gotUser *rbac.SessionUser
	wrapped := a.WithAuth(func(w http.ResponseWriter, r *http.Request, u *rbac.SessionUser, rctx *RouteContext) {
		gotUser = u
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	wrapped(w, testRequest())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user, gotUser)
}

func TestWithClinicAccessMissingClinicID(t *testing.T) {
	a := newTestAuthorizer(sessionUser(rbac.RoleDoctor, "c1"))
	handler := &countingHandler{}

	wrapped := a.WithClinicAccess(ClinicIDFromQuery, handler.handle)

	// No clinicId query parameter: 400 before any authorization check.
	w := httptest.NewRecorder()
	wrapped(w, httptest.NewRequest("GET", "/api/v1/patients", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Clinic ID is required")
	assert.Equal(t, 0, handler.calls)
}

func TestWithClinicAccessPassesResolvedClinic(t *testing.T) {
	a := newTestAuthorizer(sessionUser(rbac.RoleDoctor, "c1"))

	var gotClinic string
	wrapped := a.WithClinicAccess(ClinicIDFromQuery, func(w http.ResponseWriter, r *http.Request, u *rbac.SessionUser, rctx *RouteContext) {
		gotClinic = rctx.ClinicID
	})

	w := httptest.NewRecorder()
	wrapped(w, httptest.NewRequest("GET", "/api/v1/patients?clinicId=c1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "c1", gotClinic)
}

func TestWithPermissionAndClinic(t *testing.T) {
	a := newTestAuthorizer(sessionUser(rbac.RolePharmacy, "C1"))
	handler := &countingHandler{}

	wrapped := a.WithPermissionAndClinic(rbac.ResourceDispensing, rbac.ActionCreate, ClinicIDFromQuery, handler.handle)

	w := httptest.NewRecorder()
	wrapped(w, httptest.NewRequest("POST", "/api/v1/dispensing?clinicId=C2", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, handler.calls)

	w = httptest.NewRecorder()
	wrapped(w, httptest.NewRequest("POST", "/api/v1/dispensing?clinicId=C1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, handler.calls)
}

func TestWithSensitiveDataAccess(t *testing.T) {
	handler := &countingHandler{}

	a := newTestAuthorizer(sessionUser(rbac.RoleOperational, "c1"))
	wrapped := a.WithSensitiveDataAccess(handler.handle)

	w := httptest.NewRecorder()
	wrapped(w, testRequest())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, handler.calls)

	a = newTestAuthorizer(sessionUser(rbac.RoleFinance, "c1"))
	wrapped = a.WithSensitiveDataAccess(handler.handle)

	w = httptest.NewRecorder()
	wrapped(w, testRequest())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, handler.calls)
}

func TestWithAuditLogRecordsOnlySuccesses(t *testing.T) {
	user := sessionUser(rbac.RoleFinance, "c1")
	a := newTestAuthorizer(user)
	store := &memoryAuditStore{}
	recorder := NewAuditRecorder(store, logger.New("error"), 16)

	statuses := []int{200, 201, 400, 403, 500}
	for _, status := range statuses {
		handler := &countingHandler{status: status}
		wrapped := a.WithAuditLog(recorder, rbac.ResourceInvoice, rbac.ActionCreate, handler.handle)

		req := httptest.NewRequest("POST", "/api/v1/invoices?clinicId=c1", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		req.Header.Set("User-Agent", "clinic-admin-test/1.0")

		w := httptest.NewRecorder()
		wrapped(w, req)
		assert.Equal(t, status, w.Code)
		assert.Equal(t, 1, handler.calls)
	}

	recorder.Close()

	entries := store.all()
	require.Len(t, entries, 2, "one entry per 2xx response")
	for _, entry := range entries {
		assert.Equal(t, user.ID, entry.UserID)
		assert.Equal(t, rbac.RoleFinance, entry.UserRole)
		assert.Equal(t, rbac.ResourceInvoice, entry.Resource)
		assert.Equal(t, rbac.ActionCreate, entry.Action)
		assert.Equal(t, "c1", entry.ClinicID)
		assert.Equal(t, "203.0.113.7", entry.IPAddress)
		assert.Equal(t, "clinic-admin-test/1.0", entry.UserAgent)
		assert.NotEmpty(t, entry.ID)
		assert.False(t, entry.Timestamp.IsZero())
	}
}

func TestWithAuditLogUnauthenticated(t *testing.T) {
	a := newTestAuthorizer(nil)
	store := &memoryAuditStore{}
	recorder := NewAuditRecorder(store, logger.New("error"), 16)
	handler := &countingHandler{}

	wrapped := a.WithAuditLog(recorder, rbac.ResourceInvoice, rbac.ActionCreate, handler.handle)

	w := httptest.NewRecorder()
	wrapped(w, testRequest())

	recorder.Close()
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, handler.calls)
	assert.Empty(t, store.all())
}

func TestWithAuditLogResourceIDFromPath(t *testing.T) {
	user := sessionUser(rbac.RoleAdmin)
	a := newTestAuthorizer(user)
	store := &memoryAuditStore{}
	recorder := NewAuditRecorder(store, logger.New("error"), 16)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/patients/{id}",
		a.WithAuditLog(recorder, rbac.ResourcePatient, rbac.ActionUpdate,
			func(w http.ResponseWriter, r *http.Request, u *rbac.SessionUser, rctx *RouteContext) {
				w.WriteHeader(http.StatusOK)
			})).Methods("PUT")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("PUT", "/api/v1/patients/p-42", nil))

	recorder.Close()
	entries := store.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "p-42", entries[0].ResourceID)
}

func TestWithPermissionAndAuditLog(t *testing.T) {
	store := &memoryAuditStore{}
	recorder := NewAuditRecorder(store, logger.New("error"), 16)
	handler := &countingHandler{status: http.StatusCreated}

	// Pharmacy has no invoice entry: denied before the handler runs and
	// nothing is audited.
	a := newTestAuthorizer(sessionUser(rbac.RolePharmacy, "c1"))
	wrapped := a.WithPermissionAndAuditLog(recorder, rbac.ResourceInvoice, rbac.ActionCreate, handler.handle)

	w := httptest.NewRecorder()
	wrapped(w, httptest.NewRequest("POST", "/api/v1/invoices?clinicId=c1", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 0, handler.calls)

	a = newTestAuthorizer(sessionUser(rbac.RoleFinance, "c1"))
	wrapped = a.WithPermissionAndAuditLog(recorder, rbac.ResourceInvoice, rbac.ActionCreate, handler.handle)

	w = httptest.NewRecorder()
	wrapped(w, httptest.NewRequest("POST", "/api/v1/invoices?clinicId=c1", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, handler.calls)

	recorder.Close()
	entries := store.all()
	require.Len(t, entries, 1)
	assert.Equal(t, rbac.RoleFinance, entries[0].UserRole)
	assert.Equal(t, rbac.ResourceInvoice, entries[0].Resource)
	assert.Equal(t, rbac.ActionCreate, entries[0].Action)
	assert.Equal(t, "c1", entries[0].ClinicID)
}

func TestClientIP(t *testing.T) {
	r := testRequest()
	assert.Equal(t, "unknown", ClientIP(r))

	r.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.2")
	assert.Equal(t, "203.0.113.9", ClientIP(r))
}

func TestUserAgent(t *testing.T) {
	r := testRequest()
	assert.Equal(t, "unknown", UserAgent(r))

	r.Header.Set("User-Agent", "Mozilla/5.0")
	assert.Equal(t, "Mozilla/5.0", UserAgent(r))
}
