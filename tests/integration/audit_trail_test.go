//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-admin/internal/audit"
	"github.com/clinicore/clinic-admin/internal/authz"
	"github.com/clinicore/clinic-admin/pkg/logger"
	"github.com/clinicore/clinic-admin/pkg/rbac"
)

func newAuditStore(t *testing.T) *audit.Store {
	t.Helper()

	store := audit.NewStore(testDB, logger.New("error"))
	require.NoError(t, store.InitSchema(context.Background()))
	truncateAuditLog(t)
	return store
}

func TestAuditInsertAndQuery(t *testing.T) {
	store := newAuditStore(t)
	ctx := context.Background()

	entry := &rbac.AuditEntry{
		UserID:     "user-1",
		UserRole:   rbac.RoleFinance,
		Action:     rbac.ActionCreate,
		Resource:   rbac.ResourceInvoice,
		ResourceID: "inv-1",
		ClinicID:   "clinic-1",
		IPAddress:  "203.0.113.7",
		UserAgent:  "integration-test",
	}
	require.NoError(t, store.Insert(ctx, entry))
	require.NotEmpty(t, entry.ID)

	entries, err := store.Query(ctx, audit.Filter{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, rbac.RoleFinance, got.UserRole)
	assert.Equal(t, rbac.ActionCreate, got.Action)
	assert.Equal(t, rbac.ResourceInvoice, got.Resource)
	assert.Equal(t, "inv-1", got.ResourceID)
	assert.Equal(t, "clinic-1", got.ClinicID)
	assert.Equal(t, "203.0.113.7", got.IPAddress)
	assert.Equal(t, "integration-test", got.UserAgent)
}

func TestAuditQueryFilters(t *testing.T) {
	store := newAuditStore(t)
	ctx := context.Background()

	seed := []rbac.AuditEntry{
		{UserID: "u-1", UserRole: rbac.RoleAdmin, Action: rbac.ActionCreate, Resource: rbac.ResourceInvoice, ClinicID: "clinic-1"},
		{UserID: "u-1", UserRole: rbac.RoleAdmin, Action: rbac.ActionUpdate, Resource: rbac.ResourceInvoice, ClinicID: "clinic-2"},
		{UserID: "u-2", UserRole: rbac.RoleReception, Action: rbac.ActionCreate, Resource: rbac.ResourcePatient, ClinicID: "clinic-1"},
	}
	for i := range seed {
		require.NoError(t, store.Insert(ctx, &seed[i]))
	}

	entries, err := store.Query(ctx, audit.Filter{Resource: rbac.ResourceInvoice})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = store.Query(ctx, audit.Filter{UserID: "u-2", ClinicID: "clinic-1"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, rbac.ResourcePatient, entries[0].Resource)

	entries, err = store.Query(ctx, audit.Filter{Resource: rbac.ResourceInvoice, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAuditRecorderDrainsToPostgres(t *testing.T) {
	store := newAuditStore(t)
	recorder := authz.NewAuditRecorder(store, logger.New("error"), 16)

	for i := 0; i < 5; i++ {
		recorder.Record(rbac.AuditEntry{
			UserID:   "user-9",
			UserRole: rbac.RoleReception,
			Action:   rbac.ActionCreate,
			Resource: rbac.ResourceAppointment,
			ClinicID: "clinic-1",
		})
	}
	recorder.Close()

	entries, err := store.Query(context.Background(), audit.Filter{UserID: "user-9"})
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestAuditPurge(t *testing.T) {
	store := newAuditStore(t)
	ctx := context.Background()

	old := &rbac.AuditEntry{
		UserID:    "u-old",
		UserRole:  rbac.RoleAdmin,
		Action:    rbac.ActionRead,
		Resource:  rbac.ResourceAuditLog,
		Timestamp: time.Now().AddDate(-8, 0, 0),
	}
	recent := &rbac.AuditEntry{
		UserID:   "u-new",
		UserRole: rbac.RoleAdmin,
		Action:   rbac.ActionRead,
		Resource: rbac.ResourceAuditLog,
	}
	require.NoError(t, store.Insert(ctx, old))
	require.NoError(t, store.Insert(ctx, recent))

	deleted, err := store.PurgeOlderThan(ctx, time.Now().AddDate(-7, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	entries, err := store.Query(ctx, audit.Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "u-new", entries[0].UserID)
}
