package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-admin/pkg/logger"
	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// Store persists audit entries in PostgreSQL.
type Store struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewStore creates an audit store over an existing database connection.
func NewStore(db *sql.DB, log *logger.Logger) *Store {
	return &Store{db: db, logger: log}
}

// InitSchema creates the audit table if it does not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS audit_log (
			id          UUID PRIMARY KEY,
			user_id     TEXT NOT NULL,
			user_role   TEXT NOT NULL,
			action      TEXT NOT NULL,
			resource    TEXT NOT NULL,
			resource_id TEXT,
			clinic_id   TEXT,
			ip_address  TEXT,
			user_agent  TEXT,
			created_at  TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_audit_log_user_id ON audit_log (user_id);
		CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log (created_at)`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	return nil
}

// Insert writes a single audit entry.
func (s *Store) Insert(ctx context.Context, entry *rbac.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO audit_log (id, user_id, user_role, action, resource, resource_id, clinic_id, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		string(entry.UserRole),
		string(entry.Action),
		string(entry.Resource),
		nullable(entry.ResourceID),
		nullable(entry.ClinicID),
		nullable(entry.IPAddress),
		nullable(entry.UserAgent),
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// Filter narrows an audit trail query. Zero values are ignored.
type Filter struct {
	UserID   string
	Resource rbac.Resource
	Action   rbac.Action
	ClinicID string
	Since    time.Time
	Until    time.Time
	Limit    int
	Offset   int
}

// Query returns audit entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter Filter) ([]*rbac.AuditEntry, error) {
	query := `
		SELECT id, user_id, user_role, action, resource,
		       COALESCE(resource_id, ''), COALESCE(clinic_id, ''),
		       COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at
		FROM audit_log
		WHERE 1=1`

	args := []interface{}{}
	argIndex := 1

	if filter.UserID != "" {
		query += fmt.Sprintf(" AND user_id = $%d", argIndex)
		args = append(args, filter.UserID)
		argIndex++
	}
	if filter.Resource != "" {
		query += fmt.Sprintf(" AND resource = $%d", argIndex)
		args = append(args, string(filter.Resource))
		argIndex++
	}
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argIndex)
		args = append(args, string(filter.Action))
		argIndex++
	}
	if filter.ClinicID != "" {
		query += fmt.Sprintf(" AND clinic_id = $%d", argIndex)
		args = append(args, filter.ClinicID)
		argIndex++
	}
	if !filter.Since.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, filter.Since)
		argIndex++
	}
	if !filter.Until.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, filter.Until)
		argIndex++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []*rbac.AuditEntry
	for rows.Next() {
		entry := &rbac.AuditEntry{}
		var role, action, resource string
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&role,
			&action,
			&resource,
			&entry.ResourceID,
			&entry.ClinicID,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.UserRole = rbac.Role(role)
		entry.Action = rbac.Action(action)
		entry.Resource = rbac.Resource(resource)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}

	return entries, nil
}

// PurgeOlderThan removes entries past the retention window and returns the
// number deleted.
func (s *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audit_log WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit entries: %w", err)
	}
	return res.RowsAffected()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
