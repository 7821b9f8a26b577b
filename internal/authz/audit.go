package authz

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-admin/pkg/logger"
	"github.com/clinicore/clinic-admin/pkg/rbac"
)

// AuditStore persists audit entries. The Postgres implementation lives in
// internal/audit.
type AuditStore interface {
	Insert(ctx context.Context, entry *rbac.AuditEntry) error
}

// AuditRecorder queues audit entries and writes them in the background.
// Writes are best-effort: failures are logged and dropped, never surfaced
// to the request that produced them.
type AuditRecorder struct {
	store  AuditStore
	logger *logger.Logger
	queue  chan rbac.AuditEntry

	closeOnce sync.Once
	done      chan struct{}
}

// NewAuditRecorder starts a recorder draining into the given store.
func NewAuditRecorder(store AuditStore, log *logger.Logger, queueSize int) *AuditRecorder {
	if queueSize <= 0 {
		queueSize = 1000
	}
	r := &AuditRecorder{
		store:  store,
		logger: log,
		queue:  make(chan rbac.AuditEntry, queueSize),
		done:   make(chan struct{}),
	}
	go r.drain()
	return r
}

// Record enqueues an audit entry. It never blocks the request path: when
// the queue is full the entry is dropped and counted.
func (r *AuditRecorder) Record(entry rbac.AuditEntry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	select {
	case r.queue <- entry:
	default:
		recordAuditDrop()
		r.logger.WithFields(map[string]interface{}{
			"user_id":  entry.UserID,
			"resource": entry.Resource,
			"action":   entry.Action,
		}).Warn("Audit queue full, entry dropped")
	}
}

func (r *AuditRecorder) drain() {
	defer close(r.done)
	for entry := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.store.Insert(ctx, &entry); err != nil {
			r.logger.WithError(err).WithFields(map[string]interface{}{
				"audit_id": entry.ID,
				"user_id":  entry.UserID,
			}).Error("Failed to write audit entry")
		}
		cancel()
	}
}

// QueueDepth returns the number of entries waiting to be written.
func (r *AuditRecorder) QueueDepth() int {
	return len(r.queue)
}

// QueueCapacity returns the size of the audit queue.
func (r *AuditRecorder) QueueCapacity() int {
	return cap(r.queue)
}

// Close stops the recorder after draining queued entries.
func (r *AuditRecorder) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
	})
	<-r.done
}
