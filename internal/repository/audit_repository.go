package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/iliyamo/workspace-booking/internal/model"
)

// AuditRepo appends to audit_logs.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns a new AuditRepo bound to the given database.
func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// Append inserts one audit entry.
func (r *AuditRepo) Append(ctx context.Context, e model.AuditEntry) error {
	var meta any
	if len(e.Metadata) > 0 {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		meta = string(raw)
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO audit_logs (id, action_type, actor_type, performed_by,
		target_type, target_id, description, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActionType, e.ActorType, nullableString(e.PerformedBy), e.TargetType, e.TargetID,
		e.Description, meta, ts(e.CreatedAt))
	return err
}

// CountForTarget counts entries about one target.
func (r *AuditRepo) CountForTarget(ctx context.Context, targetType, targetID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs WHERE target_type = ? AND target_id = ?`,
		targetType, targetID).Scan(&n)
	return n, err
}
