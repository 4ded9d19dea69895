package service

import (
	"context"
	"encoding/json"
	"fmt"

	"backoffice/internal/apperr"
	"backoffice/internal/authctx"
	"backoffice/internal/model"
	"backoffice/internal/obs"
	"backoffice/internal/repository"

	"github.com/google/uuid"
)

// workflow runs a unit of work in one transaction, counts its outcome and
// writes the audit trail through the same transaction.
type workflow struct {
	tx      repository.TransactionManager
	audit   repository.AuditRepository
	metrics *obs.Metrics
}

func newWorkflow(repos *repository.Repositories, metrics *obs.Metrics) workflow {
	return workflow{tx: repos.Tx, audit: repos.Audit, metrics: metrics}
}

func (w workflow) run(ctx context.Context, name string, fn func(txCtx context.Context) error) error {
	err := w.tx.RunInTx(ctx, fn)
	w.metrics.Workflow(name, err)
	return err
}

// record must be called with the transaction context.
func (w workflow) record(ctx context.Context, action string, entityID uuid.UUID, entityName string, details any) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode audit details: %w", err)
	}
	return w.audit.Log(ctx, &model.AuditLog{
		AccountID:  authctx.ActorID(ctx),
		Action:     action,
		EntityID:   entityID.String(),
		EntityName: entityName,
		Details:    string(raw),
	})
}

// notFound turns a missing row into a 404 naming what.
func notFound(err error, what string) error {
	if repository.IsNotFound(err) {
		return apperr.NewNotFoundError(what + " not found")
	}
	return err
}

// deleteConflict turns a referential integrity failure into a 409.
func deleteConflict(err error, what string) error {
	if repository.IsForeignKeyViolation(err) {
		return apperr.NewConflictError("Could not delete the " + what + ". It is referenced by other records.")
	}
	return notFound(err, what)
}

// uniqueField reports a unique violation on table.column as a field error, so a
// lost check-then-write race looks the same as the advisory check.
func uniqueField(err error, table, column, field, msg string) error {
	if repository.UniqueViolationOn(err, table, column) {
		return apperr.FieldError(field, msg)
	}
	return err
}

// ParseIDs keeps the distinct, well-formed ids of raw in order.
func ParseIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
