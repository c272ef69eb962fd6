package tickets

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/triage/internal/workflow"
	"github.com/JaimeStill/triage/pkg/pagination"
	"github.com/JaimeStill/triage/pkg/query"
	"github.com/JaimeStill/triage/pkg/repository"
)

type repo struct {
	db         *sql.DB
	rt         *workflow.Runtime
	logger     *slog.Logger
	pagination pagination.Config
	maxBody    int64
}

// New creates a ticket repository implementing the System interface.
// Tickets are processed with rt before their outcome is stored.
func New(
	db *sql.DB,
	rt *workflow.Runtime,
	logger *slog.Logger,
	pagination pagination.Config,
	maxBody int64,
) System {
	return &repo{
		db:         db,
		rt:         rt,
		logger:     logger.With("system", "tickets"),
		pagination: pagination,
		maxBody:    maxBody,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination, r.maxBody)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Ticket], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Subject", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanTicket)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTicket)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

// Process runs the ticket through the pipeline and stores the outcome.
// Pipeline failures are returned without storing anything. A failed insert
// is logged and the unstored outcome is returned, so a database outage does
// not discard a completed answer.
func (r *repo) Process(ctx context.Context, cmd ProcessCommand) (*Ticket, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result, err := workflow.Execute(ctx, r.rt, cmd.Subject, cmd.Description)
	if err != nil {
		return nil, fmt.Errorf("process ticket: %w", err)
	}

	t := fromResult(cmd, result)

	saved, err := r.store(ctx, t)
	if err != nil {
		r.logger.Warn("ticket not stored",
			"error", err,
			"category", t.Category,
			"status", t.Status,
		)
		t.CreatedAt = time.Now().UTC()
		return &t, nil
	}

	r.logger.Info("ticket processed",
		"id", saved.ID,
		"category", saved.Category,
		"status", saved.Status,
		"attempts_used", saved.AttemptsUsed,
	)
	return &saved, nil
}

func (r *repo) store(ctx context.Context, t Ticket) (Ticket, error) {
	if r.db == nil {
		return Ticket{}, ErrUnavailable
	}

	contextJSON, err := json.Marshal(t.RetrievedContext)
	if err != nil {
		return Ticket{}, fmt.Errorf("marshal retrieved_context: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO %s (
			subject, description, category, status, response, draft,
			review_result, retrieved_context, retry_count, attempts_used,
			escalation_reason, duration_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		%s`, projection.Table(), returning)

	args := []any{
		t.Subject,
		t.Description,
		string(t.Category),
		string(t.Status),
		t.Response,
		t.Draft,
		t.ReviewResult,
		contextJSON,
		t.RetryCount,
		t.AttemptsUsed,
		t.EscalationReason,
		t.DurationMS,
	}

	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Ticket, error) {
		return repository.QueryOne(ctx, tx, q, args, scanTicket)
	})
	if err != nil {
		return Ticket{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return saved, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id = $1", projection.Table())

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("ticket deleted", "id", id)
	return nil
}
