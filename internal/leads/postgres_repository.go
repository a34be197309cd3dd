package leads

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores leads in the intake_leads table.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO intake_leads (id, session_id, full_name, email, main_goal, coaching_type, start_timeline, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING submitted_at
	`
	lead := &Lead{
		ID:            id.String(),
		SessionID:     req.SessionID,
		FullName:      req.FullName,
		Email:         req.Email,
		MainGoal:      req.MainGoal,
		CoachingType:  req.CoachingType,
		StartTimeline: req.StartTimeline,
	}
	if err := r.db.QueryRow(ctx, query,
		id,
		req.SessionID,
		req.FullName,
		req.Email,
		req.MainGoal,
		req.CoachingType,
		req.StartTimeline,
		req.submittedAt(),
	).Scan(&lead.SubmittedAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}
	return lead, nil
}

const leadColumns = `id::text, session_id, full_name, email, main_goal, coaching_type, start_timeline, submitted_at`

// GetByID fetches one lead.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrLeadNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+leadColumns+` FROM intake_leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List returns leads newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+leadColumns+` FROM intake_leads ORDER BY submitted_at DESC, id DESC LIMIT $1 OFFSET $2`,
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	out := []*Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	return out, nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.SessionID,
		&lead.FullName,
		&lead.Email,
		&lead.MainGoal,
		&lead.CoachingType,
		&lead.StartTimeline,
		&lead.SubmittedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
