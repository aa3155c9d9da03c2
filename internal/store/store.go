// Package store persists estimates and team roles in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Simplici0/webquote/internal/estimate"
	"github.com/Simplici0/webquote/internal/teamrates"
)

// ErrNotFound is returned when an estimate does not exist.
var ErrNotFound = errors.New("estimate not found")

const timeLayout = "2006-01-02 15:04:05"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Summary is one row of the estimate list.
type Summary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Title       string    `json:"title"`
	ProjectType string    `json:"project_type"`
	Tier        string    `json:"tier"`
	Currency    string    `json:"currency"`
	TotalHours  float64   `json:"total_hours"`
	TotalCost   float64   `json:"total_cost"`
}

// Save stores e with a JSON snapshot of the whole estimate, so reads never
// recalculate.
func (s *Store) Save(ctx context.Context, e *estimate.Estimate) error {
	if e == nil || e.Result == nil {
		return fmt.Errorf("save estimate: missing result")
	}
	snapshot, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode estimate snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO estimates (
			id, created_at, title, notes, project_type, tier, currency, total_hours, total_cost, snapshot_json
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.CreatedAt.UTC().Format(timeLayout),
		e.Title,
		e.Notes,
		e.Result.ProjectType,
		e.Result.Tier,
		e.Result.Currency,
		e.Result.TotalHours,
		e.Result.TotalCost,
		string(snapshot),
	)
	if err != nil {
		return fmt.Errorf("insert estimate: %w", err)
	}
	return nil
}

// Get loads the snapshot of estimate id.
func (s *Store) Get(ctx context.Context, id string) (*estimate.Estimate, error) {
	var snapshot string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot_json FROM estimates WHERE id = ?`, id).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query estimate: %w", err)
	}

	var e estimate.Estimate
	if err := json.Unmarshal([]byte(snapshot), &e); err != nil {
		return nil, fmt.Errorf("decode estimate snapshot: %w", err)
	}
	return &e, nil
}

// List returns estimates newest first. A non-empty query filters on title
// and notes.
func (s *Store) List(ctx context.Context, query string) ([]Summary, error) {
	query = strings.TrimSpace(query)
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id,
			created_at,
			COALESCE(title, ''),
			project_type,
			tier,
			currency,
			total_hours,
			total_cost
		FROM estimates
		WHERE (? = '' OR COALESCE(title, '') LIKE ? OR COALESCE(notes, '') LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search)
	if err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var item Summary
		var createdAt string
		if err := rows.Scan(&item.ID, &createdAt, &item.Title, &item.ProjectType, &item.Tier, &item.Currency, &item.TotalHours, &item.TotalCost); err != nil {
			return nil, fmt.Errorf("scan estimate: %w", err)
		}
		item.CreatedAt = parseTime(createdAt)
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TeamRoles returns the active persisted roles.
func (s *Store) TeamRoles(ctx context.Context) ([]teamrates.Role, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, hourly_cost, allocation
		FROM team_roles
		WHERE active = 1
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list team roles: %w", err)
	}
	defer rows.Close()

	roles := make([]teamrates.Role, 0)
	for rows.Next() {
		var r teamrates.Role
		if err := rows.Scan(&r.ID, &r.Name, &r.HourlyCost, &r.Allocation); err != nil {
			return nil, fmt.Errorf("scan team role: %w", err)
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

func parseTime(raw string) time.Time {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
