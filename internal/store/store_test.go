package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Simplici0/webquote/internal/answers"
	"github.com/Simplici0/webquote/internal/db"
	"github.com/Simplici0/webquote/internal/estimate"
	"github.com/Simplici0/webquote/internal/migrations"
	"github.com/Simplici0/webquote/internal/pricing"
)

func TestListOrdersByDateDescAndReadsTotals(t *testing.T) {
	st := New(newTestDB(t))

	seedEstimate(t, st, "a", "2024-01-01T10:00:00Z", "Primera", "nota uno", 100.50)
	seedEstimate(t, st, "c", "2024-01-03T12:00:00Z", "Tercera", "nota tres", 300.00)
	seedEstimate(t, st, "b", "2024-01-02T11:00:00Z", "Segunda", "nota dos", 200.25)

	items, err := st.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 estimates, got %d", len(items))
	}
	if items[0].Title != "Tercera" || items[1].Title != "Segunda" || items[2].Title != "Primera" {
		t.Fatalf("estimates are not sorted desc by created_at: %+v", items)
	}
	if items[0].TotalCost != 300.00 || items[1].TotalCost != 200.25 || items[2].TotalCost != 100.50 {
		t.Fatalf("unexpected totals: %+v", items)
	}
	if !items[0].CreatedAt.Equal(time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected created_at: %v", items[0].CreatedAt)
	}
}

func TestListFiltersByTitleAndNotes(t *testing.T) {
	st := New(newTestDB(t))

	seedEstimate(t, st, "a", "2024-01-01T10:00:00Z", "Bakery site", "needs booking", 80)
	seedEstimate(t, st, "b", "2024-01-02T10:00:00Z", "Portfolio", "client vip", 120)
	seedEstimate(t, st, "c", "2024-01-03T10:00:00Z", "Prototype", "urgent for the bakery", 160)

	byTitle, err := st.List(context.Background(), "Portf")
	if err != nil {
		t.Fatalf("List title filter returned error: %v", err)
	}
	if len(byTitle) != 1 || byTitle[0].Title != "Portfolio" {
		t.Fatalf("expected 1 estimate filtered by title, got %+v", byTitle)
	}

	byNotes, err := st.List(context.Background(), " bakery ")
	if err != nil {
		t.Fatalf("List notes filter returned error: %v", err)
	}
	if len(byNotes) != 2 {
		t.Fatalf("expected 2 estimates filtered by notes/title, got %+v", byNotes)
	}
}

func TestGetReturnsStoredSnapshot(t *testing.T) {
	st := New(newTestDB(t))
	seedEstimate(t, st, "est-1", "2024-02-01T09:30:00Z", "Shop", "", 4200)

	got, err := st.Get(context.Background(), "est-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Title != "Shop" || got.Result == nil || got.Result.TotalCost != 4200 {
		t.Fatalf("unexpected estimate: %+v", got)
	}
	if got.Result.PaymentPlan == nil || len(got.Result.PaymentPlan.Milestones) != 2 {
		t.Fatalf("payment plan not restored: %+v", got.Result.PaymentPlan)
	}
	if got.Answers.String("project_type", "") != "ecommerce" {
		t.Fatalf("answers not restored: %+v", got.Answers)
	}

	_, err = st.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestSaveRejectsDuplicateID(t *testing.T) {
	st := New(newTestDB(t))
	seedEstimate(t, st, "dup", "2024-02-01T09:30:00Z", "One", "", 10)

	err := st.Save(context.Background(), newEstimate("dup", "2024-02-02T09:30:00Z", "Two", "", 20))
	if err == nil {
		t.Fatalf("expected duplicate id to fail")
	}
	if err := st.Save(context.Background(), &estimate.Estimate{ID: "empty"}); err == nil {
		t.Fatalf("expected estimate without result to fail")
	}
}

func TestTeamRolesReturnsActiveOnly(t *testing.T) {
	conn := newTestDB(t)
	st := New(conn)

	_, err := conn.Exec(`
		INSERT INTO team_roles (id, name, hourly_cost, allocation, active)
		VALUES
			('developer', 'Developer', 70, 0.6, 1),
			('designer', 'Designer', 60, 0.4, 1),
			('intern', 'Intern', 20, 0.1, 0)
	`)
	if err != nil {
		t.Fatalf("failed to seed roles: %v", err)
	}

	roles, err := st.TeamRoles(context.Background())
	if err != nil {
		t.Fatalf("TeamRoles returned error: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected 2 active roles, got %+v", roles)
	}
	if roles[0].ID != "designer" || roles[1].ID != "developer" {
		t.Fatalf("roles not ordered by id: %+v", roles)
	}
	if roles[1].HourlyCost != 70 || roles[1].Allocation != 0.6 {
		t.Fatalf("unexpected developer role: %+v", roles[1])
	}
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})

	if err := migrations.Up(context.Background(), conn); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return conn
}

func newEstimate(id, createdAt, title, notes string, total float64) *estimate.Estimate {
	ts, _ := time.Parse(time.RFC3339, createdAt)
	return &estimate.Estimate{
		ID:        id,
		CreatedAt: ts,
		Title:     title,
		Notes:     notes,
		Answers:   answers.Record{"project_type": "ecommerce"},
		Result: &pricing.Result{
			ProjectType: "ecommerce",
			Tier:        "standard",
			Currency:    "USD",
			TotalHours:  total / 100,
			TotalCost:   total,
			PaymentPlan: &pricing.PaymentPlan{
				Template: "50/50",
				Total:    total,
				Milestones: []pricing.Milestone{
					{ID: "kickoff", Percent: 50, Amount: total / 2},
					{ID: "launch", Percent: 50, Amount: total / 2},
				},
			},
		},
	}
}

func seedEstimate(t *testing.T, st *Store, id, createdAt, title, notes string, total float64) {
	t.Helper()

	if err := st.Save(context.Background(), newEstimate(id, createdAt, title, notes, total)); err != nil {
		t.Fatalf("failed to seed estimate: %v", err)
	}
}
