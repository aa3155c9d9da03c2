package seed

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Simplici0/webquote/internal/teamrates"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run copies the team roles of cfg into the team_roles table in an
// idempotent way. Missing roles are inserted and roles whose name, cost or
// allocation changed are updated.
func Run(db *sql.DB, cfg teamrates.Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	for _, role := range cfg.Roles {
		if err := ensureRole(tx, role, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureRole(tx *sql.Tx, role teamrates.Role, stats *Stats) error {
	var (
		name       string
		hourlyCost float64
		allocation float64
	)
	err := tx.QueryRow(`
		SELECT name, hourly_cost, allocation
		FROM team_roles
		WHERE id = ?
	`, role.ID).Scan(&name, &hourlyCost, &allocation)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.Exec(`
			INSERT INTO team_roles (id, name, hourly_cost, allocation, active)
			VALUES (?, ?, ?, ?, ?)
		`, role.ID, role.Name, role.HourlyCost, role.Allocation, true); err != nil {
			return fmt.Errorf("insert team role %q: %w", role.ID, err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check team role %q: %w", role.ID, err)
	}

	if name == role.Name && hourlyCost == role.HourlyCost && allocation == role.Allocation {
		return nil
	}

	if _, err := tx.Exec(`
		UPDATE team_roles
		SET name = ?, hourly_cost = ?, allocation = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, role.Name, role.HourlyCost, role.Allocation, role.ID); err != nil {
		return fmt.Errorf("update team role %q: %w", role.ID, err)
	}
	stats.Updates++
	return nil
}
