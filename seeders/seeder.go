package seeders

import (
	"context"
	"fmt"

	"maintenance-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Seeder loads reference data. Every step is idempotent: rows matched by
// their natural key are left untouched.
type Seeder struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func New(db *pgxpool.Pool, logger *zap.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// SeedCatalog fills teams and categories.
func (s *Seeder) SeedCatalog(ctx context.Context, d *Data) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for _, t := range d.Teams {
			if _, err := tx.Exec(ctx,
				`INSERT INTO teams (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
				t.Name, t.Description); err != nil {
				return fmt.Errorf("team %q: %w", t.Name, err)
			}
		}
		for _, c := range d.Categories {
			if _, err := tx.Exec(ctx,
				`INSERT INTO categories (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
				c.Name, c.Description); err != nil {
				return fmt.Errorf("category %q: %w", c.Name, err)
			}
		}
		s.logger.Info("catalog seeded", zap.Int("teams", len(d.Teams)), zap.Int("categories", len(d.Categories)))
		return nil
	})
}

// SeedUsers creates the accounts. Passwords of existing users are never reset.
func (s *Seeder) SeedUsers(ctx context.Context, d *Data) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		teams, err := idsByColumn(ctx, tx, "teams", "name")
		if err != nil {
			return err
		}
		for _, u := range d.Users {
			hash, err := utils.HashPassword(u.Password)
			if err != nil {
				return err
			}
			var teamID *uint64
			if u.Team != "" {
				id, ok := teams[u.Team]
				if !ok {
					return fmt.Errorf("user %q: team %q is not seeded", u.Username, u.Team)
				}
				teamID = &id
			}
			tag, err := tx.Exec(ctx,
				`INSERT INTO users (username, email, password_hash, role, department, team_id)
				 VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (username) DO NOTHING`,
				u.Username, u.Email, hash, u.Role, u.Department, teamID)
			if err != nil {
				return fmt.Errorf("user %q: %w", u.Username, err)
			}
			if tag.RowsAffected() == 0 {
				s.logger.Info("user already exists, skipping", zap.String("username", u.Username))
			}
		}
		return nil
	})
}

// SeedAssets creates equipment and work centers. It needs catalog and users first.
func (s *Seeder) SeedAssets(ctx context.Context, d *Data) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		teams, err := idsByColumn(ctx, tx, "teams", "name")
		if err != nil {
			return err
		}
		categories, err := idsByColumn(ctx, tx, "categories", "name")
		if err != nil {
			return err
		}
		users, err := idsByColumn(ctx, tx, "users", "username")
		if err != nil {
			return err
		}

		for _, e := range d.Equipment {
			teamID, ok := teams[e.Team]
			if !ok {
				return fmt.Errorf("equipment %q: team %q is not seeded", e.Name, e.Team)
			}
			techID, ok := users[e.Technician]
			if !ok {
				return fmt.Errorf("equipment %q: technician %q is not seeded", e.Name, e.Technician)
			}
			var categoryID *uint64
			if id, ok := categories[e.Category]; ok {
				categoryID = &id
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO equipment (name, serial_number, category_id, department, location, default_team_id, default_technician_id)
				 VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (serial_number) DO NOTHING`,
				e.Name, e.SerialNumber, categoryID, e.Department, e.Location, teamID, techID); err != nil {
				return fmt.Errorf("equipment %q: %w", e.Name, err)
			}
		}

		for _, wc := range d.WorkCenters {
			if _, err := tx.Exec(ctx,
				`INSERT INTO work_centers (name, code, department, location, capacity, cost_per_hour, oee_target)
				 VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (code) DO NOTHING`,
				wc.Name, wc.Code, wc.Department, wc.Location, wc.Capacity, wc.CostPerHour, wc.OEETarget); err != nil {
				return fmt.Errorf("work center %q: %w", wc.Code, err)
			}
		}
		s.logger.Info("assets seeded", zap.Int("equipment", len(d.Equipment)), zap.Int("work_centers", len(d.WorkCenters)))
		return nil
	})
}

// SeedAll runs every step in dependency order.
func (s *Seeder) SeedAll(ctx context.Context, d *Data) error {
	if err := s.SeedCatalog(ctx, d); err != nil {
		return err
	}
	if err := s.SeedUsers(ctx, d); err != nil {
		return err
	}
	return s.SeedAssets(ctx, d)
}

func idsByColumn(ctx context.Context, tx pgx.Tx, table, column string) (map[string]uint64, error) {
	rows, err := tx.Query(ctx, fmt.Sprintf("SELECT id, %s FROM %s", column, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]uint64)
	for rows.Next() {
		var (
			id  uint64
			key string
		)
		if err := rows.Scan(&id, &key); err != nil {
			return nil, err
		}
		out[key] = id
	}
	return out, rows.Err()
}
