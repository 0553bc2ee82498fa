// cmd/migrate/main.go
// Migrates data from the legacy mobile-backend MySQL database into the local
// PostgreSQL database.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/golfapp?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/fairwaylog/caddieapi/config"
	bundb "github.com/fairwaylog/caddieapi/db"
	"github.com/fairwaylog/caddieapi/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/golfapp?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	// Disable FK enforcement so we can load in bulk without strict ordering
	if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'replica'"); err != nil {
		log.Fatalf("disable FK: %v", err)
	}
	defer func() {
		if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'origin'"); err != nil {
			log.Printf("re-enable FK: %v", err)
		}
	}()

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"profiles", func() (int, error) { return migrateProfiles(ctx, myDB, pgDB) }},
		{"courses", func() (int, error) { return migrateCourses(ctx, myDB, pgDB) }},
		{"rounds", func() (int, error) { return migrateRounds(ctx, myDB, pgDB) }},
		{"shots", func() (int, error) { return migrateShots(ctx, myDB, pgDB) }},
		{"user_permissions", func() (int, error) { return migratePermissions(ctx, myDB, pgDB) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-16s  %d rows migrated", s.name, n)
	}

	resetSequences(ctx, pgDB)
	log.Println("migration complete")
}

// --- helpers ---

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullStr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return &n.Float64
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pgDB *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

// --- per-table migrations ---

func migrateProfiles(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, username, password, handicap, created_at FROM users")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Profile
	total := 0
	for rows.Next() {
		var r models.Profile
		var hc sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.Username, &r.Password, &hc, &r.CreatedAt); err != nil {
			return total, err
		}
		r.Handicap = nullFloat(hc)
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateCourses(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, name, par, location, holes, layout FROM courses")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Course
	total := 0
	for rows.Next() {
		var r models.Course
		var par sql.NullInt64
		var loc, layout sql.NullString
		if err := rows.Scan(&r.CourseID, &r.Name, &par, &loc, &r.Holes, &layout); err != nil {
			return total, err
		}
		r.Par = nullInt(par)
		r.Location = nullStr(loc)
		if layout.Valid {
			r.Layout = []byte(layout.String)
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateRounds(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT id, user_id, course_id, tee_id, tee_name, completed, total_shots, score, created_at FROM rounds")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Round
	total := 0
	for rows.Next() {
		var r models.Round
		var teeID, teeName sql.NullString
		var totalShots, score sql.NullInt64
		if err := rows.Scan(&r.ID, &r.ProfileID, &r.CourseID, &teeID, &teeName,
			&r.Completed, &totalShots, &score, &r.CreatedAt); err != nil {
			return total, err
		}
		r.TeeID = nullStr(teeID)
		r.TeeName = nullStr(teeName)
		r.TotalShots = nullInt(totalShots)
		r.Score = nullInt(score)
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateShots(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT round_id, hole_number, hole_data, total_shots FROM round_holes")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.HoleRecord
	total := 0
	for rows.Next() {
		var r models.HoleRecord
		var data string
		if err := rows.Scan(&r.RoundID, &r.HoleNumber, &data, &r.TotalShots); err != nil {
			return total, err
		}
		r.HoleData = []byte(data)
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migratePermissions(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT user_id, product_id, active FROM entitlements")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Permission
	total := 0
	for rows.Next() {
		var r models.Permission
		if err := rows.Scan(&r.ProfileID, &r.ProductID, &r.Active); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func resetSequences(ctx context.Context, pgDB *bun.DB) {
	seqs := []string{
		"SELECT setval(pg_get_serial_sequence('courses', 'course_id'), COALESCE(MAX(course_id), 1)) FROM courses",
		"SELECT setval(pg_get_serial_sequence('shots', 'id'), COALESCE(MAX(id), 1)) FROM shots",
		"SELECT setval(pg_get_serial_sequence('user_permissions', 'id'), COALESCE(MAX(id), 1)) FROM user_permissions",
	}
	for _, stmt := range seqs {
		if _, err := pgDB.ExecContext(ctx, stmt); err != nil {
			log.Printf("reset sequence: %v", err)
		}
	}
}
