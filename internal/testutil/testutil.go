package testutil

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/google/uuid"

	"vwds/internal/auth"
	"vwds/internal/models"
	"vwds/pkg/database"
)

const TestSecret = "test-secret"

// OpenDB opens a private in-memory SQLite database with migrations
// applied. It is closed when the test ends.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()
	name := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, t.Name()) + "_" + uuid.NewString()[:8]
	d, err := database.OpenDSN(context.Background(), "sqlite3",
		"file:"+name+"?mode=memory&cache=shared&_foreign_keys=on")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// SeedUser inserts a user with a bcrypt hash of password.
func SeedUser(t *testing.T, db *sql.DB, username string, role models.Role, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{Username: username, Email: username + "@example.com", PasswordHash: hash, Role: role}
	err = db.QueryRow(`INSERT INTO users (username, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id`,
		u.Username, u.Email, u.PasswordHash, string(u.Role)).Scan(&u.ID)
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func SeedVehicle(t *testing.T, db *sql.DB, plate, vehicleType string, weight float64) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(`INSERT INTO vehicles (license_plate, type, weight) VALUES ($1, $2, $3) RETURNING id`,
		plate, vehicleType, weight).Scan(&id)
	if err != nil {
		t.Fatalf("seed vehicle %s: %v", plate, err)
	}
	return id
}

func SeedRoute(t *testing.T, db *sql.DB, name string, length, restriction float64) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(`INSERT INTO routes (name, length, weight_restriction) VALUES ($1, $2, $3) RETURNING id`,
		name, length, restriction).Scan(&id)
	if err != nil {
		t.Fatalf("seed route %s: %v", name, err)
	}
	return id
}

// CountRows returns SELECT COUNT(*) for table.
func CountRows(t *testing.T, db *sql.DB, table string) int64 {
	t.Helper()
	var n int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// Token issues a session token for u.
func Token(t *testing.T, tm *auth.TokenManager, u *models.User) string {
	t.Helper()
	tok, _, err := tm.Issue(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}
