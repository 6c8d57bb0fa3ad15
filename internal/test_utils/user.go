package test_utils

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/kantong/kantong/pkg/user"
)

// SeedTestUser inserts a user row and returns a context carrying it,
// ready to be passed to services in repository tests.
func SeedTestUser(t *testing.T, db *sql.DB) (context.Context, user.User) {
	t.Helper()

	testUser := user.User{
		Uid:         uuid.New().String(),
		Username:    "test_user",
		DisplayName: "Test User",
	}
	result, err := db.Exec(
		"INSERT INTO users (uid, username, display_name) VALUES (?, ?, ?)",
		testUser.Uid, testUser.Username, testUser.DisplayName,
	)
	if err != nil {
		t.Fatalf("Failed to insert test user: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read test user id: %v", err)
	}
	testUser.Id = int(id)

	return user.WithUser(context.Background(), testUser), testUser
}
