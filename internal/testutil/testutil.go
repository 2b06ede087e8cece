package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/resumeforge/resumeforge/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// DropSchema removes every application table and the migration bookkeeping
// so the next Migrate call starts from an empty database.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		DROP TABLE IF EXISTS
			certifications, projects, skills, educations, experiences,
			resumes, users, schema_migrations
		CASCADE
	`)
	if err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// NewRedisClient connects to REDIS_URL or skips the test.
func NewRedisClient(t testing.TB) *redis.Client {
	t.Helper()
	opts, err := redis.ParseURL(RequireEnv(t, "REDIS_URL"))
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping redis: %v", err)
	}
	return client
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a test user with sensible defaults.
// The password hash is a placeholder and will not verify.
func NewTestUser(t testing.TB, username string) *model.User {
	t.Helper()
	return &model.User{
		ID:           UniqueID("user"),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

// NewTestResume creates a resume detail with one record in every section.
// IDs are left empty; call AssignIDs before inserting.
func NewTestResume(t testing.TB, userID, title string) *model.ResumeDetail {
	t.Helper()
	return &model.ResumeDetail{
		Resume: model.Resume{
			UserID:    userID,
			Title:     title,
			FullName:  "Ada Lovelace",
			Email:     "ada@example.com",
			Phone:     "555-0100",
			Summary:   "Analyst of engines.",
			CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		},
		Skills: []model.Skill{{Name: "Go"}, {Name: "SQL"}, {Name: "Mathematics"}},
		Education: []model.Education{
			{Institution: "University of London", Degree: "Mathematics", Year: "1843"},
		},
		Experience: []model.Experience{
			{Company: "Analytical Engine Co", Role: "Programmer", StartDate: "1842", EndDate: "1843", Description: "Wrote the first program."},
		},
		Projects: []model.Project{
			{Title: "Note G", Description: "Bernoulli numbers."},
		},
		Certifications: []model.Certification{
			{Name: "Royal Society Fellow", Issuer: "Royal Society"},
		},
	}
}

var seq atomic.Int64

// UniqueName generates a unique username for tests.
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s%d_%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), seq.Add(1))
}
