//go:build integration

package store

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"jobly/internal/auth"
	"jobly/internal/database"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("jobly_test"),
		postgres.WithUsername("jobly"),
		postgres.WithPassword("jobly"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		log.Printf("start postgres container: %v", err)
		return 1
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Printf("terminate container: %v", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Printf("connection string: %v", err)
		return 1
	}

	testPool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		log.Printf("open pool: %v", err)
		return 1
	}
	defer testPool.Close()

	if err := database.ApplySchema(ctx, testPool); err != nil {
		log.Printf("apply schema: %v", err)
		return 1
	}

	return m.Run()
}

// fixture mirrors the data every model test starts from.
type fixture struct {
	store  *Store
	jobIDs map[string]int
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	_, err := testPool.Exec(ctx, `TRUNCATE applications, jobs, users, companies RESTART IDENTITY`)
	require.NoError(t, err)

	_, err = testPool.Exec(ctx, `
		INSERT INTO companies (handle, name, num_employees, description, logo_url)
		VALUES ('c1', 'C1', 1, 'Desc1', 'http://c1.img'),
		       ('c2', 'C2', 2, 'Desc2', 'http://c2.img'),
		       ('c3', 'C3', 3, 'Desc3', 'http://c3.img')`)
	require.NoError(t, err)

	hasher, err := auth.NewAuthService("test-secret", time.Hour, bcrypt.MinCost)
	require.NoError(t, err)
	s := New(testPool, hasher)

	for _, u := range []NewUser{
		{Username: "u1", Password: "password1", FirstName: "U1F", LastName: "U1L", Email: "u1@email.com"},
		{Username: "u2", Password: "password2", FirstName: "U2F", LastName: "U2L", Email: "u2@email.com"},
	} {
		_, err := s.Users.Register(ctx, u)
		require.NoError(t, err)
	}

	ids := map[string]int{}
	rows, err := testPool.Query(ctx, `
		INSERT INTO jobs (title, salary, equity, company_handle)
		VALUES ('J1', 50000, '0', 'c1'),
		       ('J2', 60000, '0', 'c2'),
		       ('J3', 70000, NULL, 'c3'),
		       ('J4', 80000, '0.5', 'c1')
		RETURNING title, id`)
	require.NoError(t, err)
	for rows.Next() {
		var (
			title string
			id    int
		)
		require.NoError(t, rows.Scan(&title, &id))
		ids[title] = id
	}
	require.NoError(t, rows.Err())

	_, err = testPool.Exec(ctx,
		`INSERT INTO applications (username, job_id, state) VALUES ('u2', $1, 'applied'), ('u2', $2, 'interested')`,
		ids["J1"], ids["J2"])
	require.NoError(t, err)

	return fixture{store: s, jobIDs: ids}
}

func ptr[T any](v T) *T { return &v }
