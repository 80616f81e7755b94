package repositories_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"webservicepoc/src/helper/env"
	"webservicepoc/src/infra/postgres"
	"webservicepoc/src/repositories"
	"webservicepoc/src/test_artefacts/comparer"
	"webservicepoc/src/test_artefacts/stubs"
	"webservicepoc/src/test_artefacts/test_seeder"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres specs need TEST_DB_HOST, TEST_DB_NAME, TEST_DB_USER and
// TEST_DB_PASSWORD; they are skipped otherwise.
func newTestPool() *pgxpool.Pool {
	pool, err := postgres.NewPostgresClient(
		env.MustGetString("TEST_DB_HOST"),
		env.GetString("TEST_DB_PORT", "5432"),
		env.MustGetString("TEST_DB_NAME"),
		env.MustGetString("TEST_DB_USER"),
		env.MustGetString("TEST_DB_PASSWORD"),
		env.GetInt("TEST_DB_MAX_POOL_CONNECTIONS", 5),
	)
	Expect(err).NotTo(HaveOccurred())
	Expect(postgres.EnsureSchema(context.Background(), pool, postgres.PostsTable, postgres.UsersTable)).To(Succeed())
	return pool
}

var _ = Describe("PostsRepository", Ordered, func() {
	var pool *pgxpool.Pool

	BeforeAll(func() {
		if !env.IsSet("TEST_DB_HOST") {
			Skip("TEST_DB_HOST not set")
		}
		pool = newTestPool()
		test_seeder.New(pool).TruncateTables(context.Background())
	})

	AfterAll(func() {
		if pool != nil {
			pool.Close()
		}
	})

	itBehavesLikeAPostsStore(func() repositories.PostsStore {
		return repositories.NewPostsRepository(pool)
	})

	It("reads rows written outside the repository", func() {
		ctx := context.Background()
		seeder := test_seeder.New(pool)
		created := time.Now().UTC().Add(-time.Hour)
		posts := stubs.NewPostsStub().WithDates(created, created).Get()
		seeder.InsertPosts(ctx, &posts)

		loaded, err := repositories.NewPostsRepository(pool).FindByID(ctx, posts.ID)

		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(BeComparableTo(posts, comparer.TimeWithinTolerance(200)))
	})
})
