//go:build seed_posts
// +build seed_posts

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"webservicepoc/src/domain/entities"
	"webservicepoc/src/helper/env"
	"webservicepoc/src/infra/postgres"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-faker/faker/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func newSQLClient() (*pgxpool.Pool, error) {
	dbHost := env.MustGetString("DB_HOST")
	dbPort := env.GetString("DB_PORT", "5432")
	dbname := env.MustGetString("DB_NAME")
	dbUser := env.MustGetString("DB_USER")
	dbPassword := env.MustGetString("DB_PASSWORD")
	maxConnections := 32
	return postgres.NewPostgresClient(dbHost, dbPort, dbname, dbUser, dbPassword, maxConnections)
}

func main() {
	numPosts := flag.Int("posts", 10000, "Número de posts a serem criados. Use -1 para infinito.")
	bulkSize := flag.Int("bulk-size", 1000, "Posts por COPY")
	numConsumers := flag.Int("consumers", 4, "Goroutines escrevendo no banco")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := newSQLClient()
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db, postgres.PostsTable, postgres.UsersTable); err != nil {
		log.Fatalf("Schema check failed: %v", err)
	}

	dataChan := make(chan entities.Posts, (*bulkSize)*(*numConsumers)*2)

	var wg sync.WaitGroup
	var totalProcessed, totalErrors int64
	startTime := time.Now()

	// Métricas a cada 2 segundos
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				processed := atomic.LoadInt64(&totalProcessed)
				elapsed := time.Since(startTime)
				fmt.Printf("Processed: %d | Errors: %d | Rate: %.1f/s | Elapsed: %v\n",
					processed, atomic.LoadInt64(&totalErrors), float64(processed)/elapsed.Seconds(), elapsed.Round(time.Second))
			}
		}
	}()

	for i := 0; i < *numConsumers; i++ {
		wg.Add(1)
		go consumer(ctx, &wg, db, dataChan, *bulkSize, i+1, &totalProcessed, &totalErrors)
	}

	wg.Add(1)
	go producer(ctx, &wg, dataChan, *numPosts)

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutdown signal received, stopping...")
		cancel()
	}()

	wg.Wait()

	elapsed := time.Since(startTime)
	processed := atomic.LoadInt64(&totalProcessed)

	fmt.Printf("\nSeeding finished!\n")
	fmt.Printf("Total processed: %d\n", processed)
	fmt.Printf("Total errors: %d\n", atomic.LoadInt64(&totalErrors))
	fmt.Printf("Total time: %v\n", elapsed.Round(time.Second))
	fmt.Printf("Average rate: %.1f posts/s\n", float64(processed)/elapsed.Seconds())
}

func producer(ctx context.Context, wg *sync.WaitGroup, dataChan chan<- entities.Posts, numPosts int) {
	defer wg.Done()
	defer close(dataChan)

	isInfinite := numPosts == -1
	authors := make([]string, 50)
	for i := range authors {
		authors[i] = faker.Email()
	}

	for count := 0; isInfinite || count < numPosts; count++ {
		posts := entities.NewPostsBuilder().
			Title(gofakeit.Sentence(gofakeit.Number(3, 12))).
			Content(gofakeit.Paragraph(gofakeit.Number(1, 4), 4, 15, "\n\n")).
			Author(authors[gofakeit.Number(0, len(authors)-1)]).
			Build()

		if err := posts.Validate(); err != nil {
			continue
		}

		select {
		case dataChan <- posts:
		case <-ctx.Done():
			fmt.Println("Producer stopping.")
			return
		}
	}
}

func consumer(ctx context.Context, wg *sync.WaitGroup, db *pgxpool.Pool, dataChan <-chan entities.Posts, bulkSize, consumerID int, totalProcessed, totalErrors *int64) {
	defer wg.Done()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	batch := make([]entities.Posts, 0, bulkSize)

	flush := func(reason string) {
		if len(batch) == 0 {
			return
		}
		if err := copyPosts(ctx, db, batch); err != nil {
			log.Printf("Consumer %d: ERROR on %s: %v", consumerID, reason, err)
			atomic.AddInt64(totalErrors, 1)
		} else {
			atomic.AddInt64(totalProcessed, int64(len(batch)))
		}
		batch = make([]entities.Posts, 0, bulkSize)
	}

	for {
		select {
		case posts, ok := <-dataChan:
			if !ok {
				flush("final flush")
				return
			}
			batch = append(batch, posts)
			if len(batch) >= bulkSize {
				flush("bulk insert")
			}

		case <-ticker.C:
			flush("ticker flush")

		case <-ctx.Done():
			return
		}
	}
}

// copyPosts lets the database assign ids and audit columns.
func copyPosts(ctx context.Context, db *pgxpool.Pool, batch []entities.Posts) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	_, err := db.CopyFrom(ctx,
		pgx.Identifier{postgres.PostsTable.Name},
		[]string{"title", "content", "author"},
		pgx.CopyFromSlice(len(batch), func(i int) ([]any, error) {
			return []any{batch[i].Title, batch[i].Content, postgres.NullString(batch[i].Author)}, nil
		}),
	)
	return err
}
