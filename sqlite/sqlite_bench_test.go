package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/sitecrawl"
	"github.com/fwojciec/sitecrawl/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkCreateSession measures archiving a full-size crawl report.
func BenchmarkCreateSession(b *testing.B) {
	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkCreateSession(b, false, sitecrawl.DefaultMaxPages)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkCreateSession(b, true, sitecrawl.DefaultMaxPages)
	})
}

func benchmarkCreateSession(b *testing.B, useWAL bool, resultsPerCrawl int) {
	b.Helper()

	dbPath := filepath.Join(b.TempDir(), "bench.db")
	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())

	ctx := context.Background()
	if !useWAL {
		_, err := db.ExecContext(ctx, "PRAGMA journal_mode = DELETE")
		require.NoError(b, err)
	}

	defer func() {
		db.Close()
		// Clean up WAL files if they exist
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	results := make([]sitecrawl.Result, resultsPerCrawl)
	for i := range results {
		results[i] = sitecrawl.Result{
			URL:         fmt.Sprintf("https://example.com/page%d", i),
			Outcome:     200,
			ContentHash: fmt.Sprintf("%016x", i),
			Bytes:       4096,
		}
	}

	svc := sqlite.NewSessionService(db)

	// Reset timer to exclude setup time
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		now := time.Now()
		session := &sitecrawl.Session{
			StartURL:   "https://example.com/",
			Config:     sitecrawl.DefaultConfig(),
			StartedAt:  now,
			FinishedAt: now,
		}
		if err := svc.CreateSession(ctx, session, results); err != nil {
			b.Fatal(err)
		}
	}
}
