package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/rfcli"
	"github.com/fwojciec/rfcli/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkCatalogUpsert compares one batched refresh against per-record upserts
// for a catalog the size of the RFC index.
func BenchmarkCatalogUpsert(b *testing.B) {
	const catalogSize = 1000

	b.Run("batched", func(b *testing.B) {
		benchmarkCatalogUpsert(b, catalogSize, true)
	})

	b.Run("per_record", func(b *testing.B) {
		benchmarkCatalogUpsert(b, catalogSize, false)
	})
}

func benchmarkCatalogUpsert(b *testing.B, size int, batched bool) {
	b.Helper()

	records := make([]*rfcli.Record, size)
	for i := range records {
		records[i] = &rfcli.Record{
			Number:   i + 1,
			Title:    fmt.Sprintf("Protocol Number %d", i+1),
			Date:     rfcli.PubDate{Year: 1990 + i%30, Month: time.Month(i%12 + 1)},
			Status:   rfcli.StatusInformational,
			Updates:  []int{i},
			Keywords: []string{"bench"},
		}
	}

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		db := sqlite.NewDB(filepath.Join(b.TempDir(), fmt.Sprintf("bench%d.db", i)))
		require.NoError(b, db.Open())
		svc := sqlite.NewCatalogService(db)
		ctx := context.Background()
		b.StartTimer()

		if batched {
			if err := svc.UpsertRecords(ctx, records); err != nil {
				b.Fatal(err)
			}
		} else {
			for _, r := range records {
				if err := svc.UpsertRecord(ctx, r); err != nil {
					b.Fatal(err)
				}
			}
		}

		b.StopTimer()
		db.Close()
	}
}

// BenchmarkCacheSaveEntry measures replacing a typical RFC body.
func BenchmarkCacheSaveEntry(b *testing.B) {
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	store := sqlite.NewCacheStore(db)
	ctx := context.Background()
	content := make([]byte, 64<<10)
	for i := range content {
		content[i] = byte('a' + i%26)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		now := time.Now().UTC()
		entry := &rfcli.CacheEntry{
			Number:     i%50 + 1,
			Kind:       rfcli.KindRaw,
			Content:    content,
			Hash:       rfcli.HashContent(content),
			Size:       int64(len(content)),
			CreatedAt:  now,
			AccessedAt: now,
		}
		if err := store.SaveEntry(ctx, entry); err != nil {
			b.Fatal(err)
		}
	}
}
