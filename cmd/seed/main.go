// Command seed populates a database with demo tracker data for manual testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/3mero/edarh-server/internal/domain"
	"github.com/3mero/edarh-server/internal/store"
)

func main() {
	dataPath := flag.String("data-path", "", "Base data directory (default: ~/Edarh/data)")
	modeFlag := flag.String("mode", "hizb", "Tracking mode to seed (hizb or juz)")
	batches := flag.Int("batches", 3, "Number of completion batches to seed")
	flag.Parse()

	mode := domain.Mode(*modeFlag)
	if !mode.Valid() {
		log.Fatalf("Unknown mode: %s", *modeFlag)
	}

	base := *dataPath
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		base = filepath.Join(home, "Edarh", "data")
	}

	st, err := store.New(filepath.Join(base, "db"), nil)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	items := domain.Generate(1, mode.Size(), domain.Days[0])

	// Spread the demo batches over the past days, three items each.
	next := 1
	when := time.Now().AddDate(0, 0, -*batches)
	for b := 0; b < *batches && next+2 <= len(items); b++ {
		batchID := domain.NewBatchID(when)
		items = domain.CompleteBatch(items, next, 3, batchID, domain.RandomBatchColor(), when.Format(time.RFC3339))
		next += 3
		when = when.AddDate(0, 0, 1)
	}

	if err := st.SaveList(ctx, mode, items); err != nil {
		log.Fatalf("Failed to save list: %v", err)
	}
	if err := st.SetMode(ctx, mode); err != nil {
		log.Fatalf("Failed to set mode: %v", err)
	}

	stats := domain.ComputeStats(items)
	fmt.Printf("Seeded %q with %d items, %d completed\n", mode, len(items), stats.CompletedCount)
}
