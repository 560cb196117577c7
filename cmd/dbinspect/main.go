package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/3mero/edarh-server/internal/domain"
	"github.com/3mero/edarh-server/internal/store"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Edarh/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	err = db.View(func(txn *badger.Txn) error {
		if err := printMode(txn); err != nil {
			return err
		}
		for _, mode := range []domain.Mode{domain.ModeHizb, domain.ModeJuz} {
			if err := printList(txn, mode); err != nil {
				return err
			}
		}
		return printMedia(txn)
	})
	if err != nil {
		log.Fatalf("Inspection failed: %v", err)
	}
}

func printMode(txn *badger.Txn) error {
	item, err := txn.Get([]byte("mode:current"))
	if err == badger.ErrKeyNotFound {
		fmt.Println("Active mode: (unset, defaults to hizb)")
		fmt.Println()
		return nil
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		var mode domain.Mode
		if err := json.Unmarshal(val, &mode); err != nil {
			return err
		}
		fmt.Printf("Active mode: %s\n\n", mode)
		return nil
	})
}

func printList(txn *badger.Txn, mode domain.Mode) error {
	item, err := txn.Get([]byte("list:" + string(mode)))
	if err == badger.ErrKeyNotFound {
		fmt.Printf("List %q: not created yet\n\n", mode)
		return nil
	}
	if err != nil {
		return err
	}

	return item.Value(func(val []byte) error {
		var items []domain.Item
		if err := json.Unmarshal(val, &items); err != nil {
			return err
		}

		completed := 0
		batches := map[string]int{}
		for _, it := range items {
			if it.Completed {
				completed++
				if it.CompletionBatchID != "" {
					batches[it.CompletionBatchID]++
				}
			}
		}

		fmt.Printf("List %q: %d items, %d completed, %d batches\n", mode, len(items), completed, len(batches))
		for id, n := range batches {
			fmt.Printf("  %s: %d items\n", id, n)
		}
		fmt.Println()
		return nil
	})
}

func printMedia(txn *badger.Txn) error {
	imageCount, imageBytes, err := scanRecords(txn, "image:", func(val []byte) (int64, error) {
		var rec store.ImageRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return 0, err
		}
		return rec.Size, nil
	})
	if err != nil {
		return err
	}

	audioCount, audioBytes, err := scanRecords(txn, "audio:", func(val []byte) (int64, error) {
		var rec store.AudioRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return 0, err
		}
		return rec.Size, nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Images: %d records, %d bytes\n", imageCount, imageBytes)
	fmt.Printf("Audio:  %d records, %d bytes\n", audioCount, audioBytes)
	return nil
}

// scanRecords walks a record prefix, skipping secondary index keys.
func scanRecords(txn *badger.Txn, prefix string, size func([]byte) (int64, error)) (int, int64, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	count := 0
	var total int64
	for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
		key := string(it.Item().Key())
		if strings.HasPrefix(strings.TrimPrefix(key, prefix), "idx:") {
			continue
		}

		err := it.Item().Value(func(val []byte) error {
			n, err := size(val)
			if err != nil {
				return err
			}
			count++
			total += n
			return nil
		})
		if err != nil {
			return 0, 0, err
		}
	}
	return count, total, nil
}
