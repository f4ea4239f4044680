package main

import (
	"encoding/json/v2"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/encoreapp/encore-server/internal/domain"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Encore/data")
	}
	dbPath := filepath.Join(dataPath, "db")

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

	counts := map[string]int{}
	prefixes := []string{"user:", "session:", "profile:", "group:", "festival:", "prefs:", "manual:", "cache:concerts:"}

	err = db.View(func(txn *badger.Txn) error {
		for _, prefix := range prefixes {
			iopts := badger.DefaultIteratorOptions
			iopts.Prefix = []byte(prefix)
			it := txn.NewIterator(iopts)

			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				key := string(it.Item().Key())

				// Skip secondary index entries
				if strings.HasPrefix(key, prefix+"idx:") {
					continue
				}
				counts[prefix]++
			}
			it.Close()
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	fmt.Println("=== Record Counts ===")
	for _, prefix := range prefixes {
		fmt.Printf("  %-16s %d\n", prefix, counts[prefix])
	}
	fmt.Println()

	showUsers(db)
	showFestivals(db)
	showGroups(db)
}

// showUsers prints each user with their home city and root flag.
func showUsers(db *badger.DB) {
	fmt.Println("=== Users ===")
	forEachRecord(db, "user:", func(u *domain.User) {
		root := ""
		if u.IsRoot {
			root = " [root]"
		}
		fmt.Printf("  %s <%s> city=%q%s\n", u.DisplayName, u.Email, u.HomeCity, root)
	})
	fmt.Println()
}

// showFestivals prints each festival with its day and lineup sizes.
func showFestivals(db *badger.DB) {
	fmt.Println("=== Festivals ===")
	forEachRecord(db, "festival:", func(f *domain.Festival) {
		headliners := 0
		unscheduled := 0
		for _, fa := range f.Lineup {
			if fa.Headliner {
				headliners++
			}
			if fa.Day == "" {
				unscheduled++
			}
		}
		fmt.Printf("  %s (%s)\n", f.Name, f.ID)
		fmt.Printf("    Location: %s\n", f.Location)
		fmt.Printf("    Days: %d, Lineup: %d artists (%d headliners, %d unscheduled)\n",
			len(f.Days), len(f.Lineup), headliners, unscheduled)
	})
	fmt.Println()
}

// showGroups prints each group with its member count.
func showGroups(db *badger.DB) {
	fmt.Println("=== Groups ===")
	forEachRecord(db, "group:", func(g *domain.Group) {
		fmt.Printf("  %s (%s) owner=%s members=%d\n", g.Name, g.ID, g.OwnerID, len(g.Members))
	})
	fmt.Println()
}

// forEachRecord iterates primary records under a prefix, skipping
// secondary index entries.
func forEachRecord[T any](db *badger.DB, prefix string, fn func(*T)) {
	err := db.View(func(txn *badger.Txn) error {
		iopts := badger.DefaultIteratorOptions
		iopts.Prefix = []byte(prefix)
		it := txn.NewIterator(iopts)
		defer it.Close()

		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if strings.HasPrefix(key, prefix+"idx:") {
				continue
			}

			err := item.Value(func(val []byte) error {
				var rec T
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				fn(&rec)
				return nil
			})
			if err != nil {
				log.Printf("Error reading %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error iterating %s records: %v", prefix, err)
	}
}
