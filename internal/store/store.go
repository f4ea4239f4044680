// Package store persists application state in Badger, a pure-Go
// embedded key-value store. Each aggregate gets a generic Entity with
// optional secondary indexes; key layout is "prefix" + id for records
// and "prefix" + "idx:" + name + ":" + value for index entries.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/encoreapp/encore-server/internal/domain"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Generic entities
	Users     *Entity[domain.User]
	Sessions  *Entity[domain.Session]
	Profiles  *Entity[domain.UserMusicProfile]
	Groups    *Entity[domain.Group]
	Festivals *Entity[domain.Festival]
	Prefs     *Entity[domain.NotificationPrefs]
	Manual    *Entity[domain.ManualPicks]
}

// New opens (or creates) the database at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Sync writes to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}
	s.initEntities()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}
	return s, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

func (s *Store) initEntities() {
	// Case-insensitive unique email index for login lookups.
	s.Users = NewEntity[domain.User](s, "user:").
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{domain.NormalizeEmail(u.Email)}
			},
			domain.NormalizeEmail,
		)

	// Sessions: unique hash lookup for refresh, user scan for revoke-all.
	s.Sessions = NewEntity[domain.Session](s, "session:").
		WithIndex("token", func(sess *domain.Session) []string {
			return []string{sess.TokenHash}
		}).
		WithMultiIndex("user", func(sess *domain.Session) []string {
			return []string{sess.UserID}
		})

	// Profiles are keyed by user ID; one profile per user.
	s.Profiles = NewEntity[domain.UserMusicProfile](s, "profile:")

	// Groups: non-unique membership index plus a unique invite key.
	s.Groups = NewEntity[domain.Group](s, "group:").
		WithMultiIndex("member", func(g *domain.Group) []string {
			return g.MemberIDs()
		}).
		WithIndex("invite", func(g *domain.Group) []string {
			if g.InviteKey == "" {
				return nil
			}
			return []string{g.InviteKey}
		})

	s.Festivals = NewEntity[domain.Festival](s, "festival:")

	// Notification prefs and manual picks are keyed by user ID.
	s.Prefs = NewEntity[domain.NotificationPrefs](s, "prefs:")
	s.Manual = NewEntity[domain.ManualPicks](s, "manual:")
}

// Helper methods for raw database operations (concert cache and tests).

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
