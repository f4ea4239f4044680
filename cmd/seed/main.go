// Package main provides a tool to seed the database with demo data.
//
// It creates demo users with manual taste picks, builds their music
// profiles, puts them in a shared planning group, and drops a sample
// festival lineup file into the watched festivals directory.
//
// Usage:
//
//	DATA_PATH=~/Encore/data go run ./cmd/seed
//	DATA_PATH=~/Encore/data go run ./cmd/seed --festivals-dir ./lineups
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/encoreapp/encore-server/internal/auth"
	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/service"
	"github.com/encoreapp/encore-server/internal/store"
)

var festivalsDir = flag.String("festivals-dir", "", "Directory for sample lineup files (default: $DATA_PATH/festivals)")

// demoUsers are the accounts created by the seed tool. All of them get
// the password "demopass123".
var demoUsers = []struct {
	email   string
	name    string
	city    string
	artists []string
	genres  []string
}{
	{
		email:   "demo1@example.com",
		name:    "Alex Rivera",
		city:    "Seattle",
		artists: []string{"Neon Coast", "Glass Harbor", "The Midnight Office"},
		genres:  []string{"indie rock", "dream pop"},
	},
	{
		email:   "demo2@example.com",
		name:    "Jordan Chen",
		city:    "Seattle",
		artists: []string{"Static Fields", "Neon Coast", "Velvet Circuit"},
		genres:  []string{"techno", "synthwave"},
	},
	{
		email:   "demo3@example.com",
		name:    "Riley Kim",
		city:    "Portland",
		artists: []string{"Glass Harbor", "Paper Satellites"},
		genres:  []string{"dream pop", "folk"},
	},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Encore/data")
	}

	dbPath := filepath.Join(dataPath, "db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	profiles := service.NewProfileService(s, nil, nil)
	groups := service.NewGroupService(s, nil)

	users := createDemoUsers(ctx, s, profiles)
	if len(users) >= 2 {
		createDemoGroup(ctx, groups, users)
	}

	dir := *festivalsDir
	if dir == "" {
		dir = filepath.Join(dataPath, "festivals")
	}
	writeSampleLineup(dir)

	fmt.Println("\nSeeding complete!")
}

// createDemoUsers creates the demo accounts, their manual picks, and
// their synced profiles. Existing accounts are reused, not recreated.
func createDemoUsers(ctx context.Context, s *store.Store, profiles *service.ProfileService) []*domain.User {
	fmt.Println("\n=== Creating Demo Users ===")

	passwordHash, err := auth.HashPassword("demopass123")
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var created []*domain.User
	for _, d := range demoUsers {
		user, err := s.GetUserByEmail(ctx, d.email)
		if err == nil {
			fmt.Printf("  User %s already exists, reusing\n", d.email)
			created = append(created, user)
			continue
		}

		user = &domain.User{
			Email:        d.email,
			PasswordHash: passwordHash,
			DisplayName:  d.name,
			HomeCity:     d.city,
		}
		user.InitTimestamps()

		if err := s.CreateUser(ctx, user); err != nil {
			log.Printf("  Failed to create user %s: %v", d.email, err)
			continue
		}
		fmt.Printf("  Created user: %s (%s)\n", d.name, d.email)

		if _, err := profiles.SetManualPicks(ctx, user.ID, d.artists, d.genres); err != nil {
			log.Printf("  Failed to set picks for %s: %v", d.email, err)
			continue
		}
		if _, err := profiles.Sync(ctx, user.ID, service.SyncRequest{}); err != nil {
			log.Printf("  Failed to sync profile for %s: %v", d.email, err)
			continue
		}
		fmt.Printf("    Profile built from %d artists, %d genres\n", len(d.artists), len(d.genres))

		created = append(created, user)
	}

	return created
}

// createDemoGroup puts all demo users into one planning group owned by
// the first of them.
func createDemoGroup(ctx context.Context, groups *service.GroupService, users []*domain.User) {
	owner := users[0]

	existing, err := groups.ListForUser(ctx, owner.ID)
	if err == nil && len(existing) > 0 {
		fmt.Printf("\nGroup %q already exists, skipping\n", existing[0].Name)
		return
	}

	group, err := groups.Create(ctx, owner.ID, service.CreateGroupRequest{Name: "Festival Crew"})
	if err != nil {
		log.Printf("Failed to create group: %v", err)
		return
	}
	fmt.Printf("\nCreated group: %s (invite key %s)\n", group.Name, group.InviteKey)

	for _, u := range users[1:] {
		if _, err := groups.Join(ctx, u.ID, group.InviteKey); err != nil {
			log.Printf("  Failed to add %s to group: %v", u.DisplayName, err)
			continue
		}
		fmt.Printf("  Added member: %s\n", u.DisplayName)
	}
}

// sampleLineup is a small two-day festival exercising scheduled slots,
// headliners, and an unscheduled artist.
const sampleLineup = `{
  "name": "Harbor Sounds",
  "location": "Seattle",
  "days": [
    {"name": "Friday", "date": "2026-08-14"},
    {"name": "Saturday", "date": "2026-08-15"}
  ],
  "lineup": [
    {"artist_name": "Neon Coast", "day": "Friday", "stage": "Main", "start_time": "21:00", "end_time": "22:30", "headliner": true, "genres": ["indie rock"]},
    {"artist_name": "Glass Harbor", "day": "Friday", "stage": "Pier", "start_time": "18:00", "end_time": "19:00", "genres": ["dream pop"]},
    {"artist_name": "Static Fields", "day": "Saturday", "stage": "Main", "start_time": "20:00", "end_time": "21:30", "headliner": true, "genres": ["techno"]},
    {"artist_name": "Paper Satellites", "day": "Saturday", "stage": "Pier", "start_time": "16:00", "end_time": "17:00", "genres": ["folk"]},
    {"artist_name": "Velvet Circuit", "genres": ["synthwave"]}
  ]
}
`

// writeSampleLineup drops a lineup file into the watched festivals
// directory. The running server picks it up; otherwise it loads on the
// next start.
func writeSampleLineup(dir string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("Failed to create festivals dir %s: %v", dir, err)
		return
	}

	path := filepath.Join(dir, "harbor-sounds.json")
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("\nLineup file %s already exists, skipping\n", path)
		return
	}

	if err := os.WriteFile(path, []byte(sampleLineup), 0o644); err != nil {
		log.Printf("Failed to write lineup file: %v", err)
		return
	}
	fmt.Printf("\nWrote sample lineup: %s\n", path)
}
