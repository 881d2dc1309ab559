// Package seed fills an empty database with demo data so a fresh checkout
// can be explored without typing every record in by hand.  Seeding is gated
// behind SEED_DEMO_DATA=true and every group is skipped when rows already
// exist, so it is safe to leave enabled across restarts.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/iliyamo/hotel-operations/internal/config"
	"github.com/iliyamo/hotel-operations/internal/model"
	"github.com/iliyamo/hotel-operations/internal/repository"
)

// Enabled reports whether demo seeding was requested via the environment.
func Enabled() bool {
	return os.Getenv("SEED_DEMO_DATA") == "true"
}

// Run inserts demo accounts, rooms, customers and a room-service menu.
// Each group is only written when its table is empty.
func Run(ctx context.Context, db *sql.DB, cfg config.Config) error {
	if err := seedUsers(ctx, db, cfg); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := seedRooms(ctx, db); err != nil {
		return fmt.Errorf("seed rooms: %w", err)
	}
	if err := seedCustomers(ctx, db); err != nil {
		return fmt.Errorf("seed customers: %w", err)
	}
	if err := seedServiceItems(ctx, db); err != nil {
		return fmt.Errorf("seed service items: %w", err)
	}
	return nil
}

func seedUsers(ctx context.Context, db *sql.DB, cfg config.Config) error {
	empty, err := tableEmpty(ctx, db, "users")
	if err != nil || !empty {
		return err
	}
	users := repository.NewUserRepo(db)
	adminPass := getenvDefault("SEED_ADMIN_PASSWORD", "admin123")
	staffPass := getenvDefault("SEED_STAFF_PASSWORD", "staff123")
	if _, err := users.Create(ctx, "admin@hotel.local", adminPass, model.RoleAdmin, cfg.BcryptCost); err != nil {
		return err
	}
	if _, err := users.Create(ctx, "frontdesk@hotel.local", staffPass, model.RoleStaff, cfg.BcryptCost); err != nil {
		return err
	}
	log.Println("seed: demo accounts created (admin@hotel.local, frontdesk@hotel.local)")
	return nil
}

func seedRooms(ctx context.Context, db *sql.DB) error {
	empty, err := tableEmpty(ctx, db, "rooms")
	if err != nil || !empty {
		return err
	}
	rooms := repository.NewRoomRepo(db)
	types := []struct {
		name string
		rate int64
	}{
		{"SINGLE", 10000},
		{"DOUBLE", 15000},
		{"SUITE", 30000},
		{"DELUXE", 45000},
	}
	n := 0
	for floor := 1; floor <= 3; floor++ {
		for i, t := range types {
			rm := &model.Room{
				RoomNumber: fmt.Sprintf("%d0%d", floor, i+1),
				RoomType:   t.name,
				RateCents:  t.rate,
				Status:     model.RoomStatusAvailable,
			}
			if err := rooms.Create(ctx, rm); err != nil {
				return err
			}
			n++
		}
	}
	log.Printf("seed: %d rooms created", n)
	return nil
}

func seedCustomers(ctx context.Context, db *sql.DB) error {
	empty, err := tableEmpty(ctx, db, "customers")
	if err != nil || !empty {
		return err
	}
	customers := repository.NewCustomerRepo(db)
	names := []string{
		"John Doe", "Jane Smith", "Peter Jones", "Mary Brown",
		"David Wilson", "Linda Davis", "Michael Thomas", "Jennifer Garcia",
	}
	for i, name := range names {
		c := &model.Customer{
			FullName: name,
			Email:    fmt.Sprintf("customer%d@example.com", i+1),
			Phone:    fmt.Sprintf("+1555123456%d", i),
		}
		if err := customers.Create(ctx, c); err != nil {
			return err
		}
	}
	log.Printf("seed: %d customers created", len(names))
	return nil
}

func seedServiceItems(ctx context.Context, db *sql.DB) error {
	empty, err := tableEmpty(ctx, db, "room_service_items")
	if err != nil || !empty {
		return err
	}
	items := repository.NewServiceItemRepo(db)
	menu := []struct {
		name, desc string
		price      int64
	}{
		{"Breakfast", "Continental breakfast tray", 1500},
		{"Lunch", "Daily lunch special", 2200},
		{"Dinner", "Three course dinner", 3500},
		{"Coffee", "Pot of filter coffee", 500},
		{"Tea", "Pot of loose leaf tea", 450},
		{"Water", "Bottled still water", 300},
		{"Club Sandwich", "Club sandwich with fries", 1400},
		{"House Wine", "Bottle of the house red", 2800},
	}
	for _, m := range menu {
		it := &model.RoomServiceItem{Name: m.name, Description: m.desc, PriceCents: m.price}
		if err := items.Create(ctx, it); err != nil {
			return err
		}
	}
	log.Printf("seed: %d room-service items created", len(menu))
	return nil
}

func tableEmpty(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var n int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
