package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bookahead/backend/models"
	"github.com/bookahead/backend/utils"
)

func init() {
	utils.SilenceLoggers()
}

// newTestDB opens a private in-memory SQLite database for t.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Owner{},
		&models.User{},
		&models.Restaurant{},
		&models.Table{},
		&models.FloorPlan{},
	))
	return db
}

func seedRestaurant(t *testing.T, db *gorm.DB, name, owner string) models.Restaurant {
	t.Helper()
	r := models.Restaurant{
		Name:         name,
		Description:  "test restaurant",
		OpeningHours: "11-23",
		Stars:        4,
		Address:      "Main Street 1",
		PhoneNumber:  "0123",
		OwnerName:    owner,
	}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func seedTable(t *testing.T, db *gorm.DB, number int, restaurant string, reservations ...models.Reservation) models.Table {
	t.Helper()
	table := models.Table{TableNumber: number, RestaurantName: restaurant, Reservations: reservations}
	require.NoError(t, db.Create(&table).Error)
	return table
}

func reloadTable(t *testing.T, db *gorm.DB, id uint) models.Table {
	t.Helper()
	var table models.Table
	require.NoError(t, db.First(&table, id).Error)
	return table
}

var (
	ownerAlice = Identity{AccountID: 1, Name: "Alice's", Role: utils.RoleOwner}
	ownerBob   = Identity{AccountID: 2, Name: "Bob's", Role: utils.RoleOwner}
	dinerAnna  = Identity{AccountID: 1, Name: "anna", Role: utils.RoleUser}
)

type publishedEvent struct {
	queue   string
	payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, queue string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{queue: queue, payload: payload})
	return p.err
}

func (p *recordingPublisher) queues() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.queue)
	}
	return out
}

type memoryCache struct {
	mu          sync.Mutex
	generation  uint64
	restaurants map[uint64][]models.Restaurant
	sets        int
}

func (c *memoryCache) GetAll(context.Context) ([]models.Restaurant, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	restaurants, ok := c.restaurants[c.generation]
	return restaurants, c.generation, ok
}

func (c *memoryCache) SetAll(_ context.Context, generation uint64, restaurants []models.Restaurant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.restaurants == nil {
		c.restaurants = make(map[uint64][]models.Restaurant)
	}
	c.restaurants[generation] = restaurants
	c.sets++
}

func (c *memoryCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
}
