package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bookahead/backend/utils"
)

// MaintenanceTask is one periodic job run by Maintenance.
type MaintenanceTask struct {
	Name string
	Run  func(ctx context.Context, now time.Time) error
}

// Maintenance runs its tasks on a fixed interval until stopped.
type Maintenance struct {
	Interval time.Duration
	Tasks    []MaintenanceTask

	stopChan chan struct{}
	done     chan struct{}
	started  atomic.Bool
	once     sync.Once
}

func NewMaintenance(interval time.Duration, tasks ...MaintenanceTask) *Maintenance {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Maintenance{
		Interval: interval,
		Tasks:    tasks,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (m *Maintenance) Start() {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				m.runOnce(now)
			case <-m.stopChan:
				return
			}
		}
	}()
}

// Stop ends the loop and waits for a running pass to finish.
func (m *Maintenance) Stop() {
	m.once.Do(func() { close(m.stopChan) })
	if m.started.Load() {
		<-m.done
	}
}

func (m *Maintenance) runOnce(now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), m.Interval)
	defer cancel()
	for _, task := range m.Tasks {
		if err := task.Run(ctx, now); err != nil {
			utils.ErrorLogger.Printf("Maintenance task %s failed: %v", task.Name, err)
		}
	}
}

// PruneTokensTask drops expired entries from the token blacklist.
func PruneTokensTask() MaintenanceTask {
	return MaintenanceTask{
		Name: "prune-token-blacklist",
		Run: func(_ context.Context, now time.Time) error {
			utils.PruneBlacklist(now)
			return nil
		},
	}
}

// WarmRestaurantCacheTask reloads the restaurant listing so the cache is
// populated before the next client asks for it.
func WarmRestaurantCacheTask(restaurants *RestaurantService) MaintenanceTask {
	return MaintenanceTask{
		Name: "warm-restaurant-cache",
		Run: func(ctx context.Context, _ time.Time) error {
			restaurants.invalidate(ctx)
			_, err := restaurants.ListRestaurants(ctx)
			return err
		},
	}
}
