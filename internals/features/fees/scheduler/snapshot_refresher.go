package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// Refresher dipenuhi oleh *store.Store.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// StartSnapshotRefresher me-reload snapshot students/payments sesuai jadwal cron
// (misal "@every 5m"), supaya perubahan di luar API (seeder, SQL manual) ikut terbaca.
// Panggil Stop() pada cron yang dikembalikan saat shutdown.
func StartSnapshotRefresher(r Refresher, schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		start := time.Now()
		if err := r.Refresh(ctx); err != nil {
			log.Printf("[SNAPSHOT] scheduled refresh failed: %v", err)
			return
		}
		log.Printf("[SNAPSHOT] refreshed in %s", time.Since(start))
	})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid SNAPSHOT_REFRESH_CRON %q", schedule)
	}

	log.Printf("[SNAPSHOT] refresher started schedule=%q", schedule)
	c.Start()
	return c, nil
}
