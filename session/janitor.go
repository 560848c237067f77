package session

import (
	"context"
	"time"

	"github.com/tech-arch1tect/accountd/services/logging"
	"go.uber.org/zap"
)

// Janitor periodically sweeps expired sessions. Callers already treat
// expired rows as absent, so the sweep only reclaims storage.
type Janitor struct {
	store    Store
	interval time.Duration
	logger   *logging.Service
	stop     chan struct{}
	done     chan struct{}
}

func NewJanitor(store Store, interval time.Duration, logger *logging.Service) *Janitor {
	return &Janitor{
		store:    store,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (j *Janitor) Start() {
	go func() {
		defer close(j.done)

		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.sweep()
			case <-j.stop:
				return
			}
		}
	}()

	j.logger.Info("started session janitor", zap.Duration("interval", j.interval))
}

func (j *Janitor) Stop() {
	close(j.stop)
	<-j.done
}

func (j *Janitor) sweep() {
	count, err := j.store.DeleteExpired(context.Background())
	if err != nil {
		j.logger.Error("session sweep failed", zap.Error(err))
		return
	}

	if count > 0 {
		j.logger.Info("swept expired sessions", zap.Int64("count", count))
	}
}
