package poller

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iiviie/bbsfront/internal/models"
)

// Refresher is refreshed on every tick.
type Refresher interface {
	Refresh(ctx context.Context) models.Table
}

// Poller refreshes the board at a fixed interval.
type Poller struct {
	board    Refresher
	interval time.Duration
	log      logrus.FieldLogger
}

// New creates a poller
func New(board Refresher, interval time.Duration, log logrus.FieldLogger) *Poller {
	return &Poller{
		board:    board,
		interval: interval,
		log:      log.WithField("component", "poller"),
	}
}

// Run refreshes once immediately and then on every tick until ctx is done.
// A failed refresh waits for the next tick.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.WithField("interval", p.interval.String()).Info("Starting initial refresh")
	p.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			p.log.Info("Poller stopped")
			return
		case <-ticker.C:
			p.runOnce(ctx)
		}
	}
}

func (p *Poller) runOnce(ctx context.Context) {
	table := p.board.Refresh(ctx)
	p.log.WithFields(logrus.Fields{
		"state": table.State,
		"rows":  len(table.Rows),
	}).Debug("Scheduled refresh done")
}
