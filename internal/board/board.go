package board

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iiviie/bbsfront/internal/models"
	"github.com/iiviie/bbsfront/internal/storage"
)

// Lister fetches the raw post list from the API.
type Lister interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
}

// Board fetches, sorts and renders posts into a table snapshot.
// Refresh may run concurrently from the poller and from submissions;
// the last snapshot written wins.
type Board struct {
	lister Lister
	store  storage.Storage
	sortBy string
	log    logrus.FieldLogger
	now    func() time.Time

	mu     sync.RWMutex
	nextID int
	subs   map[int]func(models.Table)
}

// New creates a board that renders posts sorted by sortBy.
func New(lister Lister, store storage.Storage, sortBy string, log logrus.FieldLogger) *Board {
	return &Board{
		lister: lister,
		store:  store,
		sortBy: sortBy,
		log:    log.WithField("component", "board"),
		now:    time.Now,
		subs:   make(map[int]func(models.Table)),
	}
}

// Refresh fetches the post list and replaces the current snapshot. A failed
// fetch is logged and rendered as a failure row; it is not retried here.
func (b *Board) Refresh(ctx context.Context) models.Table {
	posts, err := b.lister.ListPosts(ctx)

	var table models.Table
	if err != nil {
		b.log.WithError(err).Error("Failed to fetch posts")
		table = models.Table{State: models.StateFailed, Message: models.MessageFailed, Rows: []models.Row{}}
	} else {
		table = Render(SortPosts(posts, b.sortBy))
		b.log.WithField("posts", len(table.Rows)).Debug("Board refreshed")
	}
	table.UpdatedAt = b.now()

	if err := b.store.SaveTable(table); err != nil {
		b.log.WithError(err).Warn("Failed to save snapshot")
	}
	b.publish(table)
	return table
}

// Table returns the latest snapshot, or a loading table before the first refresh.
func (b *Board) Table() models.Table {
	if t, ok := b.store.LatestTable(); ok {
		return t
	}
	return models.LoadingTable()
}

// Subscribe registers fn to receive every new snapshot. The returned
// function removes the subscription.
func (b *Board) Subscribe(fn func(models.Table)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

func (b *Board) publish(table models.Table) {
	b.mu.RLock()
	fns := make([]func(models.Table), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(table)
	}
}

// Render turns sorted posts into a table. An empty list renders the
// "no posts" placeholder.
func Render(posts []models.Post) models.Table {
	if len(posts) == 0 {
		return models.Table{State: models.StateEmpty, Message: models.MessageEmpty, Rows: []models.Row{}}
	}
	rows := make([]models.Row, len(posts))
	for i, p := range posts {
		rows[i] = p.Row()
	}
	return models.Table{State: models.StateReady, Rows: rows}
}
