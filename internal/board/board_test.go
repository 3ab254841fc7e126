package board

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiviie/bbsfront/internal/client"
	"github.com/iiviie/bbsfront/internal/config"
	"github.com/iiviie/bbsfront/internal/logging"
	"github.com/iiviie/bbsfront/internal/models"
	"github.com/iiviie/bbsfront/internal/storage"
)

type stubLister struct {
	posts []models.Post
	err   error
	calls int
}

func (s *stubLister) ListPosts(ctx context.Context) ([]models.Post, error) {
	s.calls++
	return s.posts, s.err
}

func decode(t *testing.T, body string) []models.Post {
	t.Helper()
	posts, err := models.DecodeWrapped([]byte(body))
	require.NoError(t, err)
	return posts
}

func TestRefreshEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"posts": [
			{"no": 1, "name": "B", "id": "@y", "content": "yo", "time": "2024/01/01 09:00:00"},
			{"no": 2, "name": "A", "id": "x", "content": "hi", "time": "2024/01/02 10:00:00"}
		]}`))
	}))
	defer srv.Close()

	cl, err := client.New(config.APIConfig{BaseURL: srv.URL, Shape: config.ShapeWrapped, Timeout: time.Second}, logging.Discard())
	require.NoError(t, err)

	b := New(cl, storage.NewMemoryStorage(), config.SortTime, logging.Discard())
	table := b.Refresh(context.Background())

	require.Equal(t, models.StateReady, table.State)
	assert.Equal(t, []models.Row{
		{No: "2", Name: "A", ID: "@x", Content: "hi", Time: "2024/01/02 10:00:00"},
		{No: "1", Name: "B", ID: "@y", Content: "yo", Time: "2024/01/01 09:00:00"},
	}, table.Rows)
	assert.Equal(t, table, b.Table())
}

func TestRefreshEmpty(t *testing.T) {
	b := New(&stubLister{posts: []models.Post{}}, storage.NewMemoryStorage(), config.SortTime, logging.Discard())
	table := b.Refresh(context.Background())

	assert.Equal(t, models.StateEmpty, table.State)
	assert.Equal(t, models.MessageEmpty, table.Message)
	assert.Empty(t, table.Rows)
	assert.True(t, table.Placeholder())
}

func TestRefreshFailure(t *testing.T) {
	lister := &stubLister{err: errors.New("boom")}
	b := New(lister, storage.NewMemoryStorage(), config.SortTime, logging.Discard())

	table := b.Refresh(context.Background())
	assert.Equal(t, models.StateFailed, table.State)
	assert.Equal(t, models.MessageFailed, table.Message)
	assert.Empty(t, table.Rows)
	assert.Equal(t, 1, lister.calls)
}

func TestTableBeforeRefresh(t *testing.T) {
	b := New(&stubLister{}, storage.NewMemoryStorage(), config.SortTime, logging.Discard())
	assert.Equal(t, models.StateLoading, b.Table().State)
}

func TestSubscribe(t *testing.T) {
	b := New(&stubLister{posts: decode(t, `{"posts": [{"no": 1}]}`)}, storage.NewMemoryStorage(), config.SortNumber, logging.Discard())

	var got []models.Table
	unsubscribe := b.Subscribe(func(tb models.Table) { got = append(got, tb) })

	b.Refresh(context.Background())
	unsubscribe()
	b.Refresh(context.Background())

	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].Rows[0].No)
}

func TestSortByTimeDescendingStable(t *testing.T) {
	posts := decode(t, `{"posts": [
		{"name": "old", "time": "2023/12/31 23:59:59"},
		{"name": "bad", "time": "someday"},
		{"name": "tie1", "time": "2024/01/02 10:00:00"},
		{"name": "none"},
		{"name": "tie2", "time": "2024/01/02 10:00:00"},
		{"name": "new", "time": "2024/03/01 00:00:00"}
	]}`)

	sorted := SortPosts(posts, config.SortTime)
	names := make([]string, len(sorted))
	for i, p := range sorted {
		names[i] = p.DisplayName()
	}
	assert.Equal(t, []string{"new", "tie1", "tie2", "old", "bad", "none"}, names)
}

func TestSortByNumberDescendingStable(t *testing.T) {
	posts := decode(t, `{"posts": [
		{"name": "a", "no": 3},
		{"name": "b"},
		{"name": "c", "no": 10},
		{"name": "d", "no": "3"},
		{"name": "e", "number": 7}
	]}`)

	sorted := SortPosts(posts, config.SortNumber)
	names := make([]string, len(sorted))
	for i, p := range sorted {
		names[i] = p.DisplayName()
	}
	assert.Equal(t, []string{"c", "e", "a", "d", "b"}, names)
}

func TestSortDoesNotMutateInput(t *testing.T) {
	posts := decode(t, `{"posts": [{"no": 1}, {"no": 2}]}`)
	_ = SortPosts(posts, config.SortNumber)
	assert.Equal(t, "1", posts[0].DisplayNo())
}

func TestRenderFallbacks(t *testing.T) {
	table := Render(decode(t, `{"posts": [{"content": "only content"}]}`))
	require.Len(t, table.Rows, 1)
	assert.Equal(t, models.Row{
		No:      "",
		Name:    models.LabelAnonymous,
		ID:      models.LabelNoID,
		Content: "only content",
		Time:    models.LabelUnknownTime,
	}, table.Rows[0])
}
