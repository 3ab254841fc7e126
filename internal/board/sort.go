package board

import (
	"sort"
	"time"

	"github.com/iiviie/bbsfront/internal/config"
	"github.com/iiviie/bbsfront/internal/models"
)

type sortEntry struct {
	post    models.Post
	valid   bool
	number  float64
	instant time.Time
}

// SortPosts returns a copy of posts ordered newest first. With
// config.SortTime the parsed timestamp is the key, with config.SortNumber
// the sequence number. Posts without a usable key go last; ties keep
// their source order.
func SortPosts(posts []models.Post, by string) []models.Post {
	entries := make([]sortEntry, len(posts))
	for i, p := range posts {
		e := sortEntry{post: p}
		if by == config.SortNumber {
			e.number, e.valid = p.Number()
		} else {
			e.instant, e.valid = p.Instant()
		}
		entries[i] = e
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.valid != b.valid {
			return a.valid
		}
		if !a.valid {
			return false
		}
		if by == config.SortNumber {
			return a.number > b.number
		}
		return a.instant.After(b.instant)
	})

	out := make([]models.Post, len(entries))
	for i, e := range entries {
		out[i] = e.post
	}
	return out
}
