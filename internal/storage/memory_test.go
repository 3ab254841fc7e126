package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iiviie/bbsfront/internal/models"
)

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()

	_, ok := s.LatestTable()
	assert.False(t, ok)

	rows := []models.Row{{No: "1", Name: "A"}}
	require.NoError(t, s.SaveTable(models.Table{State: models.StateReady, Rows: rows}))

	rows[0].Name = "mutated"
	got, ok := s.LatestTable()
	require.True(t, ok)
	assert.Equal(t, models.StateReady, got.State)
	assert.Equal(t, "A", got.Rows[0].Name)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.SaveTable(models.Table{}), ErrClosed)
}
