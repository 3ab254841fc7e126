package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iiviie/bbsfront/internal/models"
)

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, models.Table{State: models.StateReady, Rows: []models.Row{
		{No: "2", Name: "A", ID: "@x", Content: "hi", Time: "2024/01/02 10:00:00"},
	}})

	out := buf.String()
	assert.Contains(t, out, "NO")
	assert.Contains(t, out, "@x")
	assert.Contains(t, out, "2024/01/02 10:00:00")
}

func TestPrintTablePlaceholder(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, models.Table{State: models.StateEmpty, Message: models.MessageEmpty})
	assert.Contains(t, buf.String(), models.MessageEmpty)
}
