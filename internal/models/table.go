package models

import "time"

// TableState describes what the rendered board currently shows.
type TableState string

const (
	StateLoading TableState = "loading"
	StateReady   TableState = "ready"
	StateEmpty   TableState = "empty"
	StateFailed  TableState = "failed"
)

// Columns is the number of columns in the board table.
const Columns = 5

// Placeholder messages rendered as a single row spanning all columns.
const (
	MessageLoading = "loading posts..."
	MessageEmpty   = "no posts yet"
	MessageFailed  = "failed to load posts; check the network connection or whether the API is available"
)

// Table is a rendered snapshot of the board. When State is not ready,
// Rows is empty and Message is shown across all columns instead.
type Table struct {
	State     TableState `json:"state"`
	Message   string     `json:"message,omitempty"`
	Rows      []Row      `json:"rows"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Placeholder reports whether the table renders as a single spanning row.
func (t Table) Placeholder() bool {
	return t.State != StateReady
}

// LoadingTable is the snapshot shown before the first refresh completes.
func LoadingTable() Table {
	return Table{State: StateLoading, Message: MessageLoading, Rows: []Row{}}
}
