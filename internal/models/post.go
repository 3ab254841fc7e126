package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Fallback labels shown when a field is absent.
const (
	LabelAnonymous   = "anonymous"
	LabelNoID        = "N/A"
	LabelUnknownTime = "unknown"
)

// IDMarker is prepended to identifiers that do not already carry it.
const IDMarker = "@"

// timeLayouts are tried in order when a post timestamp is parsed.
var timeLayouts = []string{
	"2006/1/2 15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/1/2 15:04",
	"2006/1/2",
}

// Post represents one board entry as returned by the API.
// Every field is optional; nil means absent or unusable.
type Post struct {
	No      *string `json:"no,omitempty"`
	Name    *string `json:"name,omitempty"`
	ID      *string `json:"id,omitempty"`
	Content *string `json:"content,omitempty"`
	Time    *string `json:"time,omitempty"`
}

// Row is the display form of a post: one cell per table column.
type Row struct {
	No      string `json:"no"`
	Name    string `json:"name"`
	ID      string `json:"id"`
	Content string `json:"content"`
	Time    string `json:"time"`
}

// UnmarshalJSON decodes a post leniently. Fields with an unexpected type
// or a null value are dropped instead of failing the whole post.
// Both naming variants of the API are accepted: no/number and time/datetime.
func (p *Post) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Post{
		No:      numberField(raw, "no", "number"),
		Name:    stringField(raw, "name"),
		ID:      stringField(raw, "id"),
		Content: stringField(raw, "content"),
		Time:    stringField(raw, "time", "datetime"),
	}
	return nil
}

func stringField(raw map[string]json.RawMessage, keys ...string) *string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil || s == "" {
			continue
		}
		return &s
	}
	return nil
}

// numberField renders JSON numbers in shortest decimal form, so 2.0 shows as 2.
func numberField(raw map[string]json.RawMessage, keys ...string) *string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(v))
		dec.UseNumber()
		var x any
		if err := dec.Decode(&x); err != nil {
			continue
		}
		switch n := x.(type) {
		case json.Number:
			s := n.String()
			if f, err := n.Float64(); err == nil {
				s = strconv.FormatFloat(f, 'f', -1, 64)
			}
			return &s
		case string:
			if s := strings.TrimSpace(n); s != "" {
				return &s
			}
		}
	}
	return nil
}

// DisplayNo returns the sequence number or an empty cell.
func (p Post) DisplayNo() string {
	if p.No == nil {
		return ""
	}
	return *p.No
}

// DisplayName returns the poster name, falling back to LabelAnonymous.
func (p Post) DisplayName() string {
	if p.Name == nil {
		return LabelAnonymous
	}
	return *p.Name
}

// DisplayID returns the identifier with a leading IDMarker, or LabelNoID.
func (p Post) DisplayID() string {
	if p.ID == nil {
		return LabelNoID
	}
	if strings.HasPrefix(*p.ID, IDMarker) {
		return *p.ID
	}
	return IDMarker + *p.ID
}

// DisplayContent returns the post body or an empty cell.
func (p Post) DisplayContent() string {
	if p.Content == nil {
		return ""
	}
	return *p.Content
}

// DisplayTime returns the raw timestamp string, falling back to LabelUnknownTime.
func (p Post) DisplayTime() string {
	if p.Time == nil {
		return LabelUnknownTime
	}
	return *p.Time
}

// Row renders the post into display cells.
func (p Post) Row() Row {
	return Row{
		No:      p.DisplayNo(),
		Name:    p.DisplayName(),
		ID:      p.DisplayID(),
		Content: p.DisplayContent(),
		Time:    p.DisplayTime(),
	}
}

// Instant parses the timestamp. ok is false when it is absent or unparseable.
func (p Post) Instant() (t time.Time, ok bool) {
	if p.Time == nil {
		return time.Time{}, false
	}
	s := strings.TrimSpace(*p.Time)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Number parses the sequence number. ok is false when it is absent or not numeric.
func (p Post) Number() (n float64, ok bool) {
	if p.No == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(*p.No, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
