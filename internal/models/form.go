package models

import "strings"

// Form is a post submission. The url tags drive the write request query
// string; the validate tags are checked after trimming.
type Form struct {
	Name    string `url:"name" json:"name" form:"name" validate:"required"`
	Pass    string `url:"pass" json:"pass" form:"pass" validate:"required"`
	Content string `url:"content" json:"content" form:"content" validate:"required"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Pass:    strings.TrimSpace(f.Pass),
		Content: strings.TrimSpace(f.Content),
	}
}
