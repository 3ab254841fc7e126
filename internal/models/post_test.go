package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWrappedMalformedPosts(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"posts": null}`,
		`{"posts": "nope"}`,
		`{"posts": 42}`,
		`{"posts": {"no": 1}}`,
		`[]`,
		`null`,
		`"text"`,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			posts, err := DecodeWrapped([]byte(body))
			require.NoError(t, err)
			assert.NotNil(t, posts)
			assert.Empty(t, posts)
		})
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := DecodeWrapped([]byte(`<html>oops</html>`))
	assert.ErrorIs(t, err, ErrMalformedBody)

	_, err = DecodeList([]byte(``))
	assert.ErrorIs(t, err, ErrMalformedBody)
}

func TestDecodeList(t *testing.T) {
	posts, err := DecodeList([]byte(`[{"number": 3, "name": "C", "datetime": "2024-01-03 08:00:00"}, 7, null]`))
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "3", posts[0].DisplayNo())
	assert.Equal(t, "2024-01-03 08:00:00", posts[0].DisplayTime())

	posts, err = DecodeList([]byte(`{"posts": [{"no": 1}]}`))
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostFallbacks(t *testing.T) {
	posts, err := DecodeWrapped([]byte(`{"posts": [{}, {"no": null, "name": "", "id": 5, "content": ["x"], "time": false}]}`))
	require.NoError(t, err)
	require.Len(t, posts, 2)

	want := Row{No: "", Name: LabelAnonymous, ID: LabelNoID, Content: "", Time: LabelUnknownTime}
	for _, p := range posts {
		assert.Equal(t, want, p.Row())
	}
}

func TestDisplayID(t *testing.T) {
	posts, err := DecodeWrapped([]byte(`{"posts": [{"id": "x"}, {"id": "@y"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "@x", posts[0].DisplayID())
	assert.Equal(t, "@y", posts[1].DisplayID())
}

func TestNumberVariants(t *testing.T) {
	posts, err := DecodeWrapped([]byte(`{"posts": [{"no": 2.5}, {"no": "12"}, {"no": "abc"}, {"number": 9}]}`))
	require.NoError(t, err)
	require.Len(t, posts, 4)

	n, ok := posts[0].Number()
	assert.True(t, ok)
	assert.Equal(t, 2.5, n)

	n, ok = posts[1].Number()
	assert.True(t, ok)
	assert.Equal(t, 12.0, n)

	_, ok = posts[2].Number()
	assert.False(t, ok)
	assert.Equal(t, "abc", posts[2].DisplayNo())

	assert.Equal(t, "9", posts[3].DisplayNo())
}

func TestNumberCanonicalForm(t *testing.T) {
	posts, err := DecodeWrapped([]byte(`{"posts": [{"no": 2.0}, {"no": 1e2}, {"no": 3}, {"no": 0.5}, {"no": "2.0"}]}`))
	require.NoError(t, err)
	require.Len(t, posts, 5)

	assert.Equal(t, "2", posts[0].DisplayNo())
	assert.Equal(t, "100", posts[1].DisplayNo())
	assert.Equal(t, "3", posts[2].DisplayNo())
	assert.Equal(t, "0.5", posts[3].DisplayNo())
	assert.Equal(t, "2.0", posts[4].DisplayNo(), "string numbers are shown as sent")
}

func TestInstant(t *testing.T) {
	posts, err := DecodeWrapped([]byte(`{"posts": [
		{"time": "2024/01/02 10:00:00"},
		{"time": "2024/1/2 9:05:00"},
		{"time": "2024-01-02T10:00:00Z"},
		{"time": "yesterday"},
		{}
	]}`))
	require.NoError(t, err)

	a, ok := posts[0].Instant()
	require.True(t, ok)
	b, ok := posts[1].Instant()
	require.True(t, ok)
	assert.True(t, a.After(b))

	_, ok = posts[2].Instant()
	assert.True(t, ok)
	_, ok = posts[3].Instant()
	assert.False(t, ok)
	_, ok = posts[4].Instant()
	assert.False(t, ok)
}

func TestFormTrimmed(t *testing.T) {
	f := Form{Name: "  a ", Pass: "\tp\n", Content: " hi there "}.Trimmed()
	assert.Equal(t, Form{Name: "a", Pass: "p", Content: "hi there"}, f)
}
