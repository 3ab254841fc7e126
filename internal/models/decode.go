package models

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrMalformedBody is returned when a read response is not JSON at all.
var ErrMalformedBody = errors.New("malformed response body")

// DecodeWrapped decodes a { "posts": [...] } response.
// A missing or non-list posts field yields an empty slice.
func DecodeWrapped(body []byte) ([]Post, error) {
	if !json.Valid(body) {
		return nil, ErrMalformedBody
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return []Post{}, nil
	}
	return decodeElements(top["posts"]), nil
}

// DecodeList decodes a response whose body is the post list itself.
// Any other JSON value yields an empty slice.
func DecodeList(body []byte) ([]Post, error) {
	if !json.Valid(body) {
		return nil, ErrMalformedBody
	}
	return decodeElements(body), nil
}

// decodeElements decodes a JSON array of posts, skipping elements that are
// not objects. Anything that is not an array decodes to an empty slice.
func decodeElements(data json.RawMessage) []Post {
	posts := []Post{}
	if len(data) == 0 {
		return posts
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return posts
	}
	for _, e := range elems {
		if !isObject(e) {
			continue
		}
		var p Post
		if err := json.Unmarshal(e, &p); err != nil {
			continue
		}
		posts = append(posts, p)
	}
	return posts
}

func isObject(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
