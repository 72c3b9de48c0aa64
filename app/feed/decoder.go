package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotJSON = errors.New("response body is not a JSON object")

type envelope struct {
	Posts   json.RawMessage `json:"posts"`
	Content json.RawMessage `json:"content"`
}

type contentEnvelope struct {
	Items json.RawMessage `json:"items"`
}

// DecodeResponse extracts the post list from an endpoint response body.
// Layouts are tried in order: a "posts" array, a "content.items" array,
// and finally an empty list.
func DecodeResponse(body []byte) (Shape, []Post, error) {
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	body = bytes.TrimLeft(body, " \t\r\n")
	if len(body) == 0 || body[0] != '{' {
		return ShapeEmpty, nil, ErrNotJSON
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ShapeEmpty, nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if isArray(env.Posts) {
		posts, err := decodePosts(env.Posts)
		if err != nil {
			return ShapeEmpty, nil, fmt.Errorf("failed to decode posts: %w", err)
		}
		return ShapePosts, posts, nil
	}

	if isObject(env.Content) {
		var content contentEnvelope
		if err := json.Unmarshal(env.Content, &content); err == nil && isArray(content.Items) {
			posts, err := decodePosts(content.Items)
			if err != nil {
				return ShapeEmpty, nil, fmt.Errorf("failed to decode content items: %w", err)
			}
			return ShapeContentItems, posts, nil
		}
	}

	return ShapeEmpty, []Post{}, nil
}

func decodePosts(raw json.RawMessage) ([]Post, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(entries))
	for _, entry := range entries {
		if !isObject(entry) {
			continue
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil {
			continue
		}

		posts = append(posts, Post{
			Title:            stringField(fields, "title"),
			Excerpt:          stringField(fields, "excerpt"),
			Summary:          stringField(fields, "summary"),
			FirstPublishedAt: stringField(fields, "first_published_at"),
			URLPath:          stringField(fields, "url_path"),
		})
	}

	return posts, nil
}

// stringField returns the field value when it is a JSON string and the empty
// string otherwise.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimLeft(raw, " \t\r\n")
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimLeft(raw, " \t\r\n")
	return len(raw) > 0 && raw[0] == '{'
}
