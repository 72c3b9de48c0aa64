package feed

import (
	"errors"
	"testing"
)

func TestDecodeResponse(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		shape  Shape
		titles []string
	}{
		{"posts array", `{"posts":[{"title":"A"},{"title":"B"}]}`, ShapePosts, []string{"A", "B"}},
		{"empty posts array", `{"posts":[],"content":{"items":[{"title":"X"}]}}`, ShapePosts, nil},
		{"content items", `{"content":{"items":[{"title":"C"}]}}`, ShapeContentItems, []string{"C"}},
		{"posts not an array", `{"posts":{"title":"A"},"content":{"items":[{"title":"C"}]}}`, ShapeContentItems, []string{"C"}},
		{"null posts", `{"posts":null}`, ShapeEmpty, nil},
		{"content without items", `{"content":{"total":3}}`, ShapeEmpty, nil},
		{"content items not an array", `{"content":{"items":"none"}}`, ShapeEmpty, nil},
		{"unrelated object", `{"status":"ok"}`, ShapeEmpty, nil},
		{"leading whitespace and BOM", "\xef\xbb\xbf \n{\"posts\":[{\"title\":\"W\"}]}", ShapePosts, []string{"W"}},
		{"non-object entries skipped", `{"posts":[null,1,"x",{"title":"D"},[]]}`, ShapePosts, []string{"D"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			shape, posts, err := DecodeResponse([]byte(test.body))
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if shape != test.shape {
				t.Errorf("Expected shape %s, got %s", test.shape, shape)
			}
			if len(posts) != len(test.titles) {
				t.Fatalf("Expected %d posts, got %d", len(test.titles), len(posts))
			}
			for i, title := range test.titles {
				if posts[i].Title != title {
					t.Errorf("Expected post %d title '%s', got '%s'", i, title, posts[i].Title)
				}
			}
		})
	}
}

func TestDecodeResponseRejectsNonJSON(t *testing.T) {
	for _, body := range []string{"", "   ", "<html></html>", "[1,2,3]", "null"} {
		_, _, err := DecodeResponse([]byte(body))
		if !errors.Is(err, ErrNotJSON) {
			t.Errorf("For body %q expected ErrNotJSON, got %v", body, err)
		}
	}
}

func TestDecodeResponseInvalidJSON(t *testing.T) {
	_, _, err := DecodeResponse([]byte(`{"posts":[{"title":`))
	if err == nil {
		t.Fatal("Expected error for truncated JSON")
	}
	if errors.Is(err, ErrNotJSON) {
		t.Error("Truncated JSON object should be a parse error, not ErrNotJSON")
	}
}

func TestDecodeResponseFields(t *testing.T) {
	body := `{"posts":[{
		"title": "T",
		"excerpt": "E",
		"summary": "S",
		"first_published_at": "2024-05-01T10:00:00+06:00",
		"url_path": "/home/news/1",
		"id": 17
	},{
		"title": 42,
		"excerpt": null,
		"url_path": ["/x"]
	}]}`

	_, posts, err := DecodeResponse([]byte(body))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := Post{
		Title:            "T",
		Excerpt:          "E",
		Summary:          "S",
		FirstPublishedAt: "2024-05-01T10:00:00+06:00",
		URLPath:          "/home/news/1",
	}
	if posts[0] != expected {
		t.Errorf("Expected %+v, got %+v", expected, posts[0])
	}

	if posts[1] != (Post{}) {
		t.Errorf("Expected non-string fields to be treated as missing, got %+v", posts[1])
	}
}
