package reddit

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/minjae/threadlens/internal/domain"
)

const textPostListing = `[
  {"kind": "Listing", "data": {"children": [
    {"kind": "t3", "data": {
      "id": "1abc23",
      "title": "How to handle errors",
      "selftext": "I keep wrapping everything.",
      "author": "gopher",
      "subreddit": "golang",
      "score": 120,
      "upvote_ratio": 0.97,
      "num_comments": 3,
      "created_utc": 1735689600.0,
      "url": "https://www.reddit.com/r/golang/comments/1abc23/how_to_handle_errors/",
      "permalink": "/r/golang/comments/1abc23/how_to_handle_errors/",
      "is_self": true,
      "over_18": false
    }}
  ]}},
  {"kind": "Listing", "data": {"children": [
    {"kind": "t1", "data": {
      "id": "c1",
      "body": "Wrap at boundaries only.",
      "author": "reviewer",
      "score": 40,
      "created_utc": 1735693200.0,
      "is_submitter": false,
      "edited": false,
      "controversiality": 0,
      "replies": {"kind": "Listing", "data": {"children": [
        {"kind": "t1", "data": {
          "id": "c2",
          "body": "Agreed.",
          "author": "gopher",
          "score": 5,
          "created_utc": 1735696800.0,
          "is_submitter": true,
          "edited": 1735700000.0,
          "controversiality": 0,
          "replies": ""
        }}
      ]}}
    }},
    {"kind": "t1", "data": {
      "id": "c3",
      "body": "Use sentinel errors.",
      "author": "",
      "score": 12,
      "created_utc": 1735693300.0,
      "edited": false,
      "replies": ""
    }},
    {"kind": "more", "data": {"count": 10, "children": ["c4", "c5"]}}
  ]}}
]`

func decodeListing(t *testing.T, raw string) []listing {
	t.Helper()
	var listings []listing
	if err := json.Unmarshal([]byte(raw), &listings); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return listings
}

func TestParsePost(t *testing.T) {
	post, err := parsePost(decodeListing(t, textPostListing))
	if err != nil {
		t.Fatalf("parsePost: %v", err)
	}

	if post.ID != "1abc23" {
		t.Errorf("ID = %q, want 1abc23", post.ID)
	}
	if post.ContentType != domain.ContentTypeText {
		t.Errorf("ContentType = %q, want text", post.ContentType)
	}
	if post.Author != "gopher" || post.Subreddit != "golang" {
		t.Errorf("author/subreddit = %q/%q", post.Author, post.Subreddit)
	}
	if post.Permalink != "https://reddit.com/r/golang/comments/1abc23/how_to_handle_errors/" {
		t.Errorf("Permalink = %q", post.Permalink)
	}
	if post.NumComments != 3 {
		t.Errorf("NumComments = %d, want 3", post.NumComments)
	}
}

func TestParseCommentForest(t *testing.T) {
	comments := parseCommentForest(decodeListing(t, textPostListing))

	if len(comments) != 2 {
		t.Fatalf("top-level comments = %d, want 2 (more stub skipped)", len(comments))
	}

	first := comments[0]
	if first.ID != "c1" || first.Depth != 0 {
		t.Errorf("first = %q depth %d, want c1 depth 0", first.ID, first.Depth)
	}
	if first.Edited {
		t.Error("first comment should not be edited")
	}
	if len(first.Replies) != 1 {
		t.Fatalf("first.Replies = %d, want 1", len(first.Replies))
	}

	reply := first.Replies[0]
	if reply.ID != "c2" || reply.Depth != 1 {
		t.Errorf("reply = %q depth %d, want c2 depth 1", reply.ID, reply.Depth)
	}
	if !reply.Edited {
		t.Error("reply carries an edit timestamp, want Edited=true")
	}
	if !reply.IsSubmitter {
		t.Error("reply is from OP, want IsSubmitter=true")
	}

	if comments[1].Author != "[deleted]" {
		t.Errorf("empty author = %q, want [deleted]", comments[1].Author)
	}
}

func TestParseCommentDepthCap(t *testing.T) {
	// Build a chain nested two levels past the cap.
	leaf := `{"id": "c9", "body": "leaf", "author": "a", "score": 1, "edited": false, "replies": ""}`
	chain := leaf
	for i := 8; i >= 0; i-- {
		chain = fmt.Sprintf(
			`{"id": "c%d", "body": "level", "author": "a", "score": 1, "edited": false,
			  "replies": {"kind": "Listing", "data": {"children": [{"kind": "t1", "data": %s}]}}}`,
			i, chain)
	}

	c, ok := parseComment(json.RawMessage(chain), 0)
	if !ok {
		t.Fatal("parseComment failed")
	}

	depth := 0
	for cur := c; len(cur.Replies) > 0; cur = cur.Replies[0] {
		depth = cur.Replies[0].Depth
	}
	if depth != domain.MaxCommentDepth {
		t.Errorf("deepest retained depth = %d, want %d", depth, domain.MaxCommentDepth)
	}
}

func TestDetectURLType(t *testing.T) {
	tests := []struct {
		url  string
		want domain.ContentType
	}{
		{"https://i.redd.it/abc.png", domain.ContentTypeImage},
		{"https://i.imgur.com/abc", domain.ContentTypeImage},
		{"https://example.com/photo.JPEG", domain.ContentTypeImage},
		{"https://v.redd.it/xyz", domain.ContentTypeVideo},
		{"https://youtu.be/xyz", domain.ContentTypeVideo},
		{"https://www.youtube.com/watch?v=xyz", domain.ContentTypeVideo},
		{"https://example.com/article", domain.ContentTypeLink},
	}

	for _, tt := range tests {
		if got := detectURLType(tt.url); got != tt.want {
			t.Errorf("detectURLType(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestParsePostGallery(t *testing.T) {
	raw := strings.Replace(textPostListing,
		`"is_self": true,`,
		`"is_self": false, "is_gallery": true,
		 "gallery_data": {"items": [{"media_id": "m1"}, {"media_id": "m2"}]},
		 "media_metadata": {
		   "m1": {"s": {"u": "https://i.redd.it/m1.jpg"}},
		   "m2": {"s": {"u": "https://i.redd.it/m2.jpg"}}
		 },`, 1)

	post, err := parsePost(decodeListing(t, raw))
	if err != nil {
		t.Fatalf("parsePost: %v", err)
	}
	if post.ContentType != domain.ContentTypeGallery {
		t.Fatalf("ContentType = %q, want gallery", post.ContentType)
	}
	if len(post.GalleryURLs) != 2 || post.GalleryURLs[0] != "https://i.redd.it/m1.jpg" {
		t.Errorf("GalleryURLs = %v", post.GalleryURLs)
	}
}
