package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/minjae/threadlens/internal/config"
	"github.com/minjae/threadlens/internal/domain"
	"github.com/minjae/threadlens/internal/logger"
)

func newTestStore(t *testing.T, expiry time.Duration) *Store {
	t.Helper()
	db, err := InitDB(&config.CacheConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "cache.db"),
	})
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return NewStore(db, expiry, logger.Default())
}

func testPost(id string) *domain.Post {
	return &domain.Post{
		ID:          id,
		Title:       "How do I fix this",
		Author:      "someone",
		Subreddit:   "golang",
		SelfText:    "body text",
		Score:       42,
		ContentType: domain.ContentTypeText,
	}
}

func TestStorePostRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Hour)
	url := "https://reddit.com/r/golang/comments/abc123/how"

	if _, ok := s.GetPost(ctx, url); ok {
		t.Fatal("expected miss on empty store")
	}

	if !s.PutPost(ctx, url, testPost("abc123"), "extracted", nil) {
		t.Fatal("PutPost failed")
	}

	cached, ok := s.GetPost(ctx, url)
	if !ok {
		t.Fatal("expected hit after put")
	}
	if cached.Post.ID != "abc123" {
		t.Errorf("post ID = %q, want abc123", cached.Post.ID)
	}
	if cached.ExtractedText != "extracted" {
		t.Errorf("extracted text = %q, want extracted", cached.ExtractedText)
	}
	if cached.Result != nil {
		t.Error("expected nil result when none was stored")
	}
}

func TestStorePostOverwrite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Hour)
	url := "https://reddit.com/r/golang/comments/abc123/how"

	s.PutPost(ctx, url, testPost("abc123"), "first", nil)

	result := &domain.AnalysisResult{Success: true}
	result.Metadata.PostID = "abc123"
	s.PutPost(ctx, url, testPost("abc123"), "second", result)

	cached, ok := s.GetPost(ctx, url)
	if !ok {
		t.Fatal("expected hit")
	}
	if cached.ExtractedText != "second" {
		t.Errorf("extracted text = %q, want second", cached.ExtractedText)
	}
	if cached.Result == nil || !cached.Result.Success {
		t.Error("expected stored result to survive round trip")
	}

	if n := s.Stats(ctx)[KindPosts]; n != 1 {
		t.Errorf("post rows = %d, want 1 after overwrite", n)
	}
}

func TestStoreExpiryOnRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Hour)
	url := "https://reddit.com/r/golang/comments/old/post"

	s.PutPost(ctx, url, testPost("old"), "", nil)

	// Backdate the row past the expiry window.
	past := time.Now().Add(-2 * time.Hour)
	if err := s.db.Model(&PostEntry{}).Where("url = ?", url).Update("timestamp", past).Error; err != nil {
		t.Fatalf("backdating row: %v", err)
	}

	if _, ok := s.GetPost(ctx, url); ok {
		t.Fatal("expected miss for expired row")
	}
	if n := s.Stats(ctx)[KindPosts]; n != 0 {
		t.Errorf("post rows = %d, want 0 after expired read", n)
	}
}

func TestStoreCommentRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Hour)

	c := domain.Comment{ID: "c1", Body: "useful answer", Score: 10}
	enriched := domain.DefaultEnrichedComment(c)
	enriched.QualityScore = 8.5

	s.PutComment(ctx, "https://reddit.com/x", c, &enriched)

	got, ok := s.GetComment(ctx, "c1")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.QualityScore != 8.5 {
		t.Errorf("quality = %v, want 8.5", got.QualityScore)
	}

	// A row stored without enrichment reads as a miss.
	s.PutComment(ctx, "https://reddit.com/x", domain.Comment{ID: "c2", Body: "raw only"}, nil)
	if _, ok := s.GetComment(ctx, "c2"); ok {
		t.Fatal("expected miss for comment without enrichment")
	}
}

func TestStoreOCRAndLink(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Hour)

	s.PutOCR(ctx, "https://i.redd.it/a.png", "text in image", "vision")
	text, ok := s.GetOCR(ctx, "https://i.redd.it/a.png")
	if !ok || text != "text in image" {
		t.Errorf("GetOCR = %q, %v; want hit with stored text", text, ok)
	}

	s.PutLink(ctx, "https://example.com/article", &domain.LinkContent{
		Title:        "Title",
		Text:         "article body",
		SourceDomain: "example.com",
	})
	lc, ok := s.GetLink(ctx, "https://example.com/article")
	if !ok {
		t.Fatal("expected link hit")
	}
	if lc.Title != "Title" || lc.SourceDomain != "example.com" {
		t.Errorf("link content = %+v", lc)
	}
}

func TestStoreSweepExpired(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Hour)

	s.PutPost(ctx, "u1", testPost("p1"), "", nil)
	s.PutPost(ctx, "u2", testPost("p2"), "", nil)
	s.PutOCR(ctx, "img1", "t", "vision")

	past := time.Now().Add(-2 * time.Hour)
	if err := s.db.Model(&PostEntry{}).Where("url = ?", "u1").Update("timestamp", past).Error; err != nil {
		t.Fatalf("backdating row: %v", err)
	}

	deleted := s.SweepExpired(ctx)
	if deleted[KindPosts] != 1 {
		t.Errorf("swept posts = %d, want 1", deleted[KindPosts])
	}
	if deleted[KindOCR] != 0 {
		t.Errorf("swept ocr = %d, want 0", deleted[KindOCR])
	}

	stats := s.Stats(ctx)
	if stats[KindPosts] != 1 || stats[KindOCR] != 1 {
		t.Errorf("stats after sweep = %v", stats)
	}
}

func TestStoreClearAll(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, time.Hour)

	s.PutPost(ctx, "u1", testPost("p1"), "", nil)
	s.PutComment(ctx, "u1", domain.Comment{ID: "c1", Body: "b"}, nil)
	s.PutOCR(ctx, "img", "t", "vision")
	s.PutLink(ctx, "l", &domain.LinkContent{Title: "t"})

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	for kind, n := range s.Stats(ctx) {
		if n != 0 {
			t.Errorf("%s rows = %d after clear, want 0", kind, n)
		}
	}
}
