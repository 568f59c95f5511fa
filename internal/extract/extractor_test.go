package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/minjae/threadlens/internal/config"
	"github.com/minjae/threadlens/internal/domain"
)

type fakeVision struct {
	text  string
	err   error
	calls int
}

func (f *fakeVision) ExtractImageText(ctx context.Context, data []byte, mimeType string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeOCRCache struct {
	entries map[string]string
	puts    int
}

func (f *fakeOCRCache) GetOCR(ctx context.Context, imageURL string) (string, bool) {
	text, ok := f.entries[imageURL]
	return text, ok
}

func (f *fakeOCRCache) PutOCR(ctx context.Context, imageURL, text, method string) bool {
	if f.entries == nil {
		f.entries = map[string]string{}
	}
	f.entries[imageURL] = text
	f.puts++
	return true
}

func newTestExtractor(vision VisionOCR, ocrCache OCRCache) *Extractor {
	return New(&config.ProcessingConfig{LinkFetchTimeout: 5}, vision, ocrCache, nil, nil)
}

func TestExtractTextPost(t *testing.T) {
	e := newTestExtractor(nil, nil)
	post := &domain.Post{
		Title:       "A question",
		SelfText:    "The body.",
		ContentType: domain.ContentTypeText,
	}

	got := e.Extract(context.Background(), post)
	want := "Title: A question\n\nBody: The body."
	if got != want {
		t.Errorf("extracted = %q, want %q", got, want)
	}
	if post.ExtractedText != want {
		t.Error("post.ExtractedText not set")
	}
}

func TestExtractVideoPost(t *testing.T) {
	e := newTestExtractor(nil, nil)
	post := &domain.Post{
		Title:       "Clip",
		ContentType: domain.ContentTypeVideo,
	}

	got := e.Extract(context.Background(), post)
	if !strings.Contains(got, videoMarker) {
		t.Errorf("extracted = %q, want video marker", got)
	}
}

func TestExtractImagePost(t *testing.T) {
	downloads := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downloads++
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("fake png bytes"))
	}))
	defer server.Close()

	vision := &fakeVision{text: "  SOME   TEXT\n\n  in image  "}
	cache := &fakeOCRCache{}
	e := newTestExtractor(vision, cache)

	post := &domain.Post{
		Title:       "Screenshot",
		URL:         server.URL + "/img.png",
		ContentType: domain.ContentTypeImage,
	}

	got := e.Extract(context.Background(), post)
	if !strings.Contains(got, "Image Text: SOME TEXT in image") {
		t.Errorf("extracted = %q", got)
	}
	if downloads != 1 || vision.calls != 1 {
		t.Errorf("downloads=%d vision calls=%d, want 1 each", downloads, vision.calls)
	}
	if cache.puts != 1 {
		t.Errorf("cache puts = %d, want 1", cache.puts)
	}
}

func TestExtractImageCacheHitSkipsDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no download expected on cache hit")
	}))
	defer server.Close()

	imageURL := server.URL + "/img.png"
	vision := &fakeVision{text: "unused"}
	cache := &fakeOCRCache{entries: map[string]string{imageURL: "cached text"}}
	e := newTestExtractor(vision, cache)

	post := &domain.Post{
		Title:       "Screenshot",
		URL:         imageURL,
		ContentType: domain.ContentTypeImage,
	}

	got := e.Extract(context.Background(), post)
	if !strings.Contains(got, "Image Text: cached text") {
		t.Errorf("extracted = %q", got)
	}
	if vision.calls != 0 {
		t.Errorf("vision calls = %d, want 0", vision.calls)
	}
}

func TestExtractImageWithoutVision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no download expected without a vision engine")
	}))
	defer server.Close()

	e := newTestExtractor(nil, nil)
	post := &domain.Post{
		Title:       "Screenshot",
		URL:         server.URL + "/img.png",
		ContentType: domain.ContentTypeImage,
	}

	got := e.Extract(context.Background(), post)
	if got != "Title: Screenshot" {
		t.Errorf("extracted = %q, want title only", got)
	}
}

func TestExtractGalleryCapsImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("img"))
	}))
	defer server.Close()

	vision := &fakeVision{text: "text"}
	e := newTestExtractor(vision, nil)

	urls := make([]string, 8)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/img%d.jpg", server.URL, i)
	}
	post := &domain.Post{
		Title:       "Gallery",
		GalleryURLs: urls,
		ContentType: domain.ContentTypeGallery,
	}

	got := e.Extract(context.Background(), post)
	if vision.calls != maxGalleryImages {
		t.Errorf("vision calls = %d, want %d", vision.calls, maxGalleryImages)
	}
	if !strings.Contains(got, "Image 1 Text: text") || !strings.Contains(got, "Image 5 Text: text") {
		t.Errorf("extracted = %q", got)
	}
	if strings.Contains(got, "Image 6") {
		t.Error("gallery processed past the cap")
	}
}

func TestExtractLinkPost(t *testing.T) {
	page := `<html><head><title>An Article</title></head><body>
	  <nav>Home | About</nav>
	  <article><p>First paragraph.</p><p>Second   paragraph.</p></article>
	  <footer>footer junk</footer>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer server.Close()

	e := newTestExtractor(nil, nil)
	post := &domain.Post{
		Title:       "Worth reading",
		URL:         server.URL + "/article",
		ContentType: domain.ContentTypeLink,
	}

	got := e.Extract(context.Background(), post)
	if !strings.Contains(got, "Linked Article Title: An Article") {
		t.Errorf("missing article title: %q", got)
	}
	if !strings.Contains(got, "First paragraph. Second paragraph.") {
		t.Errorf("missing article text: %q", got)
	}
	if strings.Contains(got, "Home | About") || strings.Contains(got, "footer junk") {
		t.Errorf("navigation chrome leaked into text: %q", got)
	}
	if post.LinkContent == nil || post.LinkContent.Title != "An Article" {
		t.Errorf("LinkContent = %+v", post.LinkContent)
	}
}

func TestExtractLinkFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	e := newTestExtractor(nil, nil)
	post := &domain.Post{
		Title:       "Dead link",
		URL:         server.URL + "/gone",
		ContentType: domain.ContentTypeLink,
	}

	got := e.Extract(context.Background(), post)
	if got != "Title: Dead link" {
		t.Errorf("extracted = %q, want title only on fetch failure", got)
	}
	if post.LinkContent != nil {
		t.Error("LinkContent should stay nil on failure")
	}
}

func TestCleanOCRText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \n \t \n ", ""},
		{"collapses lines", "line one\n\n  line two  \nline three", "line one line two line three"},
		{"collapses runs", "a    b\t\tc", "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanOCRText(tt.in); got != tt.want {
				t.Errorf("CleanOCRText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestImageMIMEType(t *testing.T) {
	tests := []struct {
		url         string
		contentType string
		want        string
	}{
		{"https://i.redd.it/a.png", "", "image/png"},
		{"https://i.redd.it/a.png", "image/webp", "image/webp"},
		{"https://i.redd.it/a", "image/jpeg; charset=binary", "image/jpeg"},
		{"https://i.redd.it/a.gif", "text/html", "image/gif"},
		{"https://i.redd.it/mystery", "", "image/jpeg"},
	}
	for _, tt := range tests {
		if got := imageMIMEType(tt.url, tt.contentType); got != tt.want {
			t.Errorf("imageMIMEType(%q, %q) = %q, want %q", tt.url, tt.contentType, got, tt.want)
		}
	}
}

func TestParsePageTruncation(t *testing.T) {
	long := strings.Repeat("word ", 4000)
	page := "<html><head><title>T</title></head><body><article>" + long + "</article></body></html>"

	content := parsePage([]byte(page))
	if content == nil {
		t.Fatal("expected content")
	}
	if len(content.Text) > maxArticleStored+3 {
		t.Errorf("text length = %d, want at most %d plus ellipsis", len(content.Text), maxArticleStored)
	}
	if !strings.HasSuffix(content.Text, "...") {
		t.Error("truncated text should end with ellipsis")
	}
}
