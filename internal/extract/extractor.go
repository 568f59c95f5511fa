package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/minjae/threadlens/internal/config"
	"github.com/minjae/threadlens/internal/domain"
	"github.com/minjae/threadlens/internal/logger"
)

// maxGalleryImages bounds OCR work on gallery posts.
const maxGalleryImages = 5

// videoMarker is appended for video posts, which have no extractable text.
const videoMarker = "[Video content - unsupported for text extraction]"

// VisionOCR reads text out of raw image bytes. A nil implementation disables
// image extraction without failing the pipeline.
type VisionOCR interface {
	ExtractImageText(ctx context.Context, imageData []byte, mimeType string) (string, error)
}

// OCRCache stores extracted image text keyed by image URL.
type OCRCache interface {
	GetOCR(ctx context.Context, imageURL string) (string, bool)
	PutOCR(ctx context.Context, imageURL, text, method string) bool
}

// LinkCache stores extracted article content keyed by link URL.
type LinkCache interface {
	GetLink(ctx context.Context, url string) (*domain.LinkContent, bool)
	PutLink(ctx context.Context, url string, content *domain.LinkContent) bool
}

// Extractor recovers analyzable text from a post's media and links. All
// extraction is best effort: a failed download, OCR call, or parse degrades
// to "no text extracted" and the pipeline continues with whatever it has.
type Extractor struct {
	http      *resty.Client
	vision    VisionOCR
	ocrCache  OCRCache
	linkCache LinkCache
	log       *logger.Logger
}

// New creates an Extractor. vision, ocrCache, and linkCache may each be nil;
// a nil vision skips image text extraction silently, nil caches disable
// short-circuiting.
func New(cfg *config.ProcessingConfig, vision VisionOCR, ocrCache OCRCache, linkCache LinkCache, log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.Default()
	}

	timeout := time.Duration(cfg.LinkFetchTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; threadlens/1.0)")

	return &Extractor{
		http:      client,
		vision:    vision,
		ocrCache:  ocrCache,
		linkCache: linkCache,
		log:       log.WithField(logger.FieldComponent, "extract"),
	}
}

// Extract recovers text for the post according to its content type, sets
// post.ExtractedText (and post.LinkContent for link posts), and returns the
// combined text. The title is always the first section.
func (e *Extractor) Extract(ctx context.Context, post *domain.Post) string {
	e.log.WithFields(logger.Fields{
		logger.FieldPostID: post.ID,
		"content_type":     post.ContentType,
	}).Info("Extracting post content")

	var sections []string
	if post.Title != "" {
		sections = append(sections, "Title: "+post.Title)
	}

	switch post.ContentType {
	case domain.ContentTypeText:
		if post.SelfText != "" {
			sections = append(sections, "Body: "+post.SelfText)
		}

	case domain.ContentTypeImage:
		if text := e.extractFromImage(ctx, post.URL); text != "" {
			sections = append(sections, "Image Text: "+text)
		}

	case domain.ContentTypeGallery:
		urls := post.GalleryURLs
		if len(urls) > maxGalleryImages {
			urls = urls[:maxGalleryImages]
		}
		for i, imageURL := range urls {
			if text := e.extractFromImage(ctx, imageURL); text != "" {
				sections = append(sections, fmt.Sprintf("Image %d Text: %s", i+1, text))
			}
		}

	case domain.ContentTypeLink:
		if content := e.extractFromLink(ctx, post.URL); content != nil {
			post.LinkContent = content
			sections = append(sections, "Linked Article Title: "+content.Title)
			if content.Text != "" {
				sections = append(sections, "Article Content: "+truncateRunes(content.Text, maxArticleInline))
			}
		}

	case domain.ContentTypeVideo:
		e.log.Info("Video content, skipping extraction")
		sections = append(sections, videoMarker)
	}

	post.ExtractedText = strings.Join(sections, "\n\n")
	return post.ExtractedText
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
