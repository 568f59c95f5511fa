package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/minjae/threadlens/internal/domain"
	"github.com/minjae/threadlens/internal/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is an expiring key-value cache over four independent tables.
// Caching is an optimization, never a correctness dependency: every storage
// error is caught here, logged, and surfaced as a miss or no-op. Rows expire
// lazily, checked on read and deleted opportunistically.
type Store struct {
	db     *gorm.DB
	expiry time.Duration
	log    *logger.Logger
}

// NewStore creates a Store with the given expiry window.
func NewStore(db *gorm.DB, expiry time.Duration, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Default()
	}
	return &Store{db: db, expiry: expiry, log: log.WithField(logger.FieldComponent, "cache")}
}

func (s *Store) expired(ts time.Time) bool {
	return time.Since(ts) > s.expiry
}

// CachedPost is the deserialized content of one post row.
type CachedPost struct {
	Post          *domain.Post
	ExtractedText string
	Result        *domain.AnalysisResult
	Timestamp     time.Time
}

// PutPost upserts the post row for url, stamping the current time. The
// result may be nil when only the raw post is known yet.
func (s *Store) PutPost(ctx context.Context, url string, post *domain.Post, extractedText string, result *domain.AnalysisResult) bool {
	raw, err := json.Marshal(post)
	if err != nil {
		s.log.WithError(err).Warn("Failed to serialize post for cache")
		return false
	}

	entry := PostEntry{
		URL:           url,
		RawData:       string(raw),
		ExtractedText: extractedText,
		Timestamp:     time.Now(),
	}
	if result != nil {
		enriched, err := json.Marshal(result)
		if err != nil {
			s.log.WithError(err).Warn("Failed to serialize analysis result for cache")
		} else {
			entry.EnrichedData = string(enriched)
		}
	}

	if err := s.upsert(ctx, &entry, "url"); err != nil {
		s.log.WithError(err).Warn("Failed to write post cache entry")
		return false
	}
	return true
}

// GetPost returns the cached post row for url, or a miss when absent,
// expired, or unreadable. Expired rows are deleted as a side effect.
func (s *Store) GetPost(ctx context.Context, url string) (*CachedPost, bool) {
	var entry PostEntry
	if err := s.db.WithContext(ctx).First(&entry, "url = ?", url).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			s.log.WithError(err).Warn("Post cache read failed, treating as miss")
		}
		return nil, false
	}

	if s.expired(entry.Timestamp) {
		s.DeletePost(ctx, url)
		return nil, false
	}

	var post domain.Post
	if err := json.Unmarshal([]byte(entry.RawData), &post); err != nil {
		s.log.WithError(err).Warn("Unparseable post cache payload, treating as miss")
		return nil, false
	}

	cached := &CachedPost{
		Post:          &post,
		ExtractedText: entry.ExtractedText,
		Timestamp:     entry.Timestamp,
	}
	if entry.EnrichedData != "" {
		var result domain.AnalysisResult
		if err := json.Unmarshal([]byte(entry.EnrichedData), &result); err != nil {
			s.log.WithError(err).Warn("Unparseable enriched cache payload, ignoring")
		} else {
			cached.Result = &result
		}
	}
	return cached, true
}

// DeletePost removes the post row for url.
func (s *Store) DeletePost(ctx context.Context, url string) {
	if err := s.db.WithContext(ctx).Delete(&PostEntry{}, "url = ?", url).Error; err != nil {
		s.log.WithError(err).Warn("Failed to delete post cache entry")
	}
}

// PutComment upserts one comment row keyed by comment ID.
func (s *Store) PutComment(ctx context.Context, postURL string, c domain.Comment, enriched *domain.EnrichedComment) bool {
	raw, err := json.Marshal(c)
	if err != nil {
		s.log.WithError(err).Warn("Failed to serialize comment for cache")
		return false
	}
	entry := CommentEntry{
		CommentID: c.ID,
		PostURL:   postURL,
		RawData:   string(raw),
		Timestamp: time.Now(),
	}
	if enriched != nil {
		data, err := json.Marshal(enriched)
		if err == nil {
			entry.EnrichedData = string(data)
		}
	}
	if err := s.upsert(ctx, &entry, "comment_id"); err != nil {
		s.log.WithError(err).Warn("Failed to write comment cache entry")
		return false
	}
	return true
}

// GetComment returns the cached enrichment for a comment ID, or a miss.
func (s *Store) GetComment(ctx context.Context, commentID string) (*domain.EnrichedComment, bool) {
	var entry CommentEntry
	if err := s.db.WithContext(ctx).First(&entry, "comment_id = ?", commentID).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			s.log.WithError(err).Warn("Comment cache read failed, treating as miss")
		}
		return nil, false
	}
	if s.expired(entry.Timestamp) {
		if err := s.db.WithContext(ctx).Delete(&CommentEntry{}, "comment_id = ?", commentID).Error; err != nil {
			s.log.WithError(err).Warn("Failed to delete expired comment cache entry")
		}
		return nil, false
	}
	if entry.EnrichedData == "" {
		return nil, false
	}
	var enriched domain.EnrichedComment
	if err := json.Unmarshal([]byte(entry.EnrichedData), &enriched); err != nil {
		s.log.WithError(err).Warn("Unparseable comment cache payload, treating as miss")
		return nil, false
	}
	return &enriched, true
}

// PutOCR upserts extracted image text keyed by image URL.
func (s *Store) PutOCR(ctx context.Context, imageURL, text, method string) bool {
	entry := OCREntry{
		ImageURL:      imageURL,
		ExtractedText: text,
		Method:        method,
		Timestamp:     time.Now(),
	}
	if err := s.upsert(ctx, &entry, "image_url"); err != nil {
		s.log.WithError(err).Warn("Failed to write OCR cache entry")
		return false
	}
	return true
}

// GetOCR returns cached image text, or a miss.
func (s *Store) GetOCR(ctx context.Context, imageURL string) (string, bool) {
	var entry OCREntry
	if err := s.db.WithContext(ctx).First(&entry, "image_url = ?", imageURL).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			s.log.WithError(err).Warn("OCR cache read failed, treating as miss")
		}
		return "", false
	}
	if s.expired(entry.Timestamp) {
		if err := s.db.WithContext(ctx).Delete(&OCREntry{}, "image_url = ?", imageURL).Error; err != nil {
			s.log.WithError(err).Warn("Failed to delete expired OCR cache entry")
		}
		return "", false
	}
	return entry.ExtractedText, true
}

// PutLink upserts extracted article content keyed by link URL.
func (s *Store) PutLink(ctx context.Context, url string, content *domain.LinkContent) bool {
	entry := LinkEntry{
		URL:          url,
		Title:        content.Title,
		Content:      content.Text,
		SourceDomain: content.SourceDomain,
		Timestamp:    time.Now(),
	}
	if err := s.upsert(ctx, &entry, "url"); err != nil {
		s.log.WithError(err).Warn("Failed to write link cache entry")
		return false
	}
	return true
}

// GetLink returns cached article content, or a miss.
func (s *Store) GetLink(ctx context.Context, url string) (*domain.LinkContent, bool) {
	var entry LinkEntry
	if err := s.db.WithContext(ctx).First(&entry, "url = ?", url).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			s.log.WithError(err).Warn("Link cache read failed, treating as miss")
		}
		return nil, false
	}
	if s.expired(entry.Timestamp) {
		if err := s.db.WithContext(ctx).Delete(&LinkEntry{}, "url = ?", url).Error; err != nil {
			s.log.WithError(err).Warn("Failed to delete expired link cache entry")
		}
		return nil, false
	}
	return &domain.LinkContent{
		Title:        entry.Title,
		Text:         entry.Content,
		SourceDomain: entry.SourceDomain,
	}, true
}

// Stats counts rows per kind. Failed counts report zero.
func (s *Store) Stats(ctx context.Context) map[string]int64 {
	return map[string]int64{
		KindPosts:    s.count(ctx, &PostEntry{}),
		KindComments: s.count(ctx, &CommentEntry{}),
		KindOCR:      s.count(ctx, &OCREntry{}),
		KindLinks:    s.count(ctx, &LinkEntry{}),
	}
}

func (s *Store) count(ctx context.Context, model interface{}) int64 {
	var n int64
	if err := s.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
		s.log.WithError(err).Warn("Cache count failed")
		return 0
	}
	return n
}

// SweepExpired deletes all expired rows and returns per-kind deletion counts.
func (s *Store) SweepExpired(ctx context.Context) map[string]int64 {
	cutoff := time.Now().Add(-s.expiry)
	return map[string]int64{
		KindPosts:    s.deleteBefore(ctx, &PostEntry{}, cutoff),
		KindComments: s.deleteBefore(ctx, &CommentEntry{}, cutoff),
		KindOCR:      s.deleteBefore(ctx, &OCREntry{}, cutoff),
		KindLinks:    s.deleteBefore(ctx, &LinkEntry{}, cutoff),
	}
}

func (s *Store) deleteBefore(ctx context.Context, model interface{}, cutoff time.Time) int64 {
	res := s.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(model)
	if res.Error != nil {
		s.log.WithError(res.Error).Warn("Cache sweep failed")
		return 0
	}
	return res.RowsAffected
}

// ClearAll drops every row from every table.
func (s *Store) ClearAll(ctx context.Context) error {
	for _, model := range []interface{}{&PostEntry{}, &CommentEntry{}, &OCREntry{}, &LinkEntry{}} {
		if err := s.db.WithContext(ctx).Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// upsert writes the entry, replacing any prior row with the same key.
func (s *Store) upsert(ctx context.Context, entry interface{}, keyColumn string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: keyColumn}},
		UpdateAll: true,
	}).Create(entry).Error
}
