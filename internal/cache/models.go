package cache

import "time"

// Kind names reported by Stats and SweepExpired.
const (
	KindPosts    = "posts"
	KindComments = "comments"
	KindOCR      = "ocr_results"
	KindLinks    = "link_content"
)

// PostEntry caches a fetched post keyed by its URL, together with the
// extracted text and, once available, the full enriched analysis result.
type PostEntry struct {
	URL           string    `gorm:"type:text;primaryKey"`
	RawData       string    `gorm:"type:text;not null"`
	ExtractedText string    `gorm:"type:text"`
	EnrichedData  string    `gorm:"type:text"`
	Timestamp     time.Time `gorm:"index:idx_posts_timestamp"`
}

func (PostEntry) TableName() string { return "posts" }

// CommentEntry caches a single comment and its enrichment keyed by comment ID.
type CommentEntry struct {
	CommentID    string    `gorm:"type:text;primaryKey"`
	PostURL      string    `gorm:"type:text;not null;index:idx_comments_post_url"`
	RawData      string    `gorm:"type:text;not null"`
	EnrichedData string    `gorm:"type:text"`
	Timestamp    time.Time `gorm:"index:idx_comments_timestamp"`
}

func (CommentEntry) TableName() string { return "comments" }

// OCREntry caches extracted image text keyed by image URL.
type OCREntry struct {
	ImageURL      string    `gorm:"type:text;primaryKey"`
	ExtractedText string    `gorm:"type:text;not null"`
	Method        string    `gorm:"type:text"`
	Timestamp     time.Time `gorm:"index:idx_ocr_timestamp"`
}

func (OCREntry) TableName() string { return "ocr_results" }

// LinkEntry caches an extracted article keyed by link URL.
type LinkEntry struct {
	URL          string    `gorm:"type:text;primaryKey"`
	Title        string    `gorm:"type:text"`
	Content      string    `gorm:"type:text"`
	SourceDomain string    `gorm:"type:text"`
	Timestamp    time.Time `gorm:"index:idx_link_timestamp"`
}

func (LinkEntry) TableName() string { return "link_content" }
