package domain

import "time"

// ContentType classifies what a post links to, which decides the extraction path.
type ContentType string

const (
	ContentTypeText    ContentType = "text"
	ContentTypeImage   ContentType = "image"
	ContentTypeGallery ContentType = "gallery"
	ContentTypeLink    ContentType = "link"
	ContentTypeVideo   ContentType = "video"
)

// Post holds the fetched submission plus any text the extractor recovered
// from its media or linked page.
type Post struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	SelfText    string      `json:"selftext"`
	Author      string      `json:"author"`
	Subreddit   string      `json:"subreddit"`
	Score       int         `json:"score"`
	UpvoteRatio float64     `json:"upvote_ratio"`
	NumComments int         `json:"num_comments"`
	CreatedAt   time.Time   `json:"created_utc"`
	URL         string      `json:"url"`
	Permalink   string      `json:"permalink"`
	IsSelf      bool        `json:"is_self"`
	FlairText   string      `json:"link_flair_text,omitempty"`
	Over18      bool        `json:"over_18"`
	Spoiler     bool        `json:"spoiler"`
	Stickied    bool        `json:"stickied"`
	Locked      bool        `json:"locked"`
	ContentType ContentType `json:"content_type"`
	GalleryURLs []string    `json:"gallery_urls,omitempty"`

	// Filled by the content extractor.
	ExtractedText string       `json:"extracted_text,omitempty"`
	LinkContent   *LinkContent `json:"link_content,omitempty"`
}

// LinkContent is the extracted body of an external page a post links to.
type LinkContent struct {
	Title        string `json:"title"`
	Text         string `json:"text"`
	SourceDomain string `json:"source_domain"`
}
