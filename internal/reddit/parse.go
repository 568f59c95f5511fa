package reddit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/minjae/threadlens/internal/domain"
)

// listing is one element of the two-element response of the comments
// endpoint: first the submission, then the comment forest.
type listing struct {
	Kind string `json:"kind"`
	Data struct {
		Children []thing `json:"children"`
	} `json:"data"`
}

// thing is a kinded Reddit object. t3 is a submission, t1 a comment; "more"
// stubs are skipped.
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type postData struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	SelfText      string  `json:"selftext"`
	Author        string  `json:"author"`
	Subreddit     string  `json:"subreddit"`
	Score         int     `json:"score"`
	UpvoteRatio   float64 `json:"upvote_ratio"`
	NumComments   int     `json:"num_comments"`
	CreatedUTC    float64 `json:"created_utc"`
	URL           string  `json:"url"`
	Permalink     string  `json:"permalink"`
	IsSelf        bool    `json:"is_self"`
	LinkFlairText string  `json:"link_flair_text"`
	Over18        bool    `json:"over_18"`
	Spoiler       bool    `json:"spoiler"`
	Stickied      bool    `json:"stickied"`
	Locked        bool    `json:"locked"`
	IsVideo       bool    `json:"is_video"`
	IsGallery     bool    `json:"is_gallery"`
	GalleryData   *struct {
		Items []struct {
			MediaID string `json:"media_id"`
		} `json:"items"`
	} `json:"gallery_data"`
	MediaMetadata map[string]struct {
		S struct {
			U string `json:"u"`
		} `json:"s"`
	} `json:"media_metadata"`
}

type commentData struct {
	ID               string          `json:"id"`
	Body             string          `json:"body"`
	Author           string          `json:"author"`
	Score            int             `json:"score"`
	CreatedUTC       float64         `json:"created_utc"`
	IsSubmitter      bool            `json:"is_submitter"`
	Stickied         bool            `json:"stickied"`
	Edited           json.RawMessage `json:"edited"` // false, or an edit timestamp
	Controversiality int             `json:"controversiality"`
	Replies          json.RawMessage `json:"replies"` // nested listing, or ""
}

// parsePost extracts the submission from the first listing element.
func parsePost(listings []listing) (*domain.Post, error) {
	if len(listings) < 1 || len(listings[0].Data.Children) < 1 {
		return nil, fmt.Errorf("listing contains no submission")
	}
	child := listings[0].Data.Children[0]
	if child.Kind != "t3" {
		return nil, fmt.Errorf("unexpected kind %q for submission", child.Kind)
	}

	var data postData
	if err := json.Unmarshal(child.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode submission: %w", err)
	}

	post := &domain.Post{
		ID:          data.ID,
		Title:       data.Title,
		SelfText:    data.SelfText,
		Author:      authorOrDeleted(data.Author),
		Subreddit:   data.Subreddit,
		Score:       data.Score,
		UpvoteRatio: data.UpvoteRatio,
		NumComments: data.NumComments,
		CreatedAt:   time.Unix(int64(data.CreatedUTC), 0).UTC(),
		URL:         data.URL,
		Permalink:   "https://reddit.com" + data.Permalink,
		IsSelf:      data.IsSelf,
		FlairText:   data.LinkFlairText,
		Over18:      data.Over18,
		Spoiler:     data.Spoiler,
		Stickied:    data.Stickied,
		Locked:      data.Locked,
	}

	switch {
	case data.IsVideo:
		post.ContentType = domain.ContentTypeVideo
	case data.IsGallery:
		post.ContentType = domain.ContentTypeGallery
		post.GalleryURLs = galleryURLs(&data)
	case data.IsSelf:
		post.ContentType = domain.ContentTypeText
	default:
		post.ContentType = detectURLType(data.URL)
	}
	return post, nil
}

// galleryURLs resolves gallery items to their highest-quality image URLs,
// preserving gallery order.
func galleryURLs(data *postData) []string {
	if data.GalleryData == nil {
		return nil
	}
	var urls []string
	for _, item := range data.GalleryData.Items {
		media, ok := data.MediaMetadata[item.MediaID]
		if !ok || media.S.U == "" {
			continue
		}
		urls = append(urls, media.S.U)
	}
	return urls
}

// detectURLType classifies an outbound link by extension and host.
func detectURLType(rawURL string) domain.ContentType {
	lower := strings.ToLower(rawURL)

	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.Contains(lower, ext) {
			return domain.ContentTypeImage
		}
	}
	for _, host := range []string{"i.redd.it", "i.imgur.com"} {
		if strings.Contains(lower, host) {
			return domain.ContentTypeImage
		}
	}
	for _, host := range []string{"v.redd.it", "youtube.com", "youtu.be"} {
		if strings.Contains(lower, host) {
			return domain.ContentTypeVideo
		}
	}
	return domain.ContentTypeLink
}

// parseCommentForest extracts the top-level comments (with nested replies)
// from the second listing element.
func parseCommentForest(listings []listing) []domain.Comment {
	if len(listings) < 2 {
		return nil
	}
	var comments []domain.Comment
	for _, child := range listings[1].Data.Children {
		if child.Kind != "t1" {
			continue // "more" stubs
		}
		if c, ok := parseComment(child.Data, 0); ok {
			comments = append(comments, c)
		}
	}
	return comments
}

// parseComment decodes one comment and recurses into its replies while the
// depth cap allows. Replies below the cap are dropped, not flattened.
func parseComment(raw json.RawMessage, depth int) (domain.Comment, bool) {
	var data commentData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.Comment{}, false
	}

	c := domain.Comment{
		ID:               data.ID,
		Body:             data.Body,
		Author:           authorOrDeleted(data.Author),
		Score:            data.Score,
		CreatedAt:        time.Unix(int64(data.CreatedUTC), 0).UTC(),
		Depth:            depth,
		IsSubmitter:      data.IsSubmitter,
		Stickied:         data.Stickied,
		Edited:           isEdited(data.Edited),
		Controversiality: data.Controversiality,
	}

	if depth < domain.MaxCommentDepth && len(data.Replies) > 0 && data.Replies[0] == '{' {
		var nested listing
		if err := json.Unmarshal(data.Replies, &nested); err == nil {
			for _, child := range nested.Data.Children {
				if child.Kind != "t1" {
					continue
				}
				if reply, ok := parseComment(child.Data, depth+1); ok {
					c.Replies = append(c.Replies, reply)
				}
			}
		}
	}
	return c, true
}

func authorOrDeleted(author string) string {
	if author == "" {
		return "[deleted]"
	}
	return author
}

// isEdited interprets Reddit's edited field, which is false for untouched
// comments and an edit timestamp otherwise.
func isEdited(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "false"
}
