package reddit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/minjae/threadlens/internal/config"
	"github.com/minjae/threadlens/internal/domain"
	"github.com/minjae/threadlens/internal/logger"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	authURL = "https://www.reddit.com/api/v1/access_token"
	apiURL  = "https://oauth.reddit.com"

	// How many top-level items to request from the listing endpoint. The
	// sampling pass trims this down afterwards.
	listingLimit = 500
)

// ErrPostNotFound reports that the Reddit API has no post under the given ID,
// as opposed to a transient API failure.
var ErrPostNotFound = errors.New("post not found")

// Client fetches submissions and comment trees from the Reddit API using the
// application-only OAuth flow. Token refresh is handled by the underlying
// oauth2 transport.
type Client struct {
	http *resty.Client
	log  *logger.Logger
}

// NewClient creates a Reddit API client.
// Parameters:
//   - cfg: Reddit credentials and user agent.
//   - log: logger, or nil for the process default.
//
// Returns:
//   - *Client: initialized client.
func NewClient(cfg *config.RedditConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Default()
	}

	oauthConf := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     authURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	client := resty.NewWithClient(oauthConf.Client(context.Background()))
	client.SetBaseURL(apiURL)
	client.SetHeader("User-Agent", cfg.UserAgent)
	client.SetTimeout(30 * time.Second)

	return &Client{
		http: client,
		log:  log.WithField(logger.FieldComponent, "reddit"),
	}
}

// FetchPost fetches a submission by URL. The post ID is extracted from the
// URL and fetched directly to avoid redirect and alias issues.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - postURL: full Reddit post URL or redd.it shortlink.
//
// Returns:
//   - *domain.Post: the fetched submission with its content type classified.
//   - error: non-nil if the URL is unrecognized or the request fails.
func (c *Client) FetchPost(ctx context.Context, postURL string) (*domain.Post, error) {
	postID, slugKeywords, err := ExtractPostID(postURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse post URL %q: %w", postURL, err)
	}

	listing, err := c.fetchListing(ctx, postID, 1)
	if err != nil {
		return nil, err
	}

	post, err := parsePost(listing)
	if err != nil {
		return nil, fmt.Errorf("failed to parse post %s: %w", postID, err)
	}

	if mismatch := slugMismatch(post.Title, slugKeywords); mismatch {
		c.log.WithFields(logger.Fields{
			logger.FieldPostID: postID,
			"title":            post.Title,
		}).Warn("URL slug keywords not found in fetched title")
	}

	c.log.WithFields(logger.Fields{
		logger.FieldPostID: post.ID,
		"content_type":     post.ContentType,
		"num_comments":     post.NumComments,
	}).Info("Fetched post")
	return post, nil
}

// FetchComments fetches the comment tree for a post. The sampling strategy
// is chosen from the post's reported comment count; when the top-level list
// exceeds the strategy cap it is sampled down by score. Failure yields an
// empty forest, never an error, since comment retrieval is best effort.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - postURL: full Reddit post URL or redd.it shortlink.
//
// Returns:
//   - []domain.Comment: top-level comments with nested replies, capped at depth 5.
//   - Strategy: the sampling strategy that was applied.
func (c *Client) FetchComments(ctx context.Context, postURL string) ([]domain.Comment, Strategy) {
	postID, _, err := ExtractPostID(postURL)
	if err != nil {
		c.log.WithError(err).Error("Failed to parse post URL for comments")
		return nil, DetermineSamplingStrategy(0)
	}

	listing, err := c.fetchListing(ctx, postID, listingLimit)
	if err != nil {
		c.log.WithError(err).WithField(logger.FieldPostID, postID).Error("Failed to fetch comments")
		return nil, DetermineSamplingStrategy(0)
	}

	post, err := parsePost(listing)
	if err != nil {
		c.log.WithError(err).WithField(logger.FieldPostID, postID).Error("Failed to parse comment listing")
		return nil, DetermineSamplingStrategy(0)
	}

	strategy := DetermineSamplingStrategy(post.NumComments)
	c.log.WithFields(logger.Fields{
		logger.FieldPostID: postID,
		"strategy":         strategy.Name,
		"comment_count":    post.NumComments,
	}).Info("Selected sampling strategy")

	comments := parseCommentForest(listing)
	if strategy.MaxComments > 0 {
		comments = sampleByScore(comments, strategy.MaxComments)
	}

	c.log.WithFields(logger.Fields{
		logger.FieldPostID: postID,
		"top_level":        len(comments),
	}).Info("Fetched comments")
	return comments, strategy
}

// fetchListing gets the raw two-element listing (post, comment forest) for a
// post ID.
func (c *Client) fetchListing(ctx context.Context, postID string, limit int) ([]listing, error) {
	var result []listing
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"sort":     "top",
			"limit":    fmt.Sprintf("%d", limit),
			"raw_json": "1",
		}).
		SetResult(&result).
		Get("/comments/" + postID)
	if err != nil {
		return nil, fmt.Errorf("failed to call Reddit API: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("post %s: %w", postID, ErrPostNotFound)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("Reddit API returned HTTP %d for post %s", resp.StatusCode(), postID)
	}
	if len(result) < 1 {
		return nil, fmt.Errorf("empty listing for post %s", postID)
	}
	return result, nil
}
