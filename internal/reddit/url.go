package reddit

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	commentsPathRe  = regexp.MustCompile(`(?i)/comments/([a-z0-9]+)/?([^/]*)`)
	shortlinkPathRe = regexp.MustCompile(`(?i)^/([a-z0-9]{5,8})/?$`)
)

// ExtractPostID pulls the post ID and slug keywords out of a Reddit URL.
// Supported forms:
//   - https://www.reddit.com/r/sub/comments/POSTID/slug/
//   - https://www.reddit.com/comments/POSTID/slug/
//   - https://redd.it/POSTID
//
// Slug keywords (words of at least 4 characters) are returned for a sanity
// check against the fetched title.
func ExtractPostID(postURL string) (string, []string, error) {
	parsed, err := url.Parse(postURL)
	if err != nil {
		return "", nil, fmt.Errorf("invalid URL: %w", err)
	}

	if m := commentsPathRe.FindStringSubmatch(parsed.Path); m != nil {
		return m[1], slugKeywords(m[2]), nil
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "redd.it" || host == "www.redd.it" {
		if m := shortlinkPathRe.FindStringSubmatch(parsed.Path); m != nil {
			return m[1], nil, nil
		}
	}

	return "", nil, fmt.Errorf("no post ID found in %q", postURL)
}

func slugKeywords(slug string) []string {
	var keywords []string
	for _, w := range regexp.MustCompile(`[-_]+`).Split(strings.ToLower(slug), -1) {
		if len(w) >= 4 {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

// slugMismatch reports whether none of the slug keywords appear in the
// fetched title. An empty keyword list never mismatches.
func slugMismatch(title string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	lower := strings.ToLower(title)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return false
		}
	}
	return true
}
