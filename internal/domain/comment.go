package domain

import "time"

// MaxCommentDepth bounds tree traversal; replies nested deeper are not fetched.
const MaxCommentDepth = 5

// Comment is one node of the comment tree. A child's Depth is always the
// parent's Depth + 1. Comments are built once by the fetch step and never
// mutated afterwards; enrichment produces a separate EnrichedComment.
type Comment struct {
	ID               string    `json:"id"`
	Body             string    `json:"body"`
	Author           string    `json:"author"`
	Score            int       `json:"score"`
	CreatedAt        time.Time `json:"created_utc"`
	Depth            int       `json:"depth"`
	IsSubmitter      bool      `json:"is_submitter"`
	Stickied         bool      `json:"stickied"`
	Edited           bool      `json:"edited"`
	Controversiality int       `json:"controversiality"`
	Replies          []Comment `json:"replies,omitempty"`
}

// WordCount counts whitespace-separated words in the comment body.
func (c *Comment) WordCount() int {
	count := 0
	inWord := false
	for _, r := range c.Body {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}
