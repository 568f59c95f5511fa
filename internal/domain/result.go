package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray stores string slices as JSON text in the cache database.
type StringArray []string

// Value implements driver.Valuer.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// ResultMetadata identifies the analyzed post and the analysis run itself.
type ResultMetadata struct {
	PostURL          string    `json:"post_url"`
	PostID           string    `json:"post_id"`
	Subreddit        string    `json:"subreddit"`
	Author           string    `json:"author"`
	PostedAt         time.Time `json:"timestamp"`
	Score            int       `json:"score"`
	UpvoteRatio      float64   `json:"upvote_ratio"`
	CommentCount     int       `json:"comment_count"`
	AnalysisID       string    `json:"analysis_id"`
	AnalyzedAt       time.Time `json:"analysis_timestamp"`
	AnalysisDuration float64   `json:"analysis_duration_seconds"`
	SamplingStrategy string    `json:"sampling_strategy"`
	FromCache        bool      `json:"from_cache,omitempty"`
}

// PostAnalysis combines the extraction output with the model enrichment.
type PostAnalysis struct {
	ContentType   ContentType    `json:"content_type"`
	ExtractedText string         `json:"extracted_text"`
	Enrichment    PostEnrichment `json:"enrichment"`
}

// CommentsAnalysis aggregates the enriched comment set and its statistics.
// TopComments is ordered by relevance_score * score descending; everything
// else is derived by explicit counting, never by arrival order.
type CommentsAnalysis struct {
	TotalFetched          int                `json:"total_fetched"`
	TotalProcessed        int                `json:"total_processed"`
	HighQualityCount      int                `json:"high_quality_count"`
	HighQualityPercentage float64            `json:"high_quality_percentage"`
	SentimentDistribution map[string]int     `json:"sentiment_distribution"`
	IntentDistribution    map[string]int     `json:"intent_distribution"`
	ToneDistribution      map[string]int     `json:"tone_distribution"`
	ThemePercentages      map[string]float64 `json:"theme_percentages"`
	TopComments           []EnrichedComment  `json:"top_comments"`
	AllInsights           []string           `json:"all_insights"`
	AllAdvice             []string           `json:"all_advice"`
}

// AnalysisResult is the terminal aggregate of one post analysis.
type AnalysisResult struct {
	Metadata  ResultMetadata   `json:"metadata"`
	Post      PostAnalysis     `json:"post_analysis"`
	Comments  CommentsAnalysis `json:"comments_analysis"`
	Synthesis Synthesis        `json:"synthesis"`
	Success   bool             `json:"success"`
}
