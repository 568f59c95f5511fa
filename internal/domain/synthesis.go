package domain

// CommunityConsensus summarizes how the comment section received the post.
type CommunityConsensus struct {
	ValidationStatus   string             `json:"validation_status"`
	AgreementLevel     string             `json:"agreement_level"`
	TopSolutions       []string           `json:"top_solutions"`
	SentimentBreakdown map[string]float64 `json:"sentiment_breakdown"`
}

// InformationQuality rates the reliability of what the comments contributed.
type InformationQuality struct {
	FactualAccuracy string `json:"factual_accuracy"`
	ExpertInput     string `json:"expert_input"`
	SourceCitations string `json:"source_citations"`
}

// Synthesis is the consolidated final analysis combining the post and its
// top comments.
type Synthesis struct {
	ExecutiveSummary     string             `json:"executive_summary"`
	KeyIssue             string             `json:"key_issue"`
	CommunityConsensus   CommunityConsensus `json:"community_consensus"`
	ContextAndBackground string             `json:"context_and_background"`
	RecommendedActions   []string           `json:"recommended_actions"`
	KeyInsights          []string           `json:"key_insights"`
	SystemicPatterns     []string           `json:"systemic_patterns"`
	NotablePerspectives  []string           `json:"notable_perspectives"`
	InformationQuality   InformationQuality `json:"information_quality"`
	CommentThemes        map[string]int     `json:"comment_themes,omitempty"`
	EngagementMetrics    map[string]float64 `json:"engagement_metrics,omitempty"`
}

// DefaultSynthesis is the structurally valid "unavailable" record returned
// when synthesis fails entirely, including for posts with no comments.
func DefaultSynthesis() *Synthesis {
	return &Synthesis{
		ExecutiveSummary: "Synthesis unavailable",
		KeyIssue:         "Unable to synthesize",
		CommunityConsensus: CommunityConsensus{
			ValidationStatus:   "unknown",
			AgreementLevel:     "unknown",
			TopSolutions:       []string{},
			SentimentBreakdown: map[string]float64{},
		},
		ContextAndBackground: "Unavailable",
		RecommendedActions:   []string{},
		KeyInsights:          []string{},
		SystemicPatterns:     []string{},
		NotablePerspectives:  []string{},
		InformationQuality: InformationQuality{
			FactualAccuracy: "unknown",
			ExpertInput:     "unknown",
			SourceCitations: "unknown",
		},
	}
}
