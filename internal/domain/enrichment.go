package domain

// Intent is the model-assigned primary purpose of a comment.
type Intent string

const (
	IntentSupportive  Intent = "SUPPORTIVE"
	IntentSolution    Intent = "SOLUTION"
	IntentExplanatory Intent = "EXPLANATORY"
	IntentAnecdotal   Intent = "ANECDOTAL"
	IntentHumorous    Intent = "HUMOROUS"
	IntentCritical    Intent = "CRITICAL"
	IntentQuestioning Intent = "QUESTIONING"
	IntentUnknown     Intent = "UNKNOWN"
)

// ValidIntent reports whether the model returned a known intent label.
func ValidIntent(i Intent) bool {
	switch i {
	case IntentSupportive, IntentSolution, IntentExplanatory, IntentAnecdotal,
		IntentHumorous, IntentCritical, IntentQuestioning, IntentUnknown:
		return true
	}
	return false
}

// CommentSentiment is the per-comment sentiment triple.
type CommentSentiment struct {
	TowardOP      string `json:"toward_op"`
	TowardSubject string `json:"toward_subject"`
	OverallTone   string `json:"overall_tone"`
}

// EnrichedComment pairs a fetched comment with the model-produced analysis
// fields. The embedded Comment is the flattened original (no replies); the
// analysis never mutates it.
type EnrichedComment struct {
	Comment

	QualityScore      float64          `json:"quality_score"`
	RelevanceScore    float64          `json:"relevance_score"`
	IntentPrimary     Intent           `json:"intent_primary"`
	IntentSecondary   Intent           `json:"intent_secondary,omitempty"`
	Sentiment         CommentSentiment `json:"sentiment"`
	KeyInsights       []string         `json:"key_insights"`
	ActionableAdvice  []string         `json:"actionable_advice"`
	SharedExperiences []string         `json:"shared_experiences"`
}

// DefaultEnrichedComment is the documented neutral fallback substituted when
// a model response cannot be parsed for a comment. Never an error path.
func DefaultEnrichedComment(c Comment) EnrichedComment {
	c.Replies = nil
	return EnrichedComment{
		Comment:           c,
		QualityScore:      5.0,
		RelevanceScore:    5.0,
		IntentPrimary:     IntentUnknown,
		Sentiment:         CommentSentiment{TowardOP: "neutral", TowardSubject: "neutral", OverallTone: "neutral"},
		KeyInsights:       []string{},
		ActionableAdvice:  []string{},
		SharedExperiences: []string{},
	}
}

// Entities are the named entities the model found in the post.
type Entities struct {
	Organizations []string `json:"organizations"`
	People        []string `json:"people"`
	Products      []string `json:"products"`
	Locations     []string `json:"locations"`
}

// PostSentiment is the post-level sentiment block.
type PostSentiment struct {
	Primary       string            `json:"primary"`
	Intensity     string            `json:"intensity"`
	EmotionalTone string            `json:"emotional_tone"`
	Targets       map[string]string `json:"targets"`
}

// Summaries holds the three post summaries at increasing depth.
type Summaries struct {
	OneSentence string `json:"one_sentence"`
	Actionable  string `json:"actionable"`
	Analytical  string `json:"analytical"`
}

// Classification tags the post with a type and subject areas.
type Classification struct {
	Type   string   `json:"type"`
	Topics []string `json:"topics"`
}

// PostEnrichment is the structured post-level analysis.
type PostEnrichment struct {
	Entities             Entities       `json:"entities"`
	Sentiment            PostSentiment  `json:"sentiment"`
	CoreIssue            string         `json:"core_issue"`
	IronyOrContradiction *string        `json:"irony_or_contradiction"`
	Summaries            Summaries      `json:"summaries"`
	Classification       Classification `json:"classification"`
}

// DefaultPostEnrichment is the fallback returned when post analysis fails or
// its response cannot be parsed.
func DefaultPostEnrichment() *PostEnrichment {
	return &PostEnrichment{
		Entities: Entities{
			Organizations: []string{}, People: []string{}, Products: []string{}, Locations: []string{},
		},
		Sentiment: PostSentiment{
			Primary: "neutral", Intensity: "medium", EmotionalTone: "neutral", Targets: map[string]string{},
		},
		CoreIssue: "Unable to analyze",
		Summaries: Summaries{
			OneSentence: "Analysis unavailable",
			Actionable:  "Analysis unavailable",
			Analytical:  "Analysis unavailable",
		},
		Classification: Classification{Type: "other", Topics: []string{}},
	}
}
