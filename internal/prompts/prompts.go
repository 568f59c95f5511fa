package prompts

import "fmt"

// ============================================================================
// Post analysis
// ============================================================================

const postAnalysisTemplate = `You are analyzing a Reddit post. Extract and structure the following information.

POST CONTENT:
%s

SUBREDDIT: %s
TITLE: %s

Return a JSON object with this exact structure:
{
  "entities": {
    "organizations": ["list of organizations mentioned"],
    "people": ["list of people mentioned"],
    "products": ["list of products/services mentioned"],
    "locations": ["list of locations mentioned"]
  },
  "sentiment": {
    "primary": "positive/negative/neutral/mixed",
    "intensity": "low/medium/high",
    "emotional_tone": "frustrated/humorous/angry/hopeful/etc",
    "targets": {"entity": "positive/negative/neutral"}
  },
  "core_issue": "brief description of the main issue or topic",
  "irony_or_contradiction": "any irony or contradiction if present, otherwise null",
  "summaries": {
    "one_sentence": "ultra-concise one sentence summary",
    "actionable": "2-3 sentence summary focused on actionable information",
    "analytical": "detailed paragraph providing context and analysis"
  },
  "classification": {
    "type": "complaint/question/discussion/news/creative/other",
    "topics": ["main subject areas"]
  }
}

Respond with ONLY the JSON object, no additional text.`

// PostAnalysis builds the post-level analysis prompt.
func PostAnalysis(postText, subreddit, title string) string {
	return fmt.Sprintf(postAnalysisTemplate, postText, subreddit, title)
}

// ============================================================================
// Comment batch analysis
// ============================================================================

const commentsBatchTemplate = `Analyze these Reddit comments in the context of the original post.

POST SUMMARY: %s

COMMENTS (with scores):
%s

For EACH comment, analyze and return a JSON array with this structure:
[
  {
    "comment_id": "comment identifier",
    "quality_score": 7.5,
    "intent_primary": "SUPPORTIVE/SOLUTION/EXPLANATORY/ANECDOTAL/HUMOROUS/CRITICAL/QUESTIONING",
    "intent_secondary": "secondary intent if applicable",
    "sentiment": {
      "toward_op": "supportive/neutral/critical",
      "toward_subject": "positive/negative/neutral",
      "overall_tone": "empathetic/cynical/helpful/etc"
    },
    "key_insights": ["important insight 1", "insight 2"],
    "actionable_advice": ["practical advice if any"],
    "shared_experiences": ["relevant experiences shared"],
    "relevance_score": 8.5
  }
]

Quality score (0-10) based on:
- Length and depth (20+ words = good)
- Upvote score (community validation)
- Contains actionable advice or valuable information
- Contains sources or references

Relevance score (0-10): How relevant and valuable is this comment to understanding the post.

Respond with ONLY the JSON array, no additional text.`

// CommentsBatch builds the batch comment analysis prompt. commentsText is the
// pre-formatted numbered comment block.
func CommentsBatch(postSummary, commentsText string) string {
	return fmt.Sprintf(commentsBatchTemplate, postSummary, commentsText)
}

// ============================================================================
// Synthesis
// ============================================================================

const synthesisTemplate = `Create a comprehensive analysis combining the post and its top comments.

POST DATA:
%s

TOP COMMENTS DATA:
%s

Generate a final analysis as a JSON object:
{
  "executive_summary": "2-3 sentence comprehensive overview",
  "key_issue": "the core problem or topic identified",
  "community_consensus": {
    "validation_status": "validated/questioned/mixed/contradicted",
    "agreement_level": "high/medium/low",
    "top_solutions": ["ranked actionable solutions from comments"],
    "sentiment_breakdown": {
      "supportive": 60,
      "critical": 30,
      "neutral": 10
    }
  },
  "context_and_background": "broader context provided by comments",
  "recommended_actions": ["prioritized list of 3-5 recommended actions - NEVER use N/A - adapt to post type: for entertainment posts suggest follow-ups/engagement/awareness uses; for problem posts suggest solutions; for informational posts suggest learning next steps"],
  "key_insights": ["most important takeaways - include frequency indicators when multiple comments mention same pattern (e.g., '15+ commenters reported X'), provide specific memorable examples, and explain why each insight matters"],
  "systemic_patterns": ["systemic issues or patterns identified, if any"],
  "notable_perspectives": ["unique or valuable perspectives shared"],
  "information_quality": {
    "factual_accuracy": "high/medium/low/unknown",
    "expert_input": "whether expert perspectives were provided",
    "source_citations": "whether sources were cited"
  },
  "comment_themes": {"theme_name": count_of_comments},
  "engagement_metrics": {"humorous": percent, "concerned": percent, "informative": percent}
}

IMPORTANT GUIDANCE:
- For ENTERTAINMENT/DISCUSSION posts: Suggest follow-up questions, related topics to explore, ways to use insights for awareness/education, community engagement ideas
- For PROBLEM/HELP posts: Provide direct solutions, resources, step-by-step action plans
- For INFORMATIONAL posts: Suggest learning next steps, related topics, practical applications
- For KEY INSIGHTS: Count how many comments mention each pattern and include specific examples
- ALWAYS provide actionable suggestions - NEVER use "N/A" or dismissive language

Respond with ONLY the JSON object, no additional text.`

// Synthesis builds the final synthesis prompt from the serialized post and
// comment analysis blocks.
func Synthesis(postData, commentsData string) string {
	return fmt.Sprintf(synthesisTemplate, postData, commentsData)
}

// ============================================================================
// Vision OCR
// ============================================================================

// VisionOCR is the instruction sent alongside image bytes for text extraction.
const VisionOCR = `Extract all textual content from this image. Return only the text.`
