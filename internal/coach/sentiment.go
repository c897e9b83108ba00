package coach

import "strings"

// Sentiment labels. The label is read off the generated text by keyword
// matching, not taken from the model's own judgment.
const (
	SentimentPositive         = "positive"
	SentimentNeutral          = "neutral"
	SentimentNeedsImprovement = "needs_improvement"
)

var positiveKeywords = []string{
	"great", "well done", "excellent", "nice work", "proud",
	"impressive", "keep it up", "strong", "momentum",
}

var needsImprovementKeywords = []string{
	"struggl", "distract", "missed", "try to", "consider",
	"improve", "next time", "harder", "fell short", "avoid",
}

// ClassifySentiment buckets feedback text into positive, neutral, or
// needs_improvement. Improvement cues outrank positive ones, so mixed
// feedback reads as actionable rather than congratulatory.
func ClassifySentiment(text string) string {
	lower := strings.ToLower(text)
	for _, kw := range needsImprovementKeywords {
		if strings.Contains(lower, kw) {
			return SentimentNeedsImprovement
		}
	}
	for _, kw := range positiveKeywords {
		if strings.Contains(lower, kw) {
			return SentimentPositive
		}
	}
	return SentimentNeutral
}
