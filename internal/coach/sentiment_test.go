package coach

import "testing"

func TestClassifySentiment(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Great session, you kept strong momentum the whole hour.", SentimentPositive},
		{"Well done staying with one task.", SentimentPositive},
		{"You seemed distracted toward the end; try to silence notifications next time.", SentimentNeedsImprovement},
		{"Consider a shorter interval tomorrow.", SentimentNeedsImprovement},
		{"Session recorded.", SentimentNeutral},
		{"", SentimentNeutral},
		// Mixed feedback reads as actionable.
		{"Nice work overall, but you struggled to start.", SentimentNeedsImprovement},
	}

	for _, tt := range tests {
		if got := ClassifySentiment(tt.text); got != tt.want {
			t.Errorf("ClassifySentiment(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
