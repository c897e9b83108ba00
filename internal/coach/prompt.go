// Package coach turns a user's profile and session reflection into short
// feedback text. Generation is delegated to an external chat-completions
// API; the prompt assembly and the sentiment read on the result are the
// business logic that lives here.
package coach

import (
	"fmt"
	"strings"

	"github.com/colinswan/sentinel/internal/models"
)

// toneTemplates maps a motivation-style tag to the instruction that sets
// the voice of the feedback.
var toneTemplates = map[string]string{
	"encouraging": "Be warm and encouraging. Celebrate what went well before anything else.",
	"tough_love":  "Be direct and a little blunt. Hold the user to a high standard; skip the pleasantries.",
	"analytical":  "Be factual and measured. Point at concrete patterns in what the user wrote.",
	"playful":     "Be light and a bit humorous, but land one genuine observation.",
}

// defaultTone is used when the profile names no known motivation style.
const defaultTone = "Be supportive and concise."

// challengeGuidance maps a challenge tag to one extra instruction woven
// into the prompt. Tags are appended in the order the profile lists them.
var challengeGuidance = map[string]string{
	"procrastination": "The user struggles with starting tasks; acknowledge any evidence of follow-through.",
	"distraction":     "The user struggles with staying on one thing; note focus wins, however small.",
	"overwork":        "The user tends to skip breaks; reinforce stopping on time as a success.",
	"burnout":         "The user is recovering from burnout; keep the pressure low and the tone gentle.",
	"perfectionism":   "The user over-polishes; praise shipping and moving on.",
}

// BuildPrompt assembles the system and user messages for the external
// model from the profile and the session note.
func BuildPrompt(profile *models.UserProfile, note string) (system, user string) {
	var b strings.Builder
	b.WriteString("You are a focus coach inside a screen-locking productivity app. ")
	b.WriteString("Reply with 2-3 sentences of feedback on the user's session reflection. ")

	tone := defaultTone
	if profile != nil {
		if t, ok := toneTemplates[profile.MotivationStyle]; ok {
			tone = t
		}
	}
	b.WriteString(tone)

	if profile != nil {
		for _, tag := range profile.Challenges() {
			if g, ok := challengeGuidance[tag]; ok {
				b.WriteString(" ")
				b.WriteString(g)
			}
		}
		if profile.Goals != "" {
			fmt.Fprintf(&b, " The user's stated goals: %s.", profile.Goals)
		}
		if profile.WorkStyle != "" {
			fmt.Fprintf(&b, " Their work style: %s.", profile.WorkStyle)
		}
	}

	user = fmt.Sprintf("Session reflection: %q", note)
	return b.String(), user
}
