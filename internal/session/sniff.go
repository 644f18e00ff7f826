package session

import (
	"strings"

	"github.com/affanstats/Product-Presenter/internal/interaction"
)

// Keyword heuristics applied to every user utterance, alongside
// whatever the model decides to log through the tool surface.
var (
	conversionPhrases = []string{"buy", "sign up"}
	positiveWords     = []string{"great", "awesome", "thanks"}
	negativeWords     = []string{"bad", "worst", "angry"}
)

// sniffMessage records one user utterance into the interaction log:
// the message itself joins the question list, purchase phrasing
// triggers the conversion flag, and simple keyword matches set
// sentiment. Negative matches run last, so a message containing both
// polarities lands negative.
func sniffMessage(log *interaction.Log, message string) {
	log.AddQuestion(message)

	lower := strings.ToLower(message)

	for _, phrase := range conversionPhrases {
		if strings.Contains(lower, phrase) {
			log.TriggerConversion()
			break
		}
	}

	for _, word := range positiveWords {
		if strings.Contains(lower, word) {
			log.SetSentiment(interaction.SentimentPositive)
			break
		}
	}

	for _, word := range negativeWords {
		if strings.Contains(lower, word) {
			log.SetSentiment(interaction.SentimentNegative)
			break
		}
	}
}
