// Package interaction tracks per-session interaction state for the
// presenter agent.
package interaction

import (
	"sync"

	"github.com/google/uuid"
)

// Sentiment values accepted by SetSentiment. Anything else is ignored.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Record is the serialized form of one session's interaction log, as
// appended to the shared interaction log file.
type Record struct {
	SessionID           string   `json:"session_id"`
	ProductID           string   `json:"product_id"`
	ProductName         string   `json:"product_name"`
	UserSentiment       string   `json:"user_sentiment"`
	KeyQuestionsAsked   []string `json:"key_questions_asked"`
	ConversionTriggered bool     `json:"conversion_triggered"`
	FollowUpNeeded      bool     `json:"follow_up_needed"`
}

// Log is the mutable interaction record for one session. It is created
// at session start, threaded explicitly into every tool handler, and
// finalized exactly once at session end. Tool calls and message
// sniffing may run on concurrent goroutines, so all mutation is
// mutex-guarded.
type Log struct {
	mu          sync.Mutex
	sessionID   string
	productID   string
	productName string
	sentiment   string
	questions   []string
	converted   bool
	followUp    bool
}

// NewLog creates a log with a freshly generated session id.
func NewLog() *Log {
	return &Log{sessionID: uuid.NewString()}
}

// SessionID returns the immutable session identifier.
func (l *Log) SessionID() string {
	return l.sessionID
}

// AddQuestion appends a question to the ordered question list.
func (l *Log) AddQuestion(question string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.questions = append(l.questions, question)
}

// UpdateProductInfo overwrites the product fields. Last write wins.
func (l *Log) UpdateProductInfo(productID, productName string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.productID = productID
	l.productName = productName
}

// TriggerConversion sets the conversion flag. The flag is monotonic:
// once true it stays true.
func (l *Log) TriggerConversion() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.converted = true
}

// SetSentiment stores the sentiment if it is one of the accepted
// values; anything else leaves the stored sentiment unchanged.
func (l *Log) SetSentiment(sentiment string) {
	switch sentiment {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
	default:
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sentiment = sentiment
}

// Finalize computes the derived follow-up flag: follow-up is needed
// when sentiment is negative or conversion never triggered. The result
// is a pure function of current state, so a second call is harmless.
func (l *Log) Finalize() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.followUp = l.sentiment == SentimentNegative || !l.converted
}

// Record returns a snapshot of the current state for persistence.
func (l *Log) Record() Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	questions := make([]string, len(l.questions))
	copy(questions, l.questions)

	return Record{
		SessionID:           l.sessionID,
		ProductID:           l.productID,
		ProductName:         l.productName,
		UserSentiment:       l.sentiment,
		KeyQuestionsAsked:   questions,
		ConversionTriggered: l.converted,
		FollowUpNeeded:      l.followUp,
	}
}
