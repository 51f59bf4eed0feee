package comment

import (
	"fmt"
	"unicode/utf8"

	"github.com/cognicore/chorus/pkg/chorus/internalerr"
	"github.com/cognicore/chorus/pkg/chorus/sentiment"
)

// Comment is one discussion comment as produced by the retrieval layer.
// The engine never mutates it.
type Comment struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	Author    string `json:"author"`
	Score     int    `json:"score"`
	CreatedAt int64  `json:"created_at"` // unix seconds
	ParentID  string `json:"parent_id"`
}

// Validate checks the fields the engine relies on.
func (c Comment) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("%w: comment id is required", internalerr.ErrMalformedComment)
	}
	if !utf8.ValidString(c.Body) {
		return fmt.Errorf("%w: comment %s body is not valid UTF-8", internalerr.ErrMalformedComment, c.ID)
	}
	return nil
}

// AnnotatedComment is a Comment with its sentiment and up to five keywords.
type AnnotatedComment struct {
	Comment
	Sentiment      sentiment.Label `json:"sentiment"`
	SentimentScore float64         `json:"sentiment_score"`
	Keywords       []string        `json:"keywords"`
}
