// Package export writes analysis results as JSON or CSV tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/cognicore/chorus/pkg/chorus"
	"github.com/cognicore/chorus/pkg/chorus/comment"
	"github.com/cognicore/chorus/pkg/chorus/insight"
	"github.com/cognicore/chorus/pkg/chorus/keywords"
)

// Document is the JSON export: the result plus optional insight relations.
type Document struct {
	chorus.Result
	Relations []insight.Relation `json:"relations,omitempty"`
}

// JSON writes the document as indented JSON followed by a newline.
func JSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

// KeywordsCSV writes word,count,sentiment rows in ranked order.
func KeywordsCSV(w io.Writer, kws []keywords.KeywordCount) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"word", "count", "sentiment"})
	for _, kw := range kws {
		cw.Write([]string{kw.Word, strconv.Itoa(kw.Count), kw.Sentiment.String()})
	}
	cw.Flush()
	return cw.Error()
}

// InsightsCSV writes one row per insight. Related comment ids are joined
// with ";".
func InsightsCSV(w io.Writer, insights []insight.Insight) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "type", "title", "description", "confidence", "count", "keyword", "related_comments"})
	for _, in := range insights {
		cw.Write([]string{
			in.ID,
			in.Type.String(),
			in.Title,
			in.Description,
			formatFloat(in.Confidence),
			strconv.Itoa(in.Count),
			in.Keyword,
			strings.Join(in.RelatedComments, ";"),
		})
	}
	cw.Flush()
	return cw.Error()
}

// CommentsCSV writes annotated comments in input order. Keywords are joined
// with ";".
func CommentsCSV(w io.Writer, comments []comment.AnnotatedComment) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "author", "score", "created_at", "parent_id", "sentiment", "sentiment_score", "keywords", "body"})
	for _, c := range comments {
		cw.Write([]string{
			c.ID,
			c.Author,
			strconv.Itoa(c.Score),
			strconv.FormatInt(c.CreatedAt, 10),
			c.ParentID,
			c.Sentiment.String(),
			formatFloat(c.SentimentScore),
			strings.Join(c.Keywords, ";"),
			c.Body,
		})
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
