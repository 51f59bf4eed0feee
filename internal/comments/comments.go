// Package comments loads comment batches from files on disk.
package comments

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/cognicore/chorus/pkg/chorus/comment"
)

// maxLine bounds a single JSONL record.
const maxLine = 4 << 20

// LoadFromJSONL loads one comment per line. Blank lines are ignored and
// malformed lines are skipped with a warning.
func LoadFromJSONL(path string, log *slog.Logger) ([]comment.Comment, error) {
	if log == nil {
		log = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var out []comment.Comment
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}

		var c comment.Comment
		if err := json.Unmarshal(raw, &c); err != nil {
			log.Warn("skipping malformed comment", "path", path, "line", line, "err", err)
			continue
		}
		if err := c.Validate(); err != nil {
			log.Warn("skipping invalid comment", "path", path, "line", line, "err", err)
			continue
		}
		out = append(out, c)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no valid comments found in %s", path)
	}
	return out, nil
}

// listing is the envelope Reddit wraps posts and comments in.
type listing struct {
	Kind string `json:"kind"`
	Data struct {
		Children []thing `json:"children"`
	} `json:"data"`
}

type thing struct {
	Kind string    `json:"kind"`
	Data thingData `json:"data"`
}

type thingData struct {
	ID         string  `json:"id"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	BodyHTML   string  `json:"body_html"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	ParentID   string  `json:"parent_id"`
	Title      string  `json:"title"`
	// Replies is "" when there are none, otherwise a listing.
	Replies json.RawMessage `json:"replies"`
}

// Thread is a saved Reddit thread: the post title and its flattened comments.
type Thread struct {
	Title    string
	Comments []comment.Comment
}

// LoadRedditThread reads a saved thread (the [post, comments] pair of
// listings returned by a permalink's .json endpoint). Replies are flattened
// depth first; "more" stubs and deleted bodies are dropped.
func LoadRedditThread(path string) (Thread, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Thread{}, fmt.Errorf("read file %s: %w", path, err)
	}
	return ParseRedditThread(data)
}

// ParseRedditThread is LoadRedditThread over bytes.
func ParseRedditThread(data []byte) (Thread, error) {
	var listings []listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return Thread{}, fmt.Errorf("decode reddit thread: %w", err)
	}
	if len(listings) < 2 {
		return Thread{}, fmt.Errorf("reddit thread: expected post and comment listings, got %d", len(listings))
	}

	var th Thread
	for _, post := range listings[0].Data.Children {
		if post.Kind == "t3" {
			th.Title = post.Data.Title
			break
		}
	}

	var walk func(children []thing) error
	walk = func(children []thing) error {
		for _, child := range children {
			if child.Kind != "t1" {
				continue
			}
			d := child.Data
			body := d.Body
			if body == "" && d.BodyHTML != "" {
				body = StripHTML(html.UnescapeString(d.BodyHTML))
			}
			if d.ID != "" && body != "" && body != "[deleted]" && body != "[removed]" {
				th.Comments = append(th.Comments, comment.Comment{
					ID:        d.ID,
					Body:      body,
					Author:    d.Author,
					Score:     d.Score,
					CreatedAt: int64(d.CreatedUTC),
					ParentID:  d.ParentID,
				})
			}

			replies, err := parseReplies(d.Replies)
			if err != nil {
				return fmt.Errorf("replies of %s: %w", d.ID, err)
			}
			if err := walk(replies); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(listings[1].Data.Children); err != nil {
		return Thread{}, err
	}
	return th, nil
}

func parseReplies(raw json.RawMessage) ([]thing, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}
	var l listing
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, err
	}
	return l.Data.Children, nil
}

// StripHTML returns the text content of an HTML fragment, with block
// boundaries turned into spaces.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "br" || n.Data == "p" || n.Data == "li" || n.Data == "div") {
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.Join(strings.Fields(buf.String()), " ")
}
