package comments

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromJSONL(t *testing.T) {
	path := writeFile(t, "batch.jsonl", `{"id":"c1","body":"love it","author":"ann","score":3}

not json at all
{"id":"","body":"missing id"}
{"id":"c2","body":"dark mode please","parent_id":"t1_c1"}
`)

	got, err := LoadFromJSONL(path, quiet)
	if err != nil {
		t.Fatalf("LoadFromJSONL: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 comments, got %d: %+v", len(got), got)
	}
	if got[0].ID != "c1" || got[0].Author != "ann" || got[0].Score != 3 {
		t.Errorf("Unexpected first comment: %+v", got[0])
	}
	if got[1].ParentID != "t1_c1" {
		t.Errorf("ParentID not decoded: %+v", got[1])
	}
}

func TestLoadFromJSONLNoValidLines(t *testing.T) {
	path := writeFile(t, "bad.jsonl", "garbage\n{\"body\":\"no id\"}\n")
	if _, err := LoadFromJSONL(path, quiet); err == nil {
		t.Error("Expected error when nothing is loadable")
	}
}

func TestLoadFromJSONLMissingFile(t *testing.T) {
	if _, err := LoadFromJSONL(filepath.Join(t.TempDir(), "nope.jsonl"), quiet); err == nil {
		t.Error("Expected error for missing file")
	}
}

const thread = `[
  {"kind":"Listing","data":{"children":[{"kind":"t3","data":{"id":"p1","title":"Which editor do you use?"}}]}},
  {"kind":"Listing","data":{"children":[
    {"kind":"t1","data":{"id":"a","author":"ann","body":"The editor is slow","score":5,"created_utc":1700000000.0,"parent_id":"t3_p1",
      "replies":{"kind":"Listing","data":{"children":[
        {"kind":"t1","data":{"id":"b","author":"bob","body":"","body_html":"&lt;div class=\"md\"&gt;&lt;p&gt;Same &amp;amp; worse&lt;/p&gt;&lt;p&gt;crashes&lt;/p&gt;&lt;/div&gt;","parent_id":"t1_a","replies":""}},
        {"kind":"more","data":{"id":"m1"}}
      ]}}}},
    {"kind":"t1","data":{"id":"c","author":"[deleted]","body":"[deleted]","replies":""}},
    {"kind":"t1","data":{"id":"d","author":"dee","body":"love the theme","parent_id":"t3_p1","replies":""}}
  ]}}
]`

func TestParseRedditThread(t *testing.T) {
	th, err := ParseRedditThread([]byte(thread))
	if err != nil {
		t.Fatalf("ParseRedditThread: %v", err)
	}
	if th.Title != "Which editor do you use?" {
		t.Errorf("Title = %q", th.Title)
	}

	wantIDs := []string{"a", "b", "d"}
	if len(th.Comments) != len(wantIDs) {
		t.Fatalf("Expected %d comments, got %+v", len(wantIDs), th.Comments)
	}
	for i, id := range wantIDs {
		if th.Comments[i].ID != id {
			t.Errorf("Comment %d: id %q, want %q", i, th.Comments[i].ID, id)
		}
	}

	if th.Comments[0].CreatedAt != 1700000000 || th.Comments[0].Score != 5 {
		t.Errorf("Metadata not decoded: %+v", th.Comments[0])
	}
	if got := th.Comments[1].Body; got != "Same & worse crashes" {
		t.Errorf("body_html fallback = %q", got)
	}
	if th.Comments[1].ParentID != "t1_a" {
		t.Errorf("ParentID = %q", th.Comments[1].ParentID)
	}
}

func TestParseRedditThreadErrors(t *testing.T) {
	for _, in := range []string{`{}`, `[]`, `[{"kind":"Listing","data":{"children":[]}}]`} {
		if _, err := ParseRedditThread([]byte(in)); err == nil {
			t.Errorf("Expected error for %s", in)
		}
	}
}

func TestLoadRedditThread(t *testing.T) {
	path := writeFile(t, "thread.json", thread)
	th, err := LoadRedditThread(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(th.Comments) != 3 {
		t.Errorf("Expected 3 comments, got %d", len(th.Comments))
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>Hello <b>world</b></p>", "Hello world"},
		{"line one<br>line two", "line one line two"},
		{"<ul><li>a</li><li>b</li></ul>", "a b"},
		{"plain text", "plain text"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripHTML(tt.in); got != tt.want {
			t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
