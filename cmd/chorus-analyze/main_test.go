package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/cognicore/chorus/pkg/chorus/insight"
	"github.com/cognicore/chorus/pkg/chorus/store/sqlite"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot resolve test file path")
	}
	return filepath.Join(filepath.Dir(file), "..", "..")
}

func baseOptions(t *testing.T, input, format string) options {
	root := repoRoot(t)
	return options{
		input:      filepath.Join(root, "testdata", "comments", input),
		format:     format,
		configPath: filepath.Join(root, "testdata", "config", "analysis.yaml"),
		timeout:    5 * time.Second,
		retries:    1,
		out:        "json",
		lang:       "zh",
		relations:  true,
	}
}

type output struct {
	Keywords []struct {
		Word  string `json:"word"`
		Count int    `json:"count"`
	} `json:"keywords"`
	Insights  []insight.Insight  `json:"insights"`
	Comments  []json.RawMessage  `json:"comments"`
	Relations []insight.Relation `json:"relations"`
}

func decode(t *testing.T, data []byte) output {
	t.Helper()
	var out output
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, data)
	}
	return out
}

func insightIDs(ins []insight.Insight) []string {
	ids := make([]string, len(ins))
	for i, in := range ins {
		ids[i] = in.ID
	}
	return ids
}

func TestRunJSONL(t *testing.T) {
	opts := baseOptions(t, "sample.jsonl", "jsonl")
	opts.dbPath = filepath.Join(t.TempDir(), "runs.db")
	opts.progress = true

	var stdout bytes.Buffer
	if err := run(context.Background(), opts, &stdout); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := decode(t, stdout.Bytes())
	if len(out.Comments) != 9 {
		t.Errorf("Expected 9 comments (malformed line skipped), got %d", len(out.Comments))
	}
	want := []string{"pain_point-editor", "praise-theme", "feature_request-dark", "question-install"}
	if got := insightIDs(out.Insights); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Insights = %v, want %v", got, want)
	}
	if out.Insights[0].Title != "用户痛点：editor" {
		t.Errorf("Expected Chinese title, got %q", out.Insights[0].Title)
	}
	// All four insights share confidence but no keyword or type.
	if len(out.Relations) != 0 {
		t.Errorf("Expected no relations, got %+v", out.Relations)
	}

	st, err := sqlite.OpenSQLite(context.Background(), opts.dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	runs, err := st.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Comments != 9 || runs[0].Insights != 4 {
		t.Errorf("Unexpected stored runs: %+v", runs)
	}
}

func TestRunRedditEnglish(t *testing.T) {
	opts := baseOptions(t, "thread.json", "reddit")
	opts.lang = "en"
	opts.lexicon = filepath.Join(repoRoot(t), "testdata", "config", "lexicon.yaml")

	var stdout bytes.Buffer
	if err := run(context.Background(), opts, &stdout); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := decode(t, stdout.Bytes())
	if len(out.Comments) != 4 {
		t.Errorf("Expected 4 comments, got %d", len(out.Comments))
	}
	want := []string{"pain_point-sync", "praise-fast"}
	if got := insightIDs(out.Insights); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Insights = %v, want %v", got, want)
	}
	if out.Insights[0].Title != "Pain point: sync" {
		t.Errorf("Expected English title, got %q", out.Insights[0].Title)
	}
}

func TestRunCSV(t *testing.T) {
	opts := baseOptions(t, "sample.jsonl", "jsonl")
	opts.out = "csv"
	opts.csvDir = filepath.Join(t.TempDir(), "csv")

	var stdout bytes.Buffer
	if err := run(context.Background(), opts, &stdout); err != nil {
		t.Fatalf("run: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("CSV mode should not write to stdout, got %q", stdout.String())
	}

	for _, name := range []string{"keywords.csv", "insights.csv", "comments.csv"} {
		data, err := os.ReadFile(filepath.Join(opts.csvDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if lines := strings.Count(string(data), "\n"); lines < 2 {
			t.Errorf("%s should have a header and rows, got %d lines", name, lines)
		}
	}
}

func TestRunRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*options)
	}{
		{"format", func(o *options) { o.format = "xml" }},
		{"output", func(o *options) { o.out = "yaml" }},
		{"lang", func(o *options) { o.lang = "fr" }},
		{"missing input", func(o *options) { o.input = filepath.Join(t.TempDir(), "none.jsonl") }},
		{"missing config", func(o *options) { o.configPath = filepath.Join(t.TempDir(), "none.yaml") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := baseOptions(t, "sample.jsonl", "jsonl")
			tt.modify(&opts)
			if err := run(context.Background(), opts, &bytes.Buffer{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}
