package sentiment

import (
	"encoding/json"
	"testing"

	"github.com/cognicore/chorus/pkg/chorus/lexicon"
)

func TestScoreLiterals(t *testing.T) {
	s := NewScorer(nil)

	pos := s.Score("This tool is amazing and helpful")
	if pos.Label != Positive || pos.Score <= 0 {
		t.Errorf("Expected positive score, got %+v", pos)
	}
	if pos.Score != 1 {
		t.Errorf("Two positive words and no negative should score 1, got %v", pos.Score)
	}

	neg := s.Score("This is terrible and broken")
	if neg.Label != Negative || neg.Score >= 0 {
		t.Errorf("Expected negative score, got %+v", neg)
	}
}

func TestScoreNoLexiconWords(t *testing.T) {
	s := NewScorer(nil)

	for _, text := range []string{"", "the quick brown fox", "12345", "https://example.com"} {
		r := s.Score(text)
		if r.Label != Neutral || r.Score != 0 {
			t.Errorf("Score(%q) = %+v, want neutral 0", text, r)
		}
	}
}

func TestScoreRatio(t *testing.T) {
	s := NewScorer(nil)

	cases := []struct {
		text  string
		score float64
		label Label
	}{
		// P=1 N=1
		{"good but slow", 0, Neutral},
		// P=2 N=1 -> 1/3
		{"great docs, nice api, one bug", 1.0 / 3.0, Positive},
		// P=1 N=2 -> -1/3
		{"nice idea but buggy and slow", -1.0 / 3.0, Negative},
		// P=3 N=2 -> 0.2, not strictly above the cutoff
		{"good good good bad bad", 0.2, Neutral},
		// repeated words count every occurrence
		{"love love love", 1, Positive},
	}

	for _, tc := range cases {
		r := s.Score(tc.text)
		if diff := r.Score - tc.score; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Score(%q) = %v, want %v", tc.text, r.Score, tc.score)
		}
		if r.Label != tc.label {
			t.Errorf("Score(%q) label = %v, want %v", tc.text, r.Label, tc.label)
		}
	}
}

func TestScoreNoNegationFlip(t *testing.T) {
	r := NewScorer(nil).Score("not good")
	if r.Label != Positive {
		t.Errorf("Negation is not modelled; expected positive, got %v", r.Label)
	}
}

func TestScoreBounds(t *testing.T) {
	s := NewScorer(nil)
	texts := []string{
		"amazing", "terrible", "amazing terrible", "good bad ugly", "best worst best",
		"I can't believe how broken and slow this is, but the docs are great",
	}
	for _, text := range texts {
		r := s.Score(text)
		if r.Score < -1 || r.Score > 1 {
			t.Errorf("Score(%q) = %v out of [-1, 1]", text, r.Score)
		}
		if _, ok := labelNames[r.Label]; !ok {
			t.Errorf("Score(%q) returned unknown label %v", text, r.Label)
		}
	}
}

func TestClassifyCutoffs(t *testing.T) {
	cases := []struct {
		score float64
		want  Label
	}{
		{0.21, Positive},
		{0.2, Neutral},
		{0, Neutral},
		{-0.2, Neutral},
		{-0.21, Negative},
		{1, Positive},
		{-1, Negative},
	}
	for _, tc := range cases {
		if got := Classify(tc.score); got != tc.want {
			t.Errorf("Classify(%v) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestWordLabel(t *testing.T) {
	s := NewScorer(nil)
	if s.WordLabel("love") != Positive {
		t.Error("love should be positive")
	}
	if s.WordLabel("crash") != Negative {
		t.Error("crash should be negative")
	}
	if s.WordLabel("react") != Neutral {
		t.Error("react should be neutral")
	}
}

func TestCustomLexicon(t *testing.T) {
	lex := lexicon.New(lexicon.Tables{PositiveWords: []string{"snappy"}})
	r := NewScorer(lex).Score("so snappy, amazing")
	if r.Positive != 1 || r.Score != 1 {
		t.Errorf("Expected only the custom word to count, got %+v", r)
	}
}

func TestLabelJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		L Label `json:"l"`
	}{Negative})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"l":"negative"}` {
		t.Errorf("Unexpected JSON: %s", data)
	}

	var l Label
	if err := json.Unmarshal([]byte(`"positive"`), &l); err != nil || l != Positive {
		t.Errorf("Unmarshal positive: %v, %v", l, err)
	}
	if err := json.Unmarshal([]byte(`"angry"`), &l); err == nil {
		t.Error("Unknown label should fail to unmarshal")
	}
}
