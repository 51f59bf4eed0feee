package lexicon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTableSizes(t *testing.T) {
	stats := Default().Stats()

	if stats.StopWords != 120 {
		t.Errorf("Expected 120 stop words, got %d", stats.StopWords)
	}
	if stats.PositiveWords != 30 {
		t.Errorf("Expected 30 positive words, got %d", stats.PositiveWords)
	}
	if stats.NegativeWords != 30 {
		t.Errorf("Expected 30 negative words, got %d", stats.NegativeWords)
	}
	if stats.PainPointPhrases != 17 {
		t.Errorf("Expected 17 pain point phrases, got %d", stats.PainPointPhrases)
	}
	if stats.FeatureRequestPhrases != 12 {
		t.Errorf("Expected 12 feature request phrases, got %d", stats.FeatureRequestPhrases)
	}
	if stats.QuestionPhrases != 11 {
		t.Errorf("Expected 11 question phrases, got %d", stats.QuestionPhrases)
	}
}

func TestDefaultMembership(t *testing.T) {
	lex := Default()

	for _, w := range []string{"the", "and", "not", "very", "would", "cant", "dont"} {
		if !lex.IsStop(w) {
			t.Errorf("%q should be a stop word", w)
		}
	}
	for _, w := range []string{"tool", "react", "amazing", "bug"} {
		if lex.IsStop(w) {
			t.Errorf("%q should not be a stop word", w)
		}
	}

	for _, w := range []string{"amazing", "helpful", "love", "intuitive", "recommend"} {
		if !lex.IsPositive(w) {
			t.Errorf("%q should be positive", w)
		}
	}
	for _, w := range []string{"terrible", "broken", "slow", "issue", "ugly"} {
		if !lex.IsNegative(w) {
			t.Errorf("%q should be negative", w)
		}
	}

	// No stemming: inflected forms are only members when listed.
	if lex.IsPositive("loving") {
		t.Error("loving should not be positive (no stemming)")
	}
	if !lex.IsNegative("crashes") || lex.IsNegative("crashed") {
		t.Error("Only listed inflections of crash should be negative")
	}
}

func TestDefaultTablesDisjoint(t *testing.T) {
	lex := Default()
	for _, w := range lex.Tables().PositiveWords {
		if lex.IsNegative(w) {
			t.Errorf("%q is both positive and negative", w)
		}
		if lex.IsStop(w) {
			t.Errorf("%q is both positive and a stop word", w)
		}
	}
	for _, w := range lex.Tables().NegativeWords {
		if lex.IsStop(w) {
			t.Errorf("%q is both negative and a stop word", w)
		}
	}
}

func TestPhraseMatching(t *testing.T) {
	lex := Default()

	if !lex.HasFeatureRequest("it would be nice to have dark mode") {
		t.Error("Multi-word feature request phrase should match")
	}
	if !lex.HasPainPoint("the sync doesn't work anymore") {
		t.Error("Phrase with apostrophe should match raw text")
	}
	if !lex.HasQuestion("any update?") {
		t.Error("Question mark should count as a question indicator")
	}
	if lex.HasQuestion("great release") {
		t.Error("Plain statement should not be a question")
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Error("Default should return the same lexicon every call")
	}
}

func TestTablesReturnsCopy(t *testing.T) {
	lex := Default()
	tables := lex.Tables()
	tables.PositiveWords[0] = "mutated"
	tables.PainPointPhrases[0] = "mutated"

	if lex.IsPositive("mutated") || lex.HasPainPoint("mutated") {
		t.Error("Mutating returned tables must not change the lexicon")
	}
}

func TestNewNormalizesEntries(t *testing.T) {
	lex := New(Tables{
		PositiveWords:    []string{"  Snappy ", "", "snappy"},
		PainPointPhrases: []string{"Keeps Crashing", "keeps crashing"},
	})

	if !lex.IsPositive("snappy") {
		t.Error("Entries should be lower-cased and trimmed")
	}
	if got := lex.Stats().PositiveWords; got != 1 {
		t.Errorf("Duplicates and blanks should be dropped, got %d entries", got)
	}
	if got := lex.Stats().PainPointPhrases; got != 1 {
		t.Errorf("Duplicate phrases should be dropped, got %d entries", got)
	}
}

func TestLoadFromYAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "lexicon.yaml")
	content := `stop_words: [lol]
positive_words: [Snappy]
negative_words: [laggy]
feature_request_phrases: ["dark mode"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lex, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML failed: %v", err)
	}

	if !lex.IsStop("lol") || !lex.IsPositive("snappy") || !lex.IsNegative("laggy") {
		t.Error("Extension entries should be added")
	}
	if !lex.HasFeatureRequest("please ship dark mode") {
		t.Error("Extension phrase should match")
	}
	if !lex.IsPositive("amazing") || !lex.IsStop("the") {
		t.Error("Default entries should be kept")
	}
	if Default().IsPositive("snappy") {
		t.Error("Loading an extension must not change the default lexicon")
	}
}

func TestLoadFromYAMLErrors(t *testing.T) {
	if _, err := LoadFromYAML("/nonexistent/lexicon.yaml"); err == nil {
		t.Error("Should error on nonexistent file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("positive_words: {not: [a list"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromYAML(path); err == nil {
		t.Error("Should error on invalid YAML")
	}
}
