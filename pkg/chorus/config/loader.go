package config

import (
	"fmt"

	"github.com/cognicore/chorus/pkg/chorus/lexicon"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	ConfigPath  string
	LexiconPath string
}

// Components holds all loaded configuration components
type Components struct {
	Analysis Analysis
	Lexicon  *lexicon.Lexicon
}

// Load reads all configuration files and returns initialized components.
// Empty paths fall back to the defaults.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{
		Analysis: Default(),
		Lexicon:  lexicon.Default(),
	}

	if l.ConfigPath != "" {
		cfg, err := Load(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		comp.Analysis = cfg
	}

	if l.LexiconPath != "" {
		lex, err := lexicon.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	}

	return comp, nil
}
