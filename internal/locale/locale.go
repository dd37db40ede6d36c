// Package locale holds the language- and jurisdiction-specific tables the
// processing packages run on: structural marker patterns, sentence
// abbreviations, stop words, the legal term list and the official source
// domains. Tables are plain data so a new legal tradition only needs a new
// file, not new parser code.
package locale

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// MarkerRule maps one structural unit type to the patterns that open it.
// Every pattern must contain exactly one capture group holding the unit number.
type MarkerRule struct {
	Type     domain.ContentType `yaml:"type" toml:"type"`
	Patterns []string           `yaml:"patterns" toml:"patterns"`
}

// DomainTrust assigns a base trust score to hosts under a domain suffix
type DomainTrust struct {
	Suffix string  `yaml:"suffix" toml:"suffix"`
	Trust  float64 `yaml:"trust" toml:"trust"`
}

// Locale is the complete table set for one legal tradition
type Locale struct {
	Name            string        `yaml:"name" toml:"name"`
	Markers         []MarkerRule  `yaml:"markers" toml:"markers"`
	Abbreviations   []string      `yaml:"abbreviations" toml:"abbreviations"`
	StopWords       []string      `yaml:"stop_words" toml:"stop_words"`
	LegalTerms      []string      `yaml:"legal_terms" toml:"legal_terms"`
	OfficialDomains []string      `yaml:"official_domains" toml:"official_domains"`
	DomainTrust     []DomainTrust `yaml:"domain_trust" toml:"domain_trust"`
	DefaultTrust    float64       `yaml:"default_trust" toml:"default_trust"`
}

// Load reads a locale table from a .yaml/.yml or .toml file.
func Load(path string) (*Locale, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading locale %s: %w", path, err)
	}

	var loc Locale
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loc); err != nil {
			return nil, fmt.Errorf("parsing locale %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &loc); err != nil {
			return nil, fmt.Errorf("parsing locale %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported locale format %q", domain.ErrInvalidInput, filepath.Ext(path))
	}

	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("locale %s: %w", path, err)
	}
	return &loc, nil
}

// LoadOrDefault loads the locale at path, or returns MexicanSpanish when path is empty.
func LoadOrDefault(path string) (*Locale, error) {
	if path == "" {
		return MexicanSpanish(), nil
	}
	return Load(path)
}

// Validate checks that every marker pattern compiles and captures a number.
func (l *Locale) Validate() error {
	if len(l.Markers) == 0 {
		return fmt.Errorf("%w: no marker rules", domain.ErrInvalidInput)
	}
	var errs []error
	for _, rule := range l.Markers {
		if rule.Type == "" {
			errs = append(errs, fmt.Errorf("%w: marker rule without type", domain.ErrInvalidInput))
			continue
		}
		for _, p := range rule.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: %s pattern %q: %v", domain.ErrInvalidInput, rule.Type, p, err))
				continue
			}
			if re.NumSubexp() < 1 {
				errs = append(errs, fmt.Errorf("%w: %s pattern %q has no number group", domain.ErrInvalidInput, rule.Type, p))
			}
		}
	}
	for _, dt := range l.DomainTrust {
		if dt.Trust < 0 || dt.Trust > 1 {
			errs = append(errs, fmt.Errorf("%w: trust for %s outside [0,1]", domain.ErrInvalidInput, dt.Suffix))
		}
	}
	return errors.Join(errs...)
}
