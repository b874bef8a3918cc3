// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deck loads the typed slide sequence produced by the content
// extraction tool. Decoding the presentation format and running OCR happen
// upstream; this package only reads the extractor's output file and
// validates it into a Deck the analyzers can trust.
package deck

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/shivesh0001/ppt-checker/pkg/types"
)

// Load reads a deck file (JSON or YAML, selected by extension) and validates
// it. A deck with zero slides is an error: the pipeline has nothing to
// analyze and must fail before any inference call.
func Load(path string) (*types.Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck file %s: %w", path, err)
	}

	var d types.Deck
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parsing deck JSON %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("parsing deck YAML %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported deck file extension %q (want .json, .yaml, or .yml)", ext)
	}

	if d.Source == "" {
		d.Source = path
	}

	if err := Validate(&d); err != nil {
		return nil, fmt.Errorf("validating deck %s: %w", path, err)
	}
	return &d, nil
}

// Validate checks deck integrity and fills in missing slide indices. Slides
// without an explicit index are numbered by position (1-based). Indices must
// be strictly ascending; anything else means a corrupt extraction and is
// fatal.
func Validate(d *types.Deck) error {
	if len(d.Slides) == 0 {
		return fmt.Errorf("deck contains no slides")
	}

	prev := 0
	for i := range d.Slides {
		s := &d.Slides[i]
		if s.Index == 0 {
			s.Index = i + 1
		}
		if s.Index <= prev {
			return fmt.Errorf("slide %d: index %d not ascending (previous %d)", i, s.Index, prev)
		}
		prev = s.Index
	}
	return nil
}

// Text joins a slide's text blocks into one block for prompting.
func Text(s types.Slide) string {
	return strings.Join(s.Texts, "\n")
}
