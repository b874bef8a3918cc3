// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shivesh0001/ppt-checker/pkg/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "deck.json", `{
		"source": "q3-review.pptx",
		"slides": [
			{"index": 1, "texts": ["Q3 Review", "Revenue: $10M"]},
			{"index": 2, "texts": ["Breakdown"], "ocr_text": "chart: 4M + 5M"}
		]
	}`)

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Source != "q3-review.pptx" {
		t.Errorf("Source = %q, want q3-review.pptx", d.Source)
	}
	if len(d.Slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(d.Slides))
	}
	if d.Slides[1].OCRText != "chart: 4M + 5M" {
		t.Errorf("OCRText = %q", d.Slides[1].OCRText)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "deck.yaml", `
slides:
  - texts: ["Title slide"]
  - texts: ["Second slide"]
    notes: "speaker notes here"
`)

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Missing indices are filled in by position.
	if d.Slides[0].Index != 1 || d.Slides[1].Index != 2 {
		t.Errorf("indices = %d, %d, want 1, 2", d.Slides[0].Index, d.Slides[1].Index)
	}
	if d.Slides[1].Notes != "speaker notes here" {
		t.Errorf("Notes = %q", d.Slides[1].Notes)
	}
	// Source defaults to the file path.
	if d.Source != path {
		t.Errorf("Source = %q, want %q", d.Source, path)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"empty deck", "deck.json", `{"slides": []}`},
		{"bad json", "deck.json", `{"slides": [`},
		{"unknown extension", "deck.txt", `whatever`},
		{"non-ascending indices", "deck.json", `{"slides": [{"index": 3, "texts": ["a"]}, {"index": 2, "texts": ["b"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load succeeded, want error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("Load succeeded, want error")
	}
}

func TestText(t *testing.T) {
	s := types.Slide{Texts: []string{"Revenue: $10M", "Growth: 20%"}}
	if got := Text(s); got != "Revenue: $10M\nGrowth: 20%" {
		t.Errorf("Text = %q", got)
	}
}
