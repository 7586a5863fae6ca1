package docmodel

import (
	"testing"
)

func TestGroupLines(t *testing.T) {
	tests := []struct {
		name      string
		words     []Word
		wantLines int
		wantTexts []string
	}{
		{
			name:      "empty input",
			words:     nil,
			wantLines: 0,
		},
		{
			name: "single line sorted left to right",
			words: []Word{
				{X0: 50, Y0: 100.02, Text: "de"},
				{X0: 10, Y0: 100.04, Text: "Date"},
				{X0: 90, Y0: 99.96, Text: "naissance:"},
			},
			wantLines: 1,
			wantTexts: []string{"Date de naissance:"},
		},
		{
			name: "two lines ordered top to bottom",
			words: []Word{
				{X0: 10, Y0: 200, Text: "second"},
				{X0: 10, Y0: 100, Text: "first"},
			},
			wantLines: 2,
			wantTexts: []string{"first", "second"},
		},
		{
			name: "rounding boundary splits into distinct lines",
			words: []Word{
				{X0: 10, Y0: 100.04, Text: "a"},
				{X0: 20, Y0: 100.06, Text: "b"},
			},
			wantLines: 2,
			wantTexts: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := GroupLines(tt.words)
			if len(lines) != tt.wantLines {
				t.Fatalf("GroupLines() returned %d lines, want %d", len(lines), tt.wantLines)
			}
			for i, want := range tt.wantTexts {
				if got := lines[i].Text(); got != want {
					t.Errorf("line %d text = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestGroupLinesDeterministic(t *testing.T) {
	words := []Word{
		{X0: 30, Y0: 50.12, Text: "c"},
		{X0: 10, Y0: 50.08, Text: "a"},
		{X0: 20, Y0: 50.11, Text: "b"},
		{X0: 5, Y0: 80, Text: "d"},
	}

	first := GroupLines(words)
	for i := 0; i < 10; i++ {
		again := GroupLines(words)
		if len(again) != len(first) {
			t.Fatalf("run %d: got %d lines, want %d", i, len(again), len(first))
		}
		for j := range first {
			if first[j].Text() != again[j].Text() {
				t.Fatalf("run %d: line %d = %q, want %q", i, j, again[j].Text(), first[j].Text())
			}
		}
	}
}

func TestRectEmpty(t *testing.T) {
	if (Rect{X0: 0, Y0: 0, X1: 8, Y1: 8}).Empty() {
		t.Error("8x8 box should not be empty")
	}
	if !(Rect{}).Empty() {
		t.Error("zero rect should be empty")
	}
	if !(Rect{X0: 10, Y0: 10, X1: 5, Y1: 20}).Empty() {
		t.Error("inverted rect should be empty")
	}
}
