package cli

import (
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,dot,json", []string{"svg", "dot", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "graphs/web.txt", "graphs/web"},
		{"", "web.json", "web"},
		{"out/web.svg", "web.txt", "out/web"},
		{"out/web", "web.txt", "out/web"},
		{"out/web.v2", "web.txt", "out/web.v2"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	single := &renderOpts{output: "drawing.svg", formats: []string{"svg"}}
	if got := outputPath("svg", "web.txt", single); got != "drawing.svg" {
		t.Errorf("outputPath(single) = %q, want drawing.svg", got)
	}

	multi := &renderOpts{output: "drawing.svg", formats: []string{"svg", "dot"}}
	if got := outputPath("dot", "web.txt", multi); got != "drawing.dot" {
		t.Errorf("outputPath(multi) = %q, want drawing.dot", got)
	}

	derived := &renderOpts{formats: []string{"svg"}}
	if got := outputPath("svg", "graphs/web.txt", derived); got != "graphs/web.svg" {
		t.Errorf("outputPath(derived) = %q, want graphs/web.svg", got)
	}
}

func TestJoinInts(t *testing.T) {
	tests := []struct {
		keys []int
		want string
	}{
		{nil, "-"},
		{[]int{3}, "3"},
		{[]int{1, 2, 3, 4}, "1,2,3,4"},
		{[]int{1, 2, 3, 4, 5, 6}, "1,2,3,4,+2"},
	}
	for _, tt := range tests {
		if got := joinInts(tt.keys); got != tt.want {
			t.Errorf("joinInts(%v) = %q, want %q", tt.keys, got, tt.want)
		}
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := map[string]string{
		":8080":        ":8080",
		"0.0.0.0:9000": ":9000",
		"localhost":    "localhost",
	}
	for addr, want := range tests {
		if got := displayAddr(addr); got != want {
			t.Errorf("displayAddr(%q) = %q, want %q", addr, got, want)
		}
	}
}
