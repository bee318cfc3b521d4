package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/uniquepaths/pkg/render/nodelink"
)

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// RenderOptions configures [Render].
type RenderOptions struct {
	Formats  []string
	Detailed bool    // component statistics in labels
	Scale    float64 // PNG scale; defaults to 2
}

// Render generates output artifacts of the condensation in res, keyed by
// format. The components holding the start and end node are highlighted.
// JSON output is the run [Summary].
func Render(ctx context.Context, res *Result, start, end int, opts RenderOptions) (map[string][]byte, error) {
	if res.Condensation == nil {
		return nil, fmt.Errorf("result has no condensation")
	}
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	if opts.Scale == 0 {
		opts.Scale = 2
	}

	var highlight []string
	for _, key := range []int{start, end} {
		if sn, err := res.Condensation.SuperNodeOf(key); err == nil {
			highlight = append(highlight, fmt.Sprint(sn.Representative))
		}
	}
	dot := nodelink.ToDOT(res.Condensation, nodelink.Options{Detailed: opts.Detailed, Highlight: highlight})

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = json.MarshalIndent(res.Summary(), "", "  ")
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
