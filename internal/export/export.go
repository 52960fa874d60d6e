// Package export renders an analysis result as JSON, Markdown or a
// standalone HTML page.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"webready/internal/analyzer"
)

// Format names a supported output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat maps a user-supplied format name, accepting common
// aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Render serializes the result in the named format and returns the
// bytes with their Content-Type.
func Render(res *analyzer.ProjectResult, format string) ([]byte, string, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, "", err
	}
	switch f {
	case FormatMarkdown:
		return []byte(Markdown(res)), "text/markdown; charset=utf-8", nil
	case FormatHTML:
		out, err := HTML(res)
		if err != nil {
			return nil, "", err
		}
		return out, "text/html; charset=utf-8", nil
	default:
		out, err := JSON(res)
		if err != nil {
			return nil, "", err
		}
		return out, "application/json", nil
	}
}

// JSON renders the result as an indented JSON document.
func JSON(res *analyzer.ProjectResult) ([]byte, error) {
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return out, nil
}
