package render

import (
	"fmt"
	"strings"
)

// Format is a render output format.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
	FormatJSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatDOT, FormatSVG, FormatJSON}

// ParseFormat parses a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatDOT, FormatSVG, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want dot, svg or json)", s)
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	default:
		return "text/vnd.graphviz"
	}
}
