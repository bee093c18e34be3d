package render

import "testing"

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{" DOT ", FormatDOT, false},
		{"Json", FormatJSON, false},
		{"png", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q, err %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestFormatMetadata(t *testing.T) {
	if FormatSVG.Ext() != ".svg" || FormatSVG.ContentType() != "image/svg+xml" {
		t.Error("svg metadata wrong")
	}
	if FormatDOT.ContentType() != "text/vnd.graphviz" || FormatJSON.ContentType() != "application/json" {
		t.Error("content types wrong")
	}
}
