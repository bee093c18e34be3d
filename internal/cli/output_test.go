package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/toy.json", "data/toy"},
		{"", "toy", "toy"},
		{"out/result.svg", "toy.json", "out/result"},
		{"out/result.dot", "toy.json", "out/result"},
		{"out/result.png", "toy.json", "out/result.png"},
		{"out/result", "toy.json", "out/result"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestArtifactPaths(t *testing.T) {
	single := artifactPaths([]string{"svg"}, "toy.json", "picture.svg")
	if single["svg"] != "picture.svg" {
		t.Errorf("single = %v", single)
	}
	derived := artifactPaths([]string{"svg"}, "dir/toy.json", "")
	if derived["svg"] != "dir/toy.svg" {
		t.Errorf("derived = %v", derived)
	}
	multi := artifactPaths([]string{"dot", "json"}, "toy.json", "out/x.svg")
	if multi["dot"] != "out/x.dot" || multi["json"] != "out/x.json" {
		t.Errorf("multi = %v", multi)
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"dot": []byte("graph {}"), "json": []byte("{}")}

	paths, err := writeArtifacts(artifacts, []string{"dot", "json"}, "toy.json", filepath.Join(dir, "nested", "toy"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	if data, _ := os.ReadFile(paths[0]); string(data) != "graph {}" {
		t.Errorf("%s = %q", paths[0], data)
	}

	var stdout bytes.Buffer
	if _, err := writeArtifacts(artifacts, []string{"dot"}, "toy.json", "-", &stdout); err != nil {
		t.Fatal(err)
	}
	if stdout.String() != "graph {}" {
		t.Errorf("stdout = %q", stdout.String())
	}

	if _, err := writeArtifacts(artifacts, []string{"svg"}, "toy.json", "-", &stdout); err == nil {
		t.Error("missing artifact should fail")
	}
}
