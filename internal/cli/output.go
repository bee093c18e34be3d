package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/knapset/pkg/render"
)

// nopCloser wraps a writer the command does not own, such as stdout.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput creates path, or returns stdout when path is "" or "-".
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.Create(path)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. A known format
// extension on output is stripped as well.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, render.Format(strings.TrimPrefix(ext, "."))) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPaths maps each format to the file it is written to. A single
// format goes to output verbatim when given; several formats share the base
// path and differ by extension.
func artifactPaths(formats []string, input, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes rendered artifacts in the order of formats.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string, stdout io.Writer) ([]string, error) {
	paths := artifactPaths(formats, input, output)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			return written, fmt.Errorf("no %s artifact rendered", f)
		}
		out, err := openOutput(paths[f], stdout)
		if err != nil {
			return written, err
		}
		_, werr := out.Write(data)
		cerr := out.Close()
		if werr != nil {
			return written, werr
		}
		if cerr != nil {
			return written, cerr
		}
		written = append(written, paths[f])
	}
	return written, nil
}
