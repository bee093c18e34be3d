package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	i := Get()
	if i.Version == "" || i.Commit == "" || i.Date == "" {
		t.Errorf("Get() = %+v, want every field filled", i)
	}
	if Get() != i {
		t.Error("Get() should be stable")
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version: ") || !strings.HasSuffix(tmpl, "\n") {
		t.Errorf("Template() = %q", tmpl)
	}
	for _, field := range []string{"commit:", "built:", "go:"} {
		if !strings.Contains(tmpl, field) {
			t.Errorf("Template() missing %q", field)
		}
	}
}
