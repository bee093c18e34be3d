package solver

import (
	"testing"

	errs "github.com/matzehuels/knapset/pkg/errors"
)

func TestVerify(t *testing.T) {
	g := scenario(t)

	tests := []struct {
		name     string
		ids      []string
		wantCode errs.Code
		want     Report
	}{
		{
			name: "optimal set",
			ids:  []string{"B", "D"},
			want: Report{Value: 7, Weight: 4, Independent: true, WithinCapacity: true},
		},
		{
			name: "empty set",
			want: Report{Independent: true, WithinCapacity: true},
		},
		{
			name:     "adjacent pair",
			ids:      []string{"A", "B"},
			wantCode: errs.ErrCodeInfeasible,
			want:     Report{Value: 8, Weight: 5, Independent: false, WithinCapacity: true},
		},
		{
			name:     "over capacity",
			ids:      []string{"A", "C"},
			wantCode: errs.ErrCodeInfeasible,
			want:     Report{Value: 9, Weight: 6, Independent: true, WithinCapacity: false},
		},
		{
			name:     "unknown vertex",
			ids:      []string{"B", "Z"},
			wantCode: errs.ErrCodeInvalidVertex,
		},
		{
			name:     "duplicate vertex",
			ids:      []string{"D", "D"},
			wantCode: errs.ErrCodeInvalidVertex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := Verify(g, tt.ids)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Verify() error = %v", err)
				}
				if !rep.Feasible() {
					t.Error("Feasible() = false")
				}
			} else if !errs.Is(err, tt.wantCode) {
				t.Fatalf("Verify() error = %v, want code %s", err, tt.wantCode)
			}
			if rep != tt.want {
				t.Errorf("Report = %+v, want %+v", rep, tt.want)
			}
		})
	}
}

func TestVerifyNilInstance(t *testing.T) {
	if _, err := Verify(nil, []string{"a"}); !errs.Is(err, errs.ErrCodeInvalidInstance) {
		t.Errorf("Verify(nil) error = %v", err)
	}
}
