package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestFraction(t *testing.T) {
	tests := []struct {
		current, total int
		want           float64
	}{
		{0, 4, 0},
		{1, 4, 0.25},
		{4, 4, 1},
		{5, 4, 1},
		{1, 0, 0},
		{-1, 3, 0},
	}
	for _, tt := range tests {
		if got := Fraction(tt.current, tt.total); got != tt.want {
			t.Errorf("Fraction(%d, %d) = %v, want %v", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}
	r.Start(2)
	r.Update(1, "pages/a.html")
	r.Update(2, "pages/b.html")
	r.Finish()

	out := buf.String()
	for _, want := range []string{"Starting: 2 items", "[1/2]  50% pages/a.html", "[2/2] 100% pages/b.html", "Done"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter("x").(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}
