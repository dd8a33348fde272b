package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestSparklinesShareScale(t *testing.T) {
	rows := Sparklines(4,
		SparkSeries{Values: []float64{1, 1, 1, 1}},
		SparkSeries{Values: []float64{0, 0, 2, 2}},
	)
	flat := ansi.Strip(rows[0])
	if flat != "▄▄▄▄" {
		t.Errorf("flat series at mid scale = %q", flat)
	}
	if got := ansi.Strip(rows[1]); got != "▁▁██" {
		t.Errorf("second series = %q", got)
	}
}

func TestSparklinesResample(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}
	row := ansi.Strip(Sparklines(10, SparkSeries{Values: values})[0])
	if n := len([]rune(row)); n != 10 {
		t.Fatalf("width = %d, want 10", n)
	}
	if !strings.HasPrefix(row, "▁") || !strings.HasSuffix(row, "█") {
		t.Errorf("rising series = %q", row)
	}
}

func TestSparklinesEmpty(t *testing.T) {
	rows := Sparklines(10, SparkSeries{}, SparkSeries{Values: []float64{3}})
	if rows[0] != "" {
		t.Errorf("empty series rendered %q", rows[0])
	}
	if got := ansi.Strip(rows[1]); got != "▄" {
		t.Errorf("single point = %q", got)
	}
	if got := Sparklines(0, SparkSeries{Values: []float64{1}}); got[0] != "" {
		t.Errorf("zero width rendered %q", got[0])
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("a very long message", 8); got != "a very …" {
		t.Errorf("got %q", got)
	}
}
