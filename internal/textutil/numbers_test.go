package textutil

import (
	"math"
	"testing"
)

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-6*math.Max(1, math.Abs(b[i])) {
			return false
		}
	}
	return true
}

func TestExtractNumbers(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []float64
	}{
		{
			name:     "plain integer",
			text:     "Umsatz stieg um 12 Prozent",
			expected: []float64{12},
		},
		{
			name:     "german decimal comma",
			text:     "ein Wachstum von 12,5 Prozent",
			expected: []float64{12.5},
		},
		{
			name:     "german thousands with decimal comma",
			text:     "Umsatzerlöse von 1.234,56 EUR",
			expected: []float64{1234.56},
		},
		{
			name:     "english thousands with decimal point",
			text:     "revenue of 1,234.56 EUR",
			expected: []float64{1234.56},
		},
		{
			name:     "mio suffix",
			text:     "Umsatz von 150 Mio. Euro",
			expected: []float64{150e6},
		},
		{
			name:     "mrd suffix with decimal comma",
			text:     "Umsatz von 1,2 Mrd. Euro",
			expected: []float64{1.2e9},
		},
		{
			name:     "english billion",
			text:     "revenue of 1.2 billion euros",
			expected: []float64{1.2e9},
		},
		{
			name:     "multiple figures in order",
			text:     "12% in 2024",
			expected: []float64{12, 2024},
		},
		{
			name:     "no figures",
			text:     "kein nennenswertes Wachstum",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractNumbers(tt.text)
			if !floatsEqual(got, tt.expected) {
				t.Errorf("ExtractNumbers(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestContainsNumber(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		number    float64
		tolerance float64
		expected  bool
	}{
		{
			name:      "exact match",
			text:      "Umsatz stieg um 12%",
			number:    12,
			tolerance: 0.01,
			expected:  true,
		},
		{
			name:      "within tolerance",
			text:      "rund 100,5 Millionen",
			number:    100.4e6,
			tolerance: 0.01,
			expected:  true,
		},
		{
			name:      "outside tolerance",
			text:      "Umsatz stieg um 12%",
			number:    15,
			tolerance: 0.01,
			expected:  false,
		},
		{
			name:      "bare figure matches multiplier-scaled claim",
			text:      "ein Plus von 1,2 im Vergleich",
			number:    1.2e9,
			tolerance: 0.01,
			expected:  true,
		},
		{
			name:      "scaled figure matches bare claim",
			text:      "Umsatz von 1,2 Mrd. Euro",
			number:    1.2,
			tolerance: 0.01,
			expected:  true,
		},
		{
			name:      "empty text",
			text:      "",
			number:    12,
			tolerance: 0.01,
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContainsNumber(tt.text, tt.number, tt.tolerance)
			if got != tt.expected {
				t.Errorf("ContainsNumber(%q, %g) = %v, want %v", tt.text, tt.number, got, tt.expected)
			}
		})
	}
}

func TestFormatVariants(t *testing.T) {
	got := FormatVariants(12.5)
	want := map[string]bool{"12": true, "12.5": true, "12,5": true, "12.50": true}
	for _, v := range got {
		if !want[v] {
			t.Errorf("unexpected variant %q", v)
		}
	}
	if len(got) != len(want) {
		t.Errorf("FormatVariants(12.5) = %v, want %d variants", got, len(want))
	}

	intVariants := FormatVariants(150)
	found := false
	for _, v := range intVariants {
		if v == "150" {
			found = true
		}
	}
	if !found {
		t.Errorf("FormatVariants(150) = %v, missing plain integer form", intVariants)
	}
}
