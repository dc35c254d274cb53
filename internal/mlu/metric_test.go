package mlu

import "testing"

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in      string
		want    Metric
		column  string
		wantErr bool
	}{
		{"word", Words, "mlu", false},
		{"MLU", Words, "mlu", false},
		{"morphemes", Morphemes, "mlum", false},
		{"", Morphemes, "mlum", false},
		{"mlug", Relations, "mlug", false},
		{"syllable", 0, "", true},
	}
	for _, tt := range tests {
		got, err := ParseMetric(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseMetric(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseMetric(%q): %v", tt.in, err)
		}
		if got != tt.want || got.Column() != tt.column {
			t.Fatalf("ParseMetric(%q) = %v/%s, want %v/%s", tt.in, got, got.Column(), tt.want, tt.column)
		}
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		in   []float64
		want float64
		ok   bool
	}{
		{nil, 0, false},
		{[]float64{4, 2, 3}, 3, true},
		{[]float64{1, 1, 2}, 1, true},
		{[]float64{4, 1, 3, 2}, 2.5, true},
	}
	for _, tt := range tests {
		got, ok := Median(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("Median(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}

	values := []float64{3, 1, 2}
	Median(values)
	if values[0] != 3 || values[1] != 1 {
		t.Fatalf("Median reordered its input: %v", values)
	}
}
