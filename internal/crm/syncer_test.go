package crm

import "testing"

func TestSplitName(t *testing.T) {
	tests := []struct {
		name  string
		full  string
		first string
		last  string
	}{
		{"first and last", "Mario Rossi", "Mario", "Rossi"},
		{"single token", "Mario", "Mario", ""},
		{"three tokens", "Anna Maria Bianchi", "Anna", "Maria Bianchi"},
		{"extra whitespace", "  Mario   Rossi  ", "Mario", "Rossi"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := SplitName(tt.full)
			if first != tt.first || last != tt.last {
				t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)", tt.full, first, last, tt.first, tt.last)
			}
		})
	}
}
