package normalize

import (
	"reflect"
	"testing"
)

func TestParseClasses(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"comma separated", "9, 35", []int{9, 35}},
		{"semicolons and spaces", "9; 35 42", []int{9, 35, 42}},
		{"duplicates collapse", "9, 9, 35", []int{9, 35}},
		{"unsorted input sorted", "35, 9", []int{9, 35}},
		{"out of range dropped", "0, 9, 46, 99", []int{9}},
		{"embedded digits", "cl.9; class 35", []int{9, 35}},
		{"whitespace only", "  ", []int{}},
		{"empty", "", []int{}},
		{"no digits", "electronics", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseClasses(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseClasses(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatClasses(t *testing.T) {
	if got := FormatClasses([]int{9, 35}); got != "{9,35}" {
		t.Errorf("FormatClasses = %q, want {9,35}", got)
	}
	if got := FormatClasses(nil); got != "{}" {
		t.Errorf("FormatClasses(nil) = %q, want {}", got)
	}
}
