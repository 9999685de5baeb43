package gps

import (
	"errors"
	"testing"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  int64
		err   bool
	}{
		{name: "integer", in: "4", want: 4},
		{name: "point dropped", in: "12.345", want: 12345},
		{name: "leading zeros", in: "0007", want: 7},
		{name: "fixed width prefix", in: "48.6109280xyz", width: 10, want: 486109280},
		{name: "empty", in: "", want: 0},
		{name: "trailing point", in: "10.", want: 10},
		{name: "minus rejected", in: "-2.076", err: true},
		{name: "letter rejected", in: "1a", err: true},
		{name: "space rejected", in: " 1", err: true},
		{name: "second point rejected", in: "1.2.3", err: true},
		{name: "width beyond input", in: "12", width: 5, err: true},
		{name: "overflow", in: "99999999999999999999", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal(tt.in, tt.width)
			if tt.err {
				if err == nil {
					t.Fatalf("ParseDecimal(%q, %d) = %d, want error", tt.in, tt.width, got)
				}
				if !errors.Is(err, ErrNumericConversion) {
					t.Fatalf("error %v is not ErrNumericConversion", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimal(%q, %d): %v", tt.in, tt.width, err)
			}
			if got != tt.want {
				t.Fatalf("ParseDecimal(%q, %d) = %d, want %d", tt.in, tt.width, got, tt.want)
			}
		})
	}
}
