package uptime

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestDays(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "days hours minutes", input: "5 days, 3 hours, 12 minutes", want: 5 + 3.0/24 + 12.0/1440},
		{name: "days only", input: "2 days", want: 2},
		{name: "days and hours", input: "1 days, 12 hours", want: 1.5},
		{name: "zero days", input: "0 days, 0 hours, 0 minutes", want: 0},
		{name: "exactly a week", input: "7 days", want: 7},
		{name: "just under a week", input: "6 days, 23 hours, 59 minutes", want: 6 + 23.0/24 + 59.0/1440},
		{name: "extra segments ignored", input: "1 days, 2 hours, 3 minutes, 4 seconds", want: 1 + 2.0/24 + 3.0/1440},
		{name: "unit words are positional", input: "1 days, 30 minutes", want: 1 + 30.0/24},
		{name: "surrounding whitespace in token", input: " 3  days", want: 3},
		{name: "hours and minutes only", input: "3 hours, 10 minutes", want: 0},
		{name: "singular day", input: "1 day, 2 hours", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "garbage", input: "garbage", want: 0},
		{name: "non-numeric days", input: "abc days, 1 hours", want: 0},
		{name: "non-numeric hours", input: "4 days, x hours", want: 0},
		{name: "empty segment", input: "4 days, , 3 minutes", want: 0},
		{name: "missing magnitude", input: "days", want: 0},
		{name: "negative days", input: "-3 days", want: 0},
		{name: "fractional days", input: "1.5 days", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Days(tt.input)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Days(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDays_Formula(t *testing.T) {
	for _, d := range []int{0, 1, 7, 365} {
		for _, h := range []int{0, 1, 23} {
			for _, m := range []int{0, 1, 59} {
				input := fmt.Sprintf("%d days, %d hours, %d minutes", d, h, m)
				want := float64(d) + float64(h)/24 + float64(m)/1440
				if got := Days(input); got != want {
					t.Errorf("Days(%q) = %v, want %v", input, got, want)
				}
			}
		}
	}
}

func TestDays_NeverNegative(t *testing.T) {
	inputs := []string{"-1 days", "1 days, -5 hours", "0 days, 0 hours, -1 minutes", "\x00 days", "days, days, days"}
	for _, input := range inputs {
		if got := Days(input); got < 0 || math.IsNaN(got) {
			t.Errorf("Days(%q) = %v, want a non-negative number", input, got)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "no day component", input: "3 hours", wantErr: ErrNoDays},
		{name: "empty", input: "", wantErr: ErrNoDays},
		{name: "non-numeric", input: "abc days", wantErr: ErrMalformed},
		{name: "negative hours", input: "2 days, -1 hours", wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if d != (Duration{}) {
				t.Errorf("Parse(%q) = %+v, want zero Duration on error", tt.input, d)
			}
		})
	}
}

func TestParse_Magnitudes(t *testing.T) {
	d, err := Parse("10 days, 2 hours, 0 minutes")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := Duration{Days: 10, Hours: 2, Minutes: 0}
	if d != want {
		t.Errorf("Parse() = %+v, want %+v", d, want)
	}
}

func TestParse_BeyondIntRange(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{input: "99999999999999999999 days", want: 1e20},
		{input: "1 days, 99999999999999999999 hours", want: 1 + 1e20/24},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Days(tt.input)
			if math.Abs(got-tt.want) > tt.want*1e-12 {
				t.Errorf("Days(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	if _, err := Parse("-99999999999999999999 days"); !errors.Is(err, ErrMalformed) {
		t.Errorf("Parse(negative overflow) error = %v, want ErrMalformed", err)
	}
}

func TestFormatDays(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 7, want: "7.0"},
		{in: 0, want: "0.0"},
		{in: 1.5, want: "1.5"},
		{in: Days("10 days, 2 hours, 0 minutes"), want: "10.083333333333334"},
	}

	for _, tt := range tests {
		if got := FormatDays(tt.in); got != tt.want {
			t.Errorf("FormatDays(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
