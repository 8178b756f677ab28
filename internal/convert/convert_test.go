package convert

import (
	"errors"
	"math"
	"testing"

	"github.com/r-ledesma/cambio/internal/models"
)

func usdTable() *models.RateTable {
	return &models.RateTable{
		Base: "USD",
		Rates: map[string]float64{
			"EUR": 0.90,
			"GBP": 0.80,
			"JPY": 150.0,
		},
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "integer", input: "100", want: 100},
		{name: "decimal", input: "10.50", want: 10.50},
		{name: "surrounding whitespace", input: "  42 ", want: 42},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "infinity", input: "Inf", wantErr: true},
		{name: "nan", input: "NaN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseAmount(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConvertDirect(t *testing.T) {
	result, rate, err := Convert(10, "USD", "EUR", usdTable())
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if rate != 0.90 {
		t.Errorf("rate = %v, want 0.90", rate)
	}
	if math.Abs(result-9.00) > 1e-9 {
		t.Errorf("10 USD = %v EUR, want 9.00", result)
	}
}

func TestConvertIdentity(t *testing.T) {
	result, rate, err := Convert(123.45, "USD", "USD", usdTable())
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if result != 123.45 {
		t.Errorf("identity conversion changed amount: got %v", result)
	}
	if rate != 1 {
		t.Errorf("identity rate = %v, want 1", rate)
	}
}

func TestConvertIdentityWithoutTableEntry(t *testing.T) {
	// Identity must hold even when the table has no entry for the code.
	table := &models.RateTable{Base: "USD", Rates: map[string]float64{"EUR": 0.9}}
	result, rate, err := Convert(7, "XXX", "XXX", table)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if result != 7 || rate != 1 {
		t.Errorf("got (%v, %v), want (7, 1)", result, rate)
	}
}

func TestConvertCrossRate(t *testing.T) {
	// Table keyed to USD, converting EUR -> GBP: 0.80/0.90 per EUR.
	result, rate, err := Convert(9, "EUR", "GBP", usdTable())
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	wantRate := 0.80 / 0.90
	if math.Abs(rate-wantRate) > 1e-12 {
		t.Errorf("cross rate = %v, want %v", rate, wantRate)
	}
	if math.Abs(result-8.0) > 1e-9 {
		t.Errorf("9 EUR = %v GBP, want 8.0", result)
	}
}

func TestConvertMonotonic(t *testing.T) {
	table := usdTable()
	small, _, err := Convert(10, "USD", "EUR", table)
	if err != nil {
		t.Fatal(err)
	}
	large, _, err := Convert(20, "USD", "EUR", table)
	if err != nil {
		t.Fatal(err)
	}
	if large <= small {
		t.Errorf("larger amount converted to %v, not greater than %v", large, small)
	}
}

func TestConvertUnsupportedCurrency(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
	}{
		{name: "unknown target", from: "USD", to: "ZZZ"},
		{name: "unknown source", from: "ZZZ", to: "EUR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Convert(10, tt.from, tt.to, usdTable())
			if !errors.Is(err, ErrUnsupportedCurrency) {
				t.Errorf("Convert(%s -> %s) error = %v, want ErrUnsupportedCurrency", tt.from, tt.to, err)
			}
		})
	}
}

func TestConvertZeroSourceRate(t *testing.T) {
	table := &models.RateTable{
		Base:  "USD",
		Rates: map[string]float64{"EUR": 0.9, "BAD": 0},
	}
	_, _, err := Convert(10, "BAD", "EUR", table)
	if !errors.Is(err, ErrUnsupportedCurrency) {
		t.Errorf("zero source rate error = %v, want ErrUnsupportedCurrency", err)
	}
}

func TestConvertInvalidAmount(t *testing.T) {
	for _, amount := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, _, err := Convert(amount, "USD", "EUR", usdTable())
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Convert(amount=%v) error = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"usd", "USD"},
		{" eur ", "EUR"},
		{"GBP", "GBP"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCode(tt.input); got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
