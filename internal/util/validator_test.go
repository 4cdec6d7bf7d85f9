package util

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	cases := []struct {
		amount  string
		wantErr bool
	}{
		{"0.01", false},
		{"9999999.99", false},
		{"0", true},
		{"-5.00", true},
		{"10000000", true},
	}
	for _, tc := range cases {
		amt, err := decimal.NewFromString(tc.amount)
		if err != nil {
			t.Fatalf("bad test amount %q: %v", tc.amount, err)
		}
		err = ValidateAmount(amt)
		if (err != nil) != tc.wantErr {
			t.Errorf("ValidateAmount(%s) error = %v, wantErr %v", tc.amount, err, tc.wantErr)
		}
	}
}

func TestValidateDate(t *testing.T) {
	got, err := ValidateDate("2024-02-29")
	if err != nil {
		t.Fatalf("ValidateDate: %v", err)
	}
	want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parsed = %v, want %v", got, want)
	}

	for _, bad := range []string{"", "2024-13-01", "2023-02-29", "15.05.2024"} {
		if _, err := ValidateDate(bad); err == nil {
			t.Errorf("ValidateDate(%q) = nil error, want failure", bad)
		}
	}
}

func TestValidateCategory(t *testing.T) {
	if err := ValidateCategory("rent"); err != nil {
		t.Errorf("ValidateCategory(rent) = %v", err)
	}
	if err := ValidateCategory(""); err == nil {
		t.Error("empty category accepted")
	}
	if err := ValidateCategory(strings.Repeat("x", 65)); err == nil {
		t.Error("overlong category accepted")
	}
}
