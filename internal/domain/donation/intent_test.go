package donation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func validIntent() Intent {
	return Intent{
		Amount:     decimal.RequireFromString("1500"),
		DonorName:  "Juan Dela Cruz",
		DonorEmail: "juan@example.com",
	}
}

func TestIntent_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Intent)
		wantField string
	}{
		{name: "valid", mutate: func(*Intent) {}},
		{name: "zero amount", mutate: func(i *Intent) { i.Amount = decimal.Zero }, wantField: "amount"},
		{name: "negative amount", mutate: func(i *Intent) { i.Amount = decimal.NewFromInt(-5) }, wantField: "amount"},
		{name: "rounds to zero", mutate: func(i *Intent) { i.Amount = decimal.RequireFromString("0.001") }, wantField: "amount"},
		{name: "too large", mutate: func(i *Intent) { i.Amount = decimal.NewFromInt(1_000_000) }, wantField: "amount"},
		{name: "overflows int64 minor units", mutate: func(i *Intent) { i.Amount = decimal.RequireFromString("184467440737095516.17") }, wantField: "amount"},
		{name: "at maximum", mutate: func(i *Intent) { i.Amount = decimal.RequireFromString("999999.99") }},
		{name: "missing name", mutate: func(i *Intent) { i.DonorName = "" }, wantField: "donorName"},
		{name: "missing email", mutate: func(i *Intent) { i.DonorEmail = "" }, wantField: "donorEmail"},
		{name: "malformed email", mutate: func(i *Intent) { i.DonorEmail = "juan-at-example" }, wantField: "donorEmail"},
		{name: "long message", mutate: func(i *Intent) { i.Message = strings.Repeat("x", 2001) }, wantField: "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validIntent()
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
			}
			if verr.Field != tt.wantField {
				t.Fatalf("expected field %q, got %q (%s)", tt.wantField, verr.Field, verr.Message)
			}
		})
	}
}

func TestIntent_Normalize(t *testing.T) {
	in := Intent{DonorName: "  Juan ", DonorEmail: " juan@example.com\n", Message: "  salamat  "}
	in.Normalize()
	if in.DonorName != "Juan" || in.DonorEmail != "juan@example.com" || in.Message != "salamat" {
		t.Fatalf("unexpected normalized intent: %+v", in)
	}
}

func TestMetadataFor(t *testing.T) {
	in := validIntent()
	in.Recurring = true
	in.Message = "hello"
	m := MetadataFor(in)
	if m.DonorName != in.DonorName || m.DonorEmail != in.DonorEmail || m.Message != "hello" || !m.Recurring {
		t.Fatalf("unexpected metadata: %+v", m)
	}
}
