package donation

import "testing"

func TestMetadata_ToMapStringifiesRecurring(t *testing.T) {
	m := Metadata{DonorName: "Juan Dela Cruz", DonorEmail: "juan@example.com", Recurring: true}
	bag := m.ToMap()

	if bag[MetaRecurring] != "true" {
		t.Fatalf("expected recurring \"true\", got %q", bag[MetaRecurring])
	}
	if v, ok := bag[MetaMessage]; !ok || v != "" {
		t.Fatalf("expected empty message key to be present, got %q (present=%v)", v, ok)
	}
	if bag[MetaDonorName] != "Juan Dela Cruz" || bag[MetaDonorEmail] != "juan@example.com" {
		t.Fatalf("unexpected bag: %v", bag)
	}
}

func TestMetadataFromMap_RoundTrip(t *testing.T) {
	in := Metadata{DonorName: "Maria", DonorEmail: "maria@example.com", Message: "Para sa mga bata", Recurring: false}
	out := MetadataFromMap(in.ToMap())
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestMetadataFromMap_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		bag  map[string]string
	}{
		{name: "nil bag", bag: nil},
		{name: "empty bag", bag: map[string]string{}},
		{name: "blank name", bag: map[string]string{MetaDonorName: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MetadataFromMap(tt.bag)
			if m.DonorName != AnonymousDonor {
				t.Errorf("expected %q, got %q", AnonymousDonor, m.DonorName)
			}
			if m.DonorEmail != "" || m.Message != "" || m.Recurring {
				t.Errorf("expected zero values, got %+v", m)
			}
		})
	}
}

func TestMetadataFromMap_RecurringOnlyForTrue(t *testing.T) {
	for _, v := range []string{"false", "TRUE", "1", "yes", ""} {
		if MetadataFromMap(map[string]string{MetaRecurring: v}).Recurring {
			t.Errorf("recurring %q must not be treated as true", v)
		}
	}
}
