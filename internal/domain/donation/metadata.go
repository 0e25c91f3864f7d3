package donation

import (
	"strconv"
	"strings"
)

// Keys of the processor metadata bag. The processor only stores strings.
const (
	MetaDonorName  = "donorName"
	MetaDonorEmail = "donorEmail"
	MetaMessage    = "message"
	MetaRecurring  = "recurring"
)

// AnonymousDonor is recorded when the metadata bag carries no donor name.
const AnonymousDonor = "Anonymous"

// Metadata is the donor intent that round-trips through the processor.
// It is converted to and from a string map only at the processor boundary.
type Metadata struct {
	DonorName  string
	DonorEmail string
	Message    string
	Recurring  bool
}

// MetadataFor extracts the round-trip fields of an intent.
func MetadataFor(i Intent) Metadata {
	return Metadata{
		DonorName:  i.DonorName,
		DonorEmail: i.DonorEmail,
		Message:    i.Message,
		Recurring:  i.Recurring,
	}
}

func (m Metadata) ToMap() map[string]string {
	return map[string]string{
		MetaDonorName:  m.DonorName,
		MetaDonorEmail: m.DonorEmail,
		MetaMessage:    m.Message,
		MetaRecurring:  strconv.FormatBool(m.Recurring),
	}
}

// MetadataFromMap never fails: a payment that already succeeded must still be
// recorded, so missing keys fall back to an anonymous one-time donation.
func MetadataFromMap(bag map[string]string) Metadata {
	m := Metadata{
		DonorName:  strings.TrimSpace(bag[MetaDonorName]),
		DonorEmail: strings.TrimSpace(bag[MetaDonorEmail]),
		Message:    strings.TrimSpace(bag[MetaMessage]),
		Recurring:  bag[MetaRecurring] == "true",
	}
	if m.DonorName == "" {
		m.DonorName = AnonymousDonor
	}
	return m
}
