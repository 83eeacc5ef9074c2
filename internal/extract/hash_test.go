package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessHash_CaseAndWhitespaceInvariant(t *testing.T) {
	a := BusinessHash("Acme Plumbing", "123 Main St, Springfield", "(212) 555-1234")
	b := BusinessHash("  ACME Plumbing ", "123 Main St,  Springfield", "2125551234")
	assert.Equal(t, a, b)
}

func TestBusinessHash_LegalSuffixInvariant(t *testing.T) {
	a := BusinessHash("Acme Plumbing LLC", "", "2125551234")
	b := BusinessHash("Acme Plumbing Inc.", "", "2125551234")
	c := BusinessHash("Acme Plumbing", "", "2125551234")
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestBusinessHash_SuffixStrippedAsWholeWordOnly(t *testing.T) {
	a := BusinessHash("Cobalt Services", "", "")
	b := BusinessHash("Balt Services", "", "")
	assert.NotEqual(t, a, b)
}

func TestBusinessHash_PhoneLastSevenDigits(t *testing.T) {
	a := BusinessHash("Acme", "", "+1 (212) 555-1234")
	b := BusinessHash("Acme", "", "555-1234")
	assert.Equal(t, a, b)
}

func TestBusinessHash_AllEmptyNeverCollides(t *testing.T) {
	a := BusinessHash("", "", "")
	b := BusinessHash("", "", "")
	assert.NotEqual(t, a, b)
}

func TestBusinessHash_DifferentBusinessesDiffer(t *testing.T) {
	a := BusinessHash("Acme Plumbing", "123 Main St, Springfield", "2125551234")
	b := BusinessHash("Apex Plumbing", "123 Main St, Springfield", "2125551234")
	assert.NotEqual(t, a, b)
}

func TestBusinessHash_PhoneOnlyFallsBackToPhoneComponent(t *testing.T) {
	a := BusinessHash("", "", "2125551234")
	b := BusinessHash("", "", "(212) 555-1234")
	assert.Equal(t, a, b)
}

func TestBusinessHash_AddressStreetAndCityOnly(t *testing.T) {
	a := BusinessHash("Acme", "123 Main St, Springfield, IL 62701", "")
	b := BusinessHash("Acme", "123 Main St., Springfield, IL 99999", "")
	assert.Equal(t, a, b)
}
