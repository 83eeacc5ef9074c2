package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanField_StripsInvisibleRunes(t *testing.T) {
	assert.Equal(t, "Acme Plumbing", CleanField("Acme\u200b Plumbing\ufeff"))
}

func TestCleanField_DropsDuplicateLines(t *testing.T) {
	in := "123 Main St\n123 Main St\nSpringfield"
	assert.Equal(t, "123 Main St Springfield", CleanField(in))
}

func TestCleanField_FirstOccurrenceWins(t *testing.T) {
	in := "a\nb\na\nc"
	assert.Equal(t, "a b c", CleanField(in))
}

func TestCleanField_EmptyAndWhitespace(t *testing.T) {
	assert.Equal(t, "", CleanField(""))
	assert.Equal(t, "", CleanField("  \n \n\t "))
}

func TestNormalizeURL_AddsScheme(t *testing.T) {
	assert.Equal(t, "https://acme.com", NormalizeURL("acme.com"))
	assert.Equal(t, "http://acme.com", NormalizeURL("http://acme.com"))
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	once := NormalizeURL("acme.com/contact")
	assert.Equal(t, once, NormalizeURL(once))
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://acme.com"))
	assert.True(t, IsValidURL("http://acme.com/about"))
	assert.False(t, IsValidURL("acme.com"))
	assert.False(t, IsValidURL("ftp://acme.com"))
	assert.False(t, IsValidURL(""))
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "acme.com", Domain("https://ACME.com/contact"))
	assert.Equal(t, "acme.com", Domain("acme.com"))
}
