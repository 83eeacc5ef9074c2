package extract

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	legalSuffixes = regexp.MustCompile(`\b(inc|llc|ltd|corp|co|company|corporation|incorporated)\b\.?`)
	punctuation   = regexp.MustCompile(`[^\w\s]`)
	nonDigits     = regexp.MustCompile(`[^\d]`)
)

// BusinessHash derives the stable identity digest used for deduplication.
// Name, phone and address are normalized independently and joined in a
// weighted order: name anchors the identity when present, then phone, then
// address. All-empty input gets a random digest so unidentifiable records
// never collide with each other.
func BusinessHash(name, address, phone string) string {
	if name == "" && address == "" && phone == "" {
		var buf [8]byte
		_, _ = rand.Read(buf[:])
		sum := sha256.Sum256([]byte("empty_business_" + hex.EncodeToString(buf[:])))
		return hex.EncodeToString(sum[:])
	}

	nameNorm := strings.ToLower(CleanField(name))
	nameNorm = legalSuffixes.ReplaceAllString(nameNorm, "")
	nameNorm = strings.TrimSpace(punctuation.ReplaceAllString(nameNorm, ""))

	addrNorm := ""
	if address != "" {
		parts := strings.Split(strings.ToLower(CleanField(address)), ",")
		street := strings.TrimSpace(punctuation.ReplaceAllString(strings.TrimSpace(parts[0]), ""))
		addrNorm = street
		if len(parts) > 1 {
			city := punctuation.ReplaceAllString(strings.TrimSpace(parts[1]), "")
			addrNorm = addrNorm + "_" + city
		}
	}

	phoneNorm := ""
	if phone != "" {
		phoneNorm = nonDigits.ReplaceAllString(CleanField(phone), "")
		// country and area codes are shared; the last 7 digits discriminate
		if len(phoneNorm) >= 7 {
			phoneNorm = phoneNorm[len(phoneNorm)-7:]
		}
	}

	var components []string
	switch {
	case nameNorm != "":
		components = append(components, "name:"+nameNorm)
		if phoneNorm != "" {
			components = append(components, "phone:"+phoneNorm)
		}
		if addrNorm != "" {
			components = append(components, "addr:"+addrNorm)
		}
	case phoneNorm != "":
		components = append(components, "phone:"+phoneNorm)
		if addrNorm != "" {
			components = append(components, "addr:"+addrNorm)
		}
	default:
		components = append(components, "addr:"+addrNorm)
	}

	sum := sha256.Sum256([]byte(strings.Join(components, "|")))
	return hex.EncodeToString(sum[:])
}
