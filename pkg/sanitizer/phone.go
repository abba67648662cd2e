package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	supportedRegions = []string{
		"GB",
		"US",
		"IE",
		"AU",
	}
)

// NormalizePhone converts a mobile number to E.164. Numbers without a country
// code are attempted against each supported region in order. Unparseable
// input normalizes to the empty string.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err == nil {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}
