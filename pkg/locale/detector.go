package locale

import "strings"

// InferTimezoneFromPhone guesses a venue's IANA timezone from the dialling
// prefix of its phone number. Numbers outside the supported markets fall
// back to DefaultTimezone so the diary always has a clock to render against.
func InferTimezoneFromPhone(phone string) string {
	if country := matchCountry(phone); country != nil {
		return country.DefaultTimezone
	}
	return DefaultTimezone
}

// InferCountryFromPhone resolves the operating market a phone number dials
// into, or nil when the prefix is not one the platform serves.
func InferCountryFromPhone(phone string) *Country {
	return matchCountry(phone)
}

func matchCountry(phone string) *Country {
	number := stripFormatting(phone)
	if number == "" {
		return nil
	}

	for _, country := range Countries {
		for _, prefix := range country.PhonePrefixes {
			if strings.HasPrefix(number, prefix) {
				matched := country
				return &matched
			}
		}
	}
	return nil
}

// stripFormatting drops the separators people type into phone fields and
// rewrites the 00 international prefix to +, leaving only the characters
// that carry the dialling prefix.
func stripFormatting(phone string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		switch r {
		case ' ', '-', '(', ')', '.':
			continue
		}
		b.WriteRune(r)
	}

	number := b.String()
	if strings.HasPrefix(number, "00") {
		number = "+" + number[2:]
	}
	return number
}
