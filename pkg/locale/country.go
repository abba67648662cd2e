package locale

const (
	DefaultTimezone = "Europe/London"
)

type Country struct {
	Code            string   // ISO 3166-1 alpha-2 country code
	Name            string   // Human-readable country name
	PhonePrefixes   []string // Dialling prefixes, with and without the plus
	DefaultTimezone string   // IANA timezone identifier
}

// Countries lists the markets the platform operates in. Venue timezones
// default from these when a location is created without an explicit one.
var Countries = map[string]Country{
	"GB": {
		Code:            "GB",
		Name:            "United Kingdom",
		PhonePrefixes:   []string{"+44", "44"},
		DefaultTimezone: "Europe/London",
	},
	"IE": {
		Code:            "IE",
		Name:            "Ireland",
		PhonePrefixes:   []string{"+353", "353"},
		DefaultTimezone: "Europe/Dublin",
	},
	"US": {
		Code:            "US",
		Name:            "United States",
		PhonePrefixes:   []string{"+1", "1"},
		DefaultTimezone: "America/New_York",
	},
	"AU": {
		Code:            "AU",
		Name:            "Australia",
		PhonePrefixes:   []string{"+61", "61"},
		DefaultTimezone: "Australia/Sydney",
	},
}
