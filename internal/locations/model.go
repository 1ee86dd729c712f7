package locations

import "strings"

// ClinicLocation is a single clinic in the directory. Records are immutable
// once loaded; identity is the ID.
type ClinicLocation struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	City       string   `json:"city"`
	PostalCode string   `json:"postal_code"`
	Phone      string   `json:"phone"`
	Services   []string `json:"services"`
}

// QueryKind classifies a location query after normalization.
type QueryKind string

const (
	KindPostalCode QueryKind = "postal_code"
	KindCityName   QueryKind = "city_name"
)

// LocationQuery is the normalized form of a free-form location input.
type LocationQuery struct {
	Raw        string
	Kind       QueryKind
	Normalized string
}

// MatchResult is an ordered set of clinics answering a location query.
// When MatchedExactly is true the first entry is the exact match.
type MatchResult struct {
	Query          LocationQuery
	Locations      []ClinicLocation
	MatchedExactly bool
	Summary        string
}

// normalizeCode strips all whitespace and uppercases, the shape voice
// transcriptions arrive in ("l1v 1b5" -> "L1V1B5").
func normalizeCode(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// FormatLocation renders one clinic the way the voice assistant reads it out.
func FormatLocation(loc ClinicLocation) string {
	var b strings.Builder
	b.WriteString(loc.Name)
	b.WriteString(" - ")
	if loc.Address != "" {
		b.WriteString(loc.Address)
	} else {
		b.WriteString("Address not available")
	}
	b.WriteString(". Phone: ")
	if loc.Phone != "" {
		b.WriteString(loc.Phone)
	} else {
		b.WriteString("Phone not available")
	}
	b.WriteString(". Services: ")
	b.WriteString(formatServices(loc.Services))
	b.WriteString(".")
	return b.String()
}

func formatServices(services []string) string {
	switch len(services) {
	case 0:
		return "please call for details"
	case 1:
		return services[0]
	case 2:
		return services[0] + " and " + services[1]
	default:
		return strings.Join(services[:len(services)-1], ", ") + ", and " + services[len(services)-1]
	}
}
