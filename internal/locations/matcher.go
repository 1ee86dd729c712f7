package locations

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyQuery is returned when the location input is empty or whitespace.
var ErrEmptyQuery = errors.New("locations: empty location query")

// postalResultCap bounds postal-code results; a voice caller only ever hears
// the nearest few.
const postalResultCap = 3

// cityKeywordTable maps a normalized spoken city name to the keywords searched
// against clinic names and addresses. Neighbouring areas are folded into the
// city a caller is likely to name.
var cityKeywordTable = []struct {
	city     string
	keywords []string
}{
	{"NORTHYORK", []string{"north york"}},
	{"TORONTO", []string{"toronto", "north york"}},
	{"WOODBRIDGE", []string{"woodbridge"}},
	{"CONCORD", []string{"concord"}},
	{"VAUGHAN", []string{"vaughan", "woodbridge", "concord"}},
	{"RICHMONDHILL", []string{"richmond hill"}},
	{"BRAMPTON", []string{"brampton"}},
	{"HALTONHILLS", []string{"halton hills"}},
	{"GEORGETOWN", []string{"georgetown", "halton hills"}},
	{"PICKERING", []string{"pickering"}},
	{"HAMILTON", []string{"hamilton"}},
	{"NEWMARKET", []string{"newmarket", "east gwillimbury"}},
}

// Match answers a free-form location query (postal code or city name) with up
// to three nearby clinics on the postal path, or every matching clinic on the
// city path. It is a pure function over the supplied directory snapshot; the
// only error is an empty query.
func Match(input string, directory []ClinicLocation) (MatchResult, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return MatchResult{}, ErrEmptyQuery
	}

	normalized := normalizeCode(raw)
	if keywords, ok := cityKeywords(normalized); ok {
		if result, found := matchCity(raw, normalized, keywords, directory); found {
			return result, nil
		}
		// Unknown to the directory; fall through to the postal fallback so the
		// caller still hears nearby options.
		result := matchPostal(raw, normalized, directory)
		result.Query.Kind = KindCityName
		return result, nil
	}

	return matchPostal(raw, normalized, directory), nil
}

func cityKeywords(normalized string) ([]string, bool) {
	for _, entry := range cityKeywordTable {
		if strings.Contains(normalized, entry.city) {
			return entry.keywords, true
		}
	}
	return nil, false
}

func matchCity(raw, normalized string, keywords []string, directory []ClinicLocation) (MatchResult, bool) {
	var matched []ClinicLocation
	for _, loc := range directory {
		haystack := strings.ToLower(loc.Name + " " + loc.Address)
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				matched = append(matched, loc)
				break
			}
		}
	}
	if len(matched) == 0 {
		return MatchResult{}, false
	}

	return MatchResult{
		Query:          LocationQuery{Raw: raw, Kind: KindCityName, Normalized: normalized},
		Locations:      matched,
		MatchedExactly: true,
		Summary: fmt.Sprintf("Found %d clinic location(s) in %s:\n\n%s",
			len(matched), raw, formatLocationList(matched)),
	}, true
}

func matchPostal(raw, normalized string, directory []ClinicLocation) MatchResult {
	prefix := normalized
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	exactIdx := -1
	for i, loc := range directory {
		if postalMatches(normalizeCode(loc.PostalCode), normalized, prefix) {
			exactIdx = i
			break
		}
	}

	var picked []ClinicLocation
	if exactIdx >= 0 {
		picked = append(picked, directory[exactIdx])
		for i, loc := range directory {
			if len(picked) >= postalResultCap {
				break
			}
			if i == exactIdx {
				continue
			}
			picked = append(picked, loc)
		}
	} else {
		n := len(directory)
		if n > postalResultCap {
			n = postalResultCap
		}
		picked = append(picked, directory[:n]...)
	}

	result := MatchResult{
		Query:          LocationQuery{Raw: raw, Kind: KindPostalCode, Normalized: normalized},
		Locations:      picked,
		MatchedExactly: exactIdx >= 0,
	}
	switch {
	case len(picked) == 0:
		result.Summary = fmt.Sprintf("No clinic locations found near %s. Please call our main office for assistance.", raw)
	case result.MatchedExactly:
		result.Summary = fmt.Sprintf("Found %d clinic location(s) near postal code %s:\n\n%s",
			len(picked), raw, formatLocationList(picked))
	default:
		result.Summary = fmt.Sprintf("No clinic matched postal code %s exactly. Here are our nearest locations:\n\n%s",
			raw, formatLocationList(picked))
	}
	return result
}

// postalMatches reports whether a clinic's postal code answers the query.
// Predicates in order: full equality, shared forward-sortation prefix, the
// clinic's code extending the query, and the query extending the clinic's
// code (compared over the shorter of the two).
func postalMatches(locPostal, query, queryPrefix string) bool {
	if locPostal == "" {
		return false
	}
	if locPostal == query {
		return true
	}
	if len(locPostal) >= 3 && len(queryPrefix) == 3 && locPostal[:3] == queryPrefix {
		return true
	}
	if strings.HasPrefix(locPostal, query) {
		return true
	}
	n := len(locPostal)
	if len(query) < n {
		n = len(query)
	}
	return strings.HasPrefix(query, locPostal[:n])
}

// DirectorySummary renders the complete clinic list for "what are your
// locations" style questions.
func DirectorySummary(directory []ClinicLocation) string {
	if len(directory) == 0 {
		return "I'm having trouble accessing our location information right now. Please call our main office for current locations."
	}
	return fmt.Sprintf("We have %d MedRehab Group locations:\n\n%s",
		len(directory), formatLocationList(directory))
}

func formatLocationList(locs []ClinicLocation) string {
	parts := make([]string, 0, len(locs))
	for _, loc := range locs {
		parts = append(parts, FormatLocation(loc))
	}
	return strings.Join(parts, "\n\n")
}
