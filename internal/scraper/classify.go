package scraper

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fallbackPlaceType is returned when no table entry matches.
const fallbackPlaceType = "establishment"

// placeTypeTable maps business-type phrase fragments to canonical Google
// Places types. Order matters: the first matching fragment wins, so more
// specific fragments must precede more general ones.
var placeTypeTable = []struct {
	fragment  string
	placeType string
}{
	{"hastane", "hospital"},
	{"şehir hastanesi", "hospital"},
	{"devlet hastanesi", "hospital"},
	{"özel hastane", "hospital"},
	{"klinik", "hospital"},
	{"sağlık merkezi", "hospital"},
	{"eczane", "pharmacy"},
	{"restoran", "restaurant"},
	{"lokanta", "restaurant"},
	{"cafe", "cafe"},
	{"kahve", "cafe"},
	{"süpermarket", "supermarket"},
	{"market", "supermarket"},
	{"bakkal", "grocery_or_supermarket"},
	{"berber", "hair_care"},
	{"kuaför", "hair_care"},
	{"güzellik merkezi", "beauty_salon"},
	{"güzellik salonu", "beauty_salon"},
	{"otel", "lodging"},
	{"pansiyon", "lodging"},
	{"benzin istasyonu", "gas_station"},
	{"petrol", "gas_station"},
	{"banka", "bank"},
	{"atm", "atm"},
	{"okul", "school"},
	{"lise", "school"},
	{"ilkokul", "school"},
	{"üniversite", "university"},
	{"spor salonu", "gym"},
	{"fitness", "gym"},
}

// foldCase lowercases s with Turkish casing rules so that dotted and dotless
// I fold correctly (İstanbul → istanbul, ILICA → ılıca).
func foldCase(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// ClassifyPlaceType maps a free-text business-type phrase to a canonical
// Places type via first-match substring lookup. Unknown phrases fall back to
// the generic establishment type. The function is pure and always returns a
// value.
func ClassifyPlaceType(businessType string) string {
	folded := foldCase(businessType)
	for _, entry := range placeTypeTable {
		if strings.Contains(folded, entry.fragment) {
			return entry.placeType
		}
	}
	return fallbackPlaceType
}
