// Package area resolves a (city, state) selection to the county and FIPS
// codes that anchor the per-source joins.
package area

import "strings"

// stateNames maps state abbreviations to the hyphenated full names used in
// city-data.com URLs.
var stateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New-Hampshire", "NJ": "New-Jersey", "NM": "New-Mexico", "NY": "New-York",
	"NC": "North-Carolina", "ND": "North-Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode-Island", "SC": "South-Carolina",
	"SD": "South-Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West-Virginia",
	"WI": "Wisconsin", "WY": "Wyoming", "DC": "District-of-Columbia",
}

// stateFIPS maps state abbreviations to 2-digit FIPS codes.
var stateFIPS = map[string]string{
	"AL": "01", "AK": "02", "AZ": "04", "AR": "05", "CA": "06", "CO": "08",
	"CT": "09", "DE": "10", "FL": "12", "GA": "13", "HI": "15", "ID": "16",
	"IL": "17", "IN": "18", "IA": "19", "KS": "20", "KY": "21", "LA": "22",
	"ME": "23", "MD": "24", "MA": "25", "MI": "26", "MN": "27", "MS": "28",
	"MO": "29", "MT": "30", "NE": "31", "NV": "32", "NH": "33", "NJ": "34",
	"NM": "35", "NY": "36", "NC": "37", "ND": "38", "OH": "39", "OK": "40",
	"OR": "41", "PA": "42", "RI": "44", "SC": "45", "SD": "46", "TN": "47",
	"TX": "48", "UT": "49", "VT": "50", "VA": "51", "WA": "53", "WV": "54",
	"WI": "55", "WY": "56", "DC": "11",
}

// StateName returns the hyphenated full state name for an abbreviation.
func StateName(abbr string) (string, bool) {
	name, ok := stateNames[strings.ToUpper(strings.TrimSpace(abbr))]
	return name, ok
}

// StateFIPS returns the 2-digit FIPS code for a state abbreviation.
func StateFIPS(abbr string) (string, bool) {
	code, ok := stateFIPS[strings.ToUpper(strings.TrimSpace(abbr))]
	return code, ok
}

// NormalizeFIPSState normalizes a state FIPS code to 2 digits with zero-padding.
func NormalizeFIPSState(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	if len(code) == 1 {
		return "0" + code
	}
	return code
}

// NormalizeFIPSCounty normalizes a county FIPS code to 3 digits with zero-padding.
func NormalizeFIPSCounty(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	for len(code) < 3 {
		code = "0" + code
	}
	return code
}

// CombineFIPS combines state and county FIPS codes into a 5-digit code.
func CombineFIPS(state, county string) string {
	s := NormalizeFIPSState(state)
	c := NormalizeFIPSCounty(county)
	if s == "" || c == "" {
		return ""
	}
	return s + c
}

// trimCounty strips the " County" suffix and whitespace from a county name.
func trimCounty(name string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), " County"))
}
