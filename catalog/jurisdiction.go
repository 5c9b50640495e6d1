package catalog

import (
	"strings"

	"github.com/g3lasio/owlfenc/model"
)

var stateCodes = map[string]string{
	"ALABAMA": "AL", "ALASKA": "AK", "ARIZONA": "AZ", "ARKANSAS": "AR",
	"CALIFORNIA": "CA", "COLORADO": "CO", "CONNECTICUT": "CT", "DELAWARE": "DE",
	"DISTRICT OF COLUMBIA": "DC", "FLORIDA": "FL", "GEORGIA": "GA", "HAWAII": "HI",
	"IDAHO": "ID", "ILLINOIS": "IL", "INDIANA": "IN", "IOWA": "IA",
	"KANSAS": "KS", "KENTUCKY": "KY", "LOUISIANA": "LA", "MAINE": "ME",
	"MARYLAND": "MD", "MASSACHUSETTS": "MA", "MICHIGAN": "MI", "MINNESOTA": "MN",
	"MISSISSIPPI": "MS", "MISSOURI": "MO", "MONTANA": "MT", "NEBRASKA": "NE",
	"NEVADA": "NV", "NEW HAMPSHIRE": "NH", "NEW JERSEY": "NJ", "NEW MEXICO": "NM",
	"NEW YORK": "NY", "NORTH CAROLINA": "NC", "NORTH DAKOTA": "ND", "OHIO": "OH",
	"OKLAHOMA": "OK", "OREGON": "OR", "PENNSYLVANIA": "PA", "RHODE ISLAND": "RI",
	"SOUTH CAROLINA": "SC", "SOUTH DAKOTA": "SD", "TENNESSEE": "TN", "TEXAS": "TX",
	"UTAH": "UT", "VERMONT": "VT", "VIRGINIA": "VA", "WASHINGTON": "WA",
	"WEST VIRGINIA": "WV", "WISCONSIN": "WI", "WYOMING": "WY",
}

// NormalizeJurisdiction maps state names and codes to the upper-case code,
// and "any"/"default"/"" to the any-jurisdiction key. Other regions pass
// through upper-cased.
func NormalizeJurisdiction(s string) string {
	key := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	switch key {
	case "", "*", "ANY", "DEFAULT":
		return model.AnyJurisdiction
	}
	if code, ok := stateCodes[key]; ok {
		return code
	}
	return key
}

// NormalizeProjectType lower-cases a project tag and joins words with dashes.
func NormalizeProjectType(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}
