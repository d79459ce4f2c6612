package models

// Format is a named deck-construction ruleset.
type Format string

const (
	FormatStandard  Format = "standard"
	FormatModern    Format = "modern"
	FormatCommander Format = "commander"
)

// FormatRule describes the construction rules for one format.
// MaxCards and MaxCopiesBasicLand of 0 mean "no limit".
type FormatRule struct {
	MinCards           int  `json:"min_cards"`
	MaxCards           int  `json:"max_cards"`
	MaxCopies          int  `json:"max_copies"`
	MaxCopiesBasicLand int  `json:"max_copies_basic_land"`
	RequiresCommander  bool `json:"requires_commander"`
}

// FormatRules is the static rule table. Validation rejects any format
// not present here before running further checks.
var FormatRules = map[Format]FormatRule{
	FormatStandard: {
		MinCards:  60,
		MaxCopies: 4,
	},
	FormatModern: {
		MinCards:  60,
		MaxCopies: 4,
	},
	FormatCommander: {
		MinCards:          100,
		MaxCards:          100,
		MaxCopies:         1,
		RequiresCommander: true,
	},
}

// IsValidFormat reports whether the given string names a known format.
func IsValidFormat(format string) bool {
	_, ok := FormatRules[Format(format)]
	return ok
}
