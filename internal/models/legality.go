package models

// LegalityLegal is the only status that counts as playable. Scryfall
// also reports "not_legal", "banned", and "restricted".
const LegalityLegal = "legal"

// CardLegality maps a format name to the legality status the card
// service reported for it. Formats the source does not know about are
// simply absent.
type CardLegality map[string]string

// Status returns the legality status for a format, or "" when the
// source did not report one.
func (l CardLegality) Status(format Format) string {
	return l[string(format)]
}
