package envelope

// Format is the output format selector (spec.md §6 "output format selector").
type Format string

const (
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatToon   Format = "toon"
	FormatText   Format = "text"
)

// ParseFormat parses a --output flag value, defaulting to json.
func ParseFormat(s string) Format {
	switch Format(s) {
	case FormatNDJSON, FormatToon, FormatText, FormatJSON:
		return Format(s)
	default:
		return FormatJSON
	}
}
