// Package language maps Indian states and union territories to the spoken
// language used for voice messages.
package language

// Code is a spoken-language locale tag understood by the speech provider.
type Code string

// Supported language codes.
const (
	English   Code = "en-IN"
	Telugu    Code = "te-IN"
	Hindi     Code = "hi-IN"
	Tamil     Code = "ta-IN"
	Kannada   Code = "kn-IN"
	Malayalam Code = "ml-IN"
	Marathi   Code = "mr-IN"
	Gujarati  Code = "gu-IN"
	Bengali   Code = "bn-IN"
	Punjabi   Code = "pa-IN"
	Odia      Code = "od-IN"
)

// DefaultCode is the fallback when a region has no mapping.
const DefaultCode = English

// stateLanguages maps administrative-region names from Shopify shipping
// addresses to language codes. The table is closed; anything not listed
// falls back to the resolver default.
var stateLanguages = map[string]Code{
	// Telugu states
	"Telangana":      Telugu,
	"Andhra Pradesh": Telugu,

	// Hindi belt
	"Uttar Pradesh":    Hindi,
	"Madhya Pradesh":   Hindi,
	"Bihar":            Hindi,
	"Rajasthan":        Hindi,
	"Jharkhand":        Hindi,
	"Chhattisgarh":     Hindi,
	"Uttarakhand":      Hindi,
	"Haryana":          Hindi,
	"Himachal Pradesh": Hindi,
	"Delhi":            Hindi,

	"Tamil Nadu":  Tamil,
	"Karnataka":   Kannada,
	"Kerala":      Malayalam,
	"Maharashtra": Marathi,
	"Gujarat":     Gujarati,
	"West Bengal": Bengali,
	"Punjab":      Punjabi,
	"Odisha":      Odia,

	// Assamese is not offered by the speech provider; Hindi fallback
	"Assam": Hindi,

	// North East (English fallback)
	"Arunachal Pradesh": English,
	"Manipur":           English,
	"Meghalaya":         English,
	"Mizoram":           English,
	"Nagaland":          English,
	"Sikkim":            English,
	"Tripura":           English,

	// Union Territories
	"Goa":               English,
	"Jammu and Kashmir": Hindi,
	"Ladakh":            Hindi,
	"Chandigarh":        Hindi,
	"Puducherry":        Tamil,

	"Andaman and Nicobar Islands":              English,
	"Dadra and Nagar Haveli and Daman and Diu": Gujarati,
	"Lakshadweep":                              Malayalam,
}

// Resolver resolves region strings to language codes with a configurable fallback.
type Resolver struct {
	fallback Code
}

// NewResolver creates a Resolver. An unsupported fallback is replaced with
// DefaultCode so the resolver can never return an unmapped code.
func NewResolver(fallback Code) *Resolver {
	if !IsSupported(fallback) {
		fallback = DefaultCode
	}
	return &Resolver{fallback: fallback}
}

// DetectFromState returns the language code for the given state name, or the
// resolver fallback when the state is empty or unmapped.
func (r *Resolver) DetectFromState(state string) Code {
	if state == "" {
		return r.fallback
	}
	if code, ok := stateLanguages[state]; ok {
		return code
	}
	return r.fallback
}

// Fallback returns the resolver's fallback language code.
func (r *Resolver) Fallback() Code {
	return r.fallback
}

// IsSupported reports whether code appears in the state table's value set.
func IsSupported(code Code) bool {
	for _, c := range stateLanguages {
		if c == code {
			return true
		}
	}
	return false
}

// Supported returns the deduplicated set of language codes covered by the table.
func Supported() []Code {
	seen := make(map[Code]struct{}, len(stateLanguages))
	var codes []Code
	for _, c := range stateLanguages {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		codes = append(codes, c)
	}
	return codes
}
