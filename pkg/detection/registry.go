package detection

import "slices"

// CountryUniversal is the reserved country tag for detectors that are
// not bound to a single jurisdiction.
const CountryUniversal = "universal"

// Detector is the contract every PII detector implements. Detectors
// are immutable after construction and safe for concurrent use; they
// carry no per-scan state.
type Detector interface {
	// ID returns the stable identifier, e.g. "nl_bsn".
	ID() string
	// Name returns the human-readable name.
	Name() string
	// Country returns the ISO 3166-1 alpha-2 code (lower case) or
	// CountryUniversal.
	Country() string
	// BaseSeverity returns the severity assigned to matches before any
	// context upgrade.
	BaseSeverity() Severity
	// Description explains what the detector looks for; may be empty.
	Description() string
	// Detect scans text and returns all matches with locations filled
	// in. Lines are 1-indexed, columns 0-indexed, byte offsets measured
	// from the start of text.
	Detect(text, filePath string) []Match
	// Validate checks a single candidate value against the detector's
	// validation rules, independent of any scan.
	Validate(value string) bool
}

// Registry is an ordered, immutable-after-construction collection of
// detectors shared read-only across all scan workers.
type Registry struct {
	detectors []Detector
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a detector. Registration order is preserved and
// determines detection order within a file.
func (r *Registry) Register(d Detector) {
	r.detectors = append(r.detectors, d)
}

// All returns the registered detectors in registration order.
func (r *Registry) All() []Detector {
	return r.detectors
}

// Get returns the detector with the given id, or nil.
func (r *Registry) Get(id string) Detector {
	for _, d := range r.detectors {
		if d.ID() == id {
			return d
		}
	}
	return nil
}

// ForCountry returns the detectors for one country; universal
// detectors are always included.
func (r *Registry) ForCountry(country string) []Detector {
	return r.ForCountries([]string{country})
}

// ForCountries returns the detectors matching any of the given country
// codes; universal detectors are always included.
func (r *Registry) ForCountries(countries []string) []Detector {
	var out []Detector
	for _, d := range r.detectors {
		if d.Country() == CountryUniversal || slices.Contains(countries, d.Country()) {
			out = append(out, d)
		}
	}
	return out
}

// Countries returns the sorted unique set of non-universal country
// codes covered by the registry.
func (r *Registry) Countries() []string {
	var countries []string
	for _, d := range r.detectors {
		if c := d.Country(); c != CountryUniversal && !slices.Contains(countries, c) {
			countries = append(countries, c)
		}
	}
	slices.Sort(countries)
	return countries
}

// CountForCountries returns how many detectors would be active for the
// given country filter.
func (r *Registry) CountForCountries(countries []string) int {
	return len(r.ForCountries(countries))
}

// DefaultRegistry constructs one instance of every built-in detector
// in a fixed, deterministic order.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(NewRRNDetector())
	r.Register(NewNIRDetector())
	r.Register(NewSteuerIDDetector())
	r.Register(NewCodiceFiscaleDetector())
	r.Register(NewBSNDetector())
	r.Register(NewDNIDetector())
	r.Register(NewNIEDetector())
	r.Register(NewNHSDetector())
	r.Register(NewCPRDetector())
	r.Register(NewHetuDetector())
	r.Register(NewPersonnummerDetector())
	r.Register(NewFodselsnummerDetector())
	r.Register(NewPESELDetector())
	r.Register(NewNIFDetector())
	r.Register(NewIBANDetector())
	r.Register(NewCreditCardDetector())
	r.Register(NewEmailDetector())
	r.Register(NewAPIKeyDetector())

	return r
}

// RegistryForCountries constructs a registry restricted to the given
// countries plus the universal detectors. An empty filter yields the
// full default registry.
func RegistryForCountries(countries []string) *Registry {
	if len(countries) == 0 {
		return DefaultRegistry()
	}

	full := DefaultRegistry()
	r := NewRegistry()
	for _, d := range full.All() {
		if d.Country() == CountryUniversal || slices.Contains(countries, d.Country()) {
			r.Register(d)
		}
	}
	return r
}
