package extraction

import "strings"

// Registry maps file extensions to shared extractor instances. Lookup
// is case-insensitive. Registries are immutable once handed to the
// scan engine.
type Registry struct {
	extractors map[string]Extractor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[string]Extractor)}
}

// DefaultRegistry returns a registry with the built-in PDF, DOCX and
// Excel extractors.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewPDFExtractor())
	r.Register(NewDocxExtractor())
	r.Register(NewXlsxExtractor())
	return r
}

// Register associates an extractor with each of its supported
// extensions, overwriting earlier registrations for the same
// extension.
func (r *Registry) Register(e Extractor) {
	for _, ext := range e.SupportedExtensions() {
		r.extractors[strings.ToLower(ext)] = e
	}
}

// ByExtension returns the extractor for an extension (without the
// leading dot), or nil.
func (r *Registry) ByExtension(extension string) Extractor {
	return r.extractors[strings.ToLower(extension)]
}

// Supports reports whether an extension has a registered extractor.
func (r *Registry) Supports(extension string) bool {
	return r.ByExtension(extension) != nil
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.extractors))
	for ext := range r.extractors {
		out = append(out, ext)
	}
	return out
}

// Count returns the number of distinct extractor instances.
func (r *Registry) Count() int {
	seen := make(map[Extractor]bool)
	for _, e := range r.extractors {
		seen[e] = true
	}
	return len(seen)
}
