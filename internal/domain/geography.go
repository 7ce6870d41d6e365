package domain

// Geography resolves county boundary polygons by FIPS. Implementations are
// loaded once and treated as immutable.
type Geography interface {
	// Has reports whether a boundary polygon exists for the FIPS key.
	Has(fips string) bool
}
