package view

import (
	"strings"

	"github.com/couchcryptid/covid-county-map/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// labelFunc renders a county's display name.
type labelFunc func(r *domain.CountyRecord) string

// newLabeler title-cases county names ("DE KALB" -> "De Kalb") and appends
// the state, so that same-named counties stay distinct bar categories. The
// returned func is not safe for concurrent use.
func newLabeler() labelFunc {
	caser := cases.Title(language.English)
	return func(r *domain.CountyRecord) string {
		county := caser.String(strings.TrimSpace(r.County))
		state := strings.TrimSpace(r.State)
		switch {
		case county == "":
			return r.FIPS
		case state == "":
			return county
		default:
			return county + ", " + state
		}
	}
}
