package output

import (
	"strings"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCase = cases.Title(language.English)

// RegimeName renders a regime for display, e.g. "Old Regime"
func RegimeName(r domain.Regime) string {
	return titleCase.String(strings.ReplaceAll(string(r), "_", " "))
}
