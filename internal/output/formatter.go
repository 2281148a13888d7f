package output

import (
	"sort"
	"strings"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
)

// Formatter renders a tax report in one output format
type Formatter interface {
	Name() string
	Format(report *domain.TaxReport) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(report *domain.TaxReport) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *domain.TaxReport) ([]byte, error) { return f.F(report) }

var formatters = map[string]Formatter{
	"console":      ConsoleFormatter{},
	"json":         JSONFormatter{Indent: true},
	"json-compact": JSONFormatter{},
	"csv":          CSVReport{},
	"html":         HTMLFormatter{},
}

var formatAliases = map[string]string{
	"text":    "console",
	"table":   "console",
	"report":  "csv",
	"compact": "json-compact",
}

// GetFormatterByName returns the formatter for a name or alias, or nil if none matches
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists registered formatter names in sorted order
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases in sorted order
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for alias := range formatAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}
