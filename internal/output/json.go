package output

import (
	"encoding/json"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
)

// JSONFormatter writes the report as the same document the HTTP API returns
type JSONFormatter struct {
	Indent bool
}

func (j JSONFormatter) Name() string {
	if j.Indent {
		return "json"
	}
	return "json-compact"
}

func (j JSONFormatter) Format(report *domain.TaxReport) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if j.Indent {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
