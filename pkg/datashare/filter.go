package datashare

import (
	"slices"
	"strings"

	"github.com/navikt/gds-console/pkg/service"
)

// SearchOption describes a category of the structured search bar and the
// query parameter it is sent as. A select category only accepts one of its
// Values.
type SearchOption struct {
	Category string   `json:"category"`
	Label    string   `json:"label"`
	URLLabel string   `json:"urlLabel"`
	Type     string   `json:"type"`
	Values   []string `json:"values,omitempty"`
}

// Accepts reports whether value is allowed for the category.
func (o SearchOption) Accepts(value string) bool {
	return len(o.Values) == 0 || slices.Contains(o.Values, value)
}

var ResourceSearchOptions = []SearchOption{
	{
		Category: "resourceContains",
		Label:    "Resource",
		URLLabel: "resourceContains",
		Type:     "text",
	},
}

var RequestSearchOptions = []SearchOption{
	{
		Category: "datasetName",
		Label:    "Dataset",
		URLLabel: "datasetNamePartial",
		Type:     "text",
	},
	{
		Category: "status",
		Label:    "Status",
		URLLabel: "shareStatus",
		Type:     "select",
		Values: []string{
			string(service.DataShareDatasetStatusNone),
			string(service.DataShareDatasetStatusRequested),
			string(service.DataShareDatasetStatusGranted),
			string(service.DataShareDatasetStatusDenied),
			string(service.DataShareDatasetStatusActive),
		},
	},
}

// ParseSearchFilter maps search tokens to query parameters. Tokens with an
// unknown category or a blank value are dropped; a repeated category keeps
// the last value.
func ParseSearchFilter(tokens []service.SearchToken, options []SearchOption) map[string]string {
	params := map[string]string{}

	for _, token := range tokens {
		value := strings.TrimSpace(token.Value)
		if value == "" {
			continue
		}

		for _, opt := range options {
			if opt.Category == token.Category {
				params[opt.URLLabel] = value
				break
			}
		}
	}

	return params
}
