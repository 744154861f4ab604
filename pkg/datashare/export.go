package datashare

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/goccy/go-json"
	"github.com/gosimple/slug"
	"github.com/navikt/gds-console/pkg/errs"
	"github.com/navikt/gds-console/pkg/service"
)

const exportContentType = "application/json"

// Export returns the datashare together with its complete resource and
// request lists as a JSON file. The displayed pages are left alone.
func (v *View) Export(ctx context.Context) (*service.ExportFile, error) {
	const op errs.Op = "datashare.View.Export"

	v.mu.Lock()
	if v.dataShare == nil {
		v.mu.Unlock()
		return nil, errs.E(op, errs.InvalidRequest, errs.Str("datashare is not loaded"))
	}

	ds := *v.dataShare
	v.mu.Unlock()

	resources, err := v.resources.Fetch(ctx, nil, 0, true)
	if err != nil {
		return nil, errs.E(op, err)
	}

	datasets, err := v.requests.Fetch(ctx, nil, 0, true)
	if err != nil {
		return nil, errs.E(op, err)
	}

	data, err := json.Marshal(service.DataShareExport{
		DataShare: &ds,
		Resources: resources,
		Datasets:  datasets,
	})
	if err != nil {
		return nil, errs.E(op, errs.Internal, err)
	}

	return &service.ExportFile{
		FileName:    ExportFileName(ds.Name, ds.ID),
		ContentType: exportContentType,
		Data:        data,
	}, nil
}

// ExportFileName is the datashare name with a .json suffix, falling back to
// a slug of the name when it cannot be used as a file name.
func ExportFileName(name string, id int64) string {
	if fileNameSafe(name) {
		return name + ".json"
	}

	if s := slug.Make(name); s != "" {
		return s + ".json"
	}

	return fmt.Sprintf("datashare-%d.json", id)
}

func fileNameSafe(name string) bool {
	if strings.TrimSpace(name) != name || name == "" || name == "." || name == ".." || len(name) > 200 {
		return false
	}

	for _, r := range name {
		if unicode.IsControl(r) || strings.ContainsRune(`/\:*?"<>|`, r) {
			return false
		}
	}

	return true
}
