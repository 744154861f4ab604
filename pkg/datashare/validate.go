package datashare

import (
	"fmt"
	"strings"

	"github.com/navikt/gds-console/pkg/service"
)

// ValidateResource checks a shared resource against the service definition.
// Without a definition only the presence of a name and a value is checked.
func ValidateResource(def *service.ServiceDef, r *service.SharedResource) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("shared resource name is required")
	}

	hasValue := false

	for _, res := range r.Resource {
		if !res.IsEmpty() {
			hasValue = true
			break
		}
	}

	if !hasValue {
		return fmt.Errorf("at least one resource value is required")
	}

	if def == nil || len(def.Resources) == 0 {
		return nil
	}

	for _, name := range def.OrderedResourceTypes(r.Resource) {
		if def.ResourceDef(name) == nil {
			return fmt.Errorf("unknown resource type %q for service type %s", name, def.Name)
		}
	}

	leaf := def.LeafResourceDef(r.Resource)

	for i := range def.Resources {
		rd := &def.Resources[i]
		if !rd.Mandatory || !def.IsAncestorOf(rd, leaf) {
			continue
		}

		if r.Resource[rd.Name].IsEmpty() {
			return fmt.Errorf("resource %q is required", rd.Name)
		}
	}

	if len(def.AccessTypes) == 0 {
		return nil
	}

	for _, at := range r.AccessTypes {
		if !def.HasAccessType(at) {
			return fmt.Errorf("unknown access type %q for service type %s", at, def.Name)
		}
	}

	return nil
}
