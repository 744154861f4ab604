package service

import (
	"sort"
	"strings"
)

// ResourceDef returns the resource definition with the given name, ignoring
// case, or nil.
func (d *ServiceDef) ResourceDef(name string) *ResourceDef {
	if d == nil {
		return nil
	}

	for i := range d.Resources {
		if strings.EqualFold(d.Resources[i].Name, name) {
			return &d.Resources[i]
		}
	}

	return nil
}

// LeafResourceDef returns the deepest resource definition that has values
// in the given resource, or nil when none of them match.
func (d *ServiceDef) LeafResourceDef(resource map[string]PolicyResource) *ResourceDef {
	var leaf *ResourceDef

	for name, res := range resource {
		if res.IsEmpty() {
			continue
		}

		def := d.ResourceDef(name)
		if def == nil {
			continue
		}

		if leaf == nil || def.Level > leaf.Level {
			leaf = def
		}
	}

	return leaf
}

// IsAncestorOf reports whether ancestor is found walking up the parent chain
// of descendant.
func (d *ServiceDef) IsAncestorOf(ancestor, descendant *ResourceDef) bool {
	if ancestor == nil || descendant == nil {
		return false
	}

	seen := map[string]bool{}

	for parent := d.ResourceDef(descendant.Parent); parent != nil; parent = d.ResourceDef(parent.Parent) {
		if strings.EqualFold(parent.Name, ancestor.Name) {
			return true
		}

		if seen[parent.Name] {
			return false
		}

		seen[parent.Name] = true
	}

	return false
}

// OrderedResourceTypes returns the resource types of resource ordered by
// their level in the service definition. Types unknown to the definition
// come last, in name order.
func (d *ServiceDef) OrderedResourceTypes(resource map[string]PolicyResource) []string {
	types := make([]string, 0, len(resource))
	for name := range resource {
		types = append(types, name)
	}

	sort.SliceStable(types, func(i, j int) bool {
		di, dj := d.ResourceDef(types[i]), d.ResourceDef(types[j])

		switch {
		case di != nil && dj != nil && di.Level != dj.Level:
			return di.Level < dj.Level
		case di != nil && dj == nil:
			return true
		case di == nil && dj != nil:
			return false
		}

		return types[i] < types[j]
	})

	return types
}

// HasAccessType reports whether the service definition declares the access
// type.
func (d *ServiceDef) HasAccessType(name string) bool {
	if d == nil {
		return false
	}

	for _, at := range d.AccessTypes {
		if strings.EqualFold(at.Name, name) {
			return true
		}
	}

	return false
}

// IsEmpty is true when the resource carries no non-blank value.
func (r PolicyResource) IsEmpty() bool {
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}

	return true
}
