package settings

import (
	"sort"

	"github.com/pkg/errors"
)

// Registry holds the static setting definitions of one scope kind. It is
// built once at startup, read-only afterwards, and handed to the engine as a
// constructed value so tests can substitute fixtures.
type Registry struct {
	scope      Scope
	defs       map[string]map[string]Definition
	fields     map[string]Definition
	categories []string
}

// NewRegistry builds a registry from a definition table. Duplicate
// (category, key) pairs, duplicate form field names and defaults that do not
// encode per their declared type are construction errors: a class of
// copy-paste bugs becomes a startup check.
func NewRegistry(scope Scope, defs []Definition) (*Registry, error) {
	r := &Registry{
		scope:  scope,
		defs:   make(map[string]map[string]Definition),
		fields: make(map[string]Definition),
	}

	for _, def := range defs {
		keys, ok := r.defs[def.Category]
		if !ok {
			keys = make(map[string]Definition)
			r.defs[def.Category] = keys
			r.categories = append(r.categories, def.Category)
		}

		if _, exists := keys[def.Key]; exists {
			return nil, errors.Wrapf(ErrDuplicateDefinition, "%s.%s", def.Category, def.Key)
		}

		if def.Field != "" {
			if _, exists := r.fields[def.Field]; exists {
				return nil, errors.Wrapf(ErrDuplicateField, "%s", def.Field)
			}

			r.fields[def.Field] = def
		}

		if _, err := Encode(def.Default, def.Type); err != nil {
			return nil, errors.Wrapf(err, "default of %s.%s", def.Category, def.Key)
		}

		keys[def.Key] = def
	}

	sort.Strings(r.categories)

	return r, nil
}

// Scope returns the scope kind this registry defines.
func (r *Registry) Scope() Scope {
	return r.scope
}

// Categories returns the category names in sorted order.
func (r *Registry) Categories() []string {
	out := make([]string, len(r.categories))
	copy(out, r.categories)

	return out
}

// Lookup returns the definition for (category, key).
func (r *Registry) Lookup(category, key string) (Definition, bool) {
	keys, ok := r.defs[category]
	if !ok {
		return Definition{}, false
	}

	def, ok := keys[key]

	return def, ok
}

// ByField returns the definition mapped to an inbound form field name.
func (r *Registry) ByField(field string) (Definition, bool) {
	def, ok := r.fields[field]

	return def, ok
}

// Definitions returns the definitions of one category sorted by key.
func (r *Registry) Definitions(category string) []Definition {
	keys, ok := r.defs[category]
	if !ok {
		return nil
	}

	out := make([]Definition, 0, len(keys))
	for _, def := range keys {
		out = append(out, def)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}

// Defaults materializes a fresh nested category → key → default map. The copy
// is shallow per key, which is safe because resolution replaces values at key
// level and never mutates them in place.
func (r *Registry) Defaults() map[string]map[string]any {
	out := make(map[string]map[string]any, len(r.defs))

	for category, keys := range r.defs {
		m := make(map[string]any, len(keys))
		for key, def := range keys {
			m[key] = def.Default
		}

		out[category] = m
	}

	return out
}
