package settings

import (
	"github.com/rs/zerolog/log"
)

// Engine merges the default registries with the override store. It keeps no
// mutable state of its own: the registries are read-only after construction
// and the store is only touched through ReadAll and BulkUpsert.
type Engine struct {
	store      OverrideStore
	registries map[Scope]*Registry
}

// NewEngine wires the engine from its injected collaborators.
func NewEngine(store OverrideStore, global, user *Registry) (*Engine, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	if global == nil || user == nil {
		return nil, ErrNilRegistry
	}

	return &Engine{
		store: store,
		registries: map[Scope]*Registry{
			global.Scope(): global,
			user.Scope():   user,
		},
	}, nil
}

// Registry returns the definition registry of a scope.
func (e *Engine) Registry(scope Scope) (*Registry, bool) {
	r, ok := e.registries[scope]

	return r, ok
}

// Resolve merges defaults and overrides for one scope/owner into a fresh
// Resolved object and applies redaction.
//
// Overrides replace defaults at key level, wholesale: an object or array
// override is never deep-merged into its default. Rows with no matching
// definition are dropped. A row whose value does not decode per the
// definition's type, including a row persisted under a different declared
// type, leaves the default in place and logs a data-integrity warning. Rows
// are applied as a key-indexed overwrite, so the result does not depend on
// row order.
//
// If the store is unreachable the defaults are returned with Stale set, so
// read paths degrade instead of failing; callers must surface the staleness.
func (e *Engine) Resolve(scope Scope, ownerID uint64) (*Resolved, error) {
	reg, ok := e.registries[scope]
	if !ok {
		return nil, ErrUnknownScope
	}

	res := &Resolved{
		Scope:   scope,
		OwnerID: ownerID,
		Values:  reg.Defaults(),
	}

	rows, err := e.store.ReadAll(scope, ownerID)
	if err != nil {
		log.Warn().Err(err).
			Str("scope", string(scope)).
			Uint64("owner_id", ownerID).
			Msg("settings store unreachable, serving defaults only")

		res.Stale = true
		e.redact(reg, res)

		return res, nil
	}

	for _, row := range rows {
		def, known := reg.Lookup(row.Category, row.Key)
		if !known {
			// Renamed or removed keys keep their rows; they are simply not resolved.
			log.Debug().
				Str("scope", string(scope)).
				Str("category", row.Category).
				Str("key", row.Key).
				Msg("ignoring override without definition")

			continue
		}

		value, decodeErr := Decode(row.Value, def.Type)
		if decodeErr != nil {
			log.Warn().Err(decodeErr).
				Str("scope", string(scope)).
				Str("category", row.Category).
				Str("key", row.Key).
				Msg("corrupt settings override, falling back to default")

			continue
		}

		res.Values[row.Category][row.Key] = value
	}

	e.redact(reg, res)

	return res, nil
}

func (e *Engine) redact(reg *Registry, res *Resolved) {
	for category, keys := range res.Values {
		for key, value := range keys {
			if def, ok := reg.Lookup(category, key); ok {
				keys[key] = MaskForRead(def, value)
			}
		}
	}
}
