package settings

// Scope selects which settings universe an operation addresses.
type Scope string

const (
	// ScopeGlobal addresses the platform-wide settings.
	ScopeGlobal Scope = "global"
	// ScopeUser addresses the settings of one user account.
	ScopeUser Scope = "user"
)

// ValueType is the declared logical type of a setting value.
type ValueType string

const (
	// TypeString values pass through unchanged.
	TypeString ValueType = "string"
	// TypeBoolean values accept the checkbox conventions "on" and "true".
	TypeBoolean ValueType = "boolean"
	// TypeNumber values are kept as float64.
	TypeNumber ValueType = "number"
	// TypeArray values are persisted as JSON text.
	TypeArray ValueType = "array"
	// TypeObject values are persisted as JSON text.
	TypeObject ValueType = "object"
)

// SystemOwnerID is the named owner for seed rows that belong to no
// authenticated user. Auto-increment user IDs start at 1, so it can not
// collide with a real account.
const SystemOwnerID uint64 = 0

// Definition declares one setting: its namespace, key, form field name,
// logical type, built-in default and sensitivity. Definitions are static per
// scope kind and checked for duplicates at registry construction.
type Definition struct {
	Category  string
	Key       string
	Field     string // inbound form field name, unique per scope kind
	Type      ValueType
	Default   any
	Sensitive bool
}

// Override is one persisted override row: the type-encoded value taking
// precedence over the default for (Category, Key). Scope and owner are carried
// by the store call, mirroring the two parallel tables.
type Override struct {
	Category string
	Key      string
	Value    string
	Type     ValueType
}

// OverrideStore is the persistence abstraction consumed by the engine.
type OverrideStore interface {
	// ReadAll returns every override row for the scope/owner. No rows is not
	// an error, it means "all defaults".
	ReadAll(scope Scope, ownerID uint64) ([]Override, error)
	// BulkUpsert atomically creates or replaces the given rows for the
	// scope/owner. A failure must surface to the caller.
	BulkUpsert(scope Scope, ownerID uint64, rows []Override) error
}

// Resolved is the merged, typed settings object for one scope/owner. It is
// built fresh on every Resolve call and owned by the caller; the engine keeps
// no cache.
type Resolved struct {
	Scope   Scope
	OwnerID uint64

	// Stale is true when the store was unreachable and Values holds defaults
	// only. Callers should surface a staleness notice.
	Stale bool

	// Values maps category to key to decoded value.
	Values map[string]map[string]any
}

// Get returns the resolved value for category/key.
func (r *Resolved) Get(category, key string) (any, bool) {
	keys, ok := r.Values[category]
	if !ok {
		return nil, false
	}

	v, ok := keys[key]

	return v, ok
}

// Category returns the resolved key/value map of one category, nil if unknown.
func (r *Resolved) Category(category string) map[string]any {
	return r.Values[category]
}
