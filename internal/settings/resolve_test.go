package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory OverrideStore with failure injection.
type fakeStore struct {
	rows    map[Scope]map[uint64]map[string]Override
	readErr error
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[Scope]map[uint64]map[string]Override)}
}

func (f *fakeStore) ReadAll(scope Scope, ownerID uint64) ([]Override, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}

	var out []Override
	for _, row := range f.rows[scope][ownerID] {
		out = append(out, row)
	}

	return out, nil
}

func (f *fakeStore) BulkUpsert(scope Scope, ownerID uint64, rows []Override) error {
	if f.saveErr != nil {
		return f.saveErr
	}

	owners, ok := f.rows[scope]
	if !ok {
		owners = make(map[uint64]map[string]Override)
		f.rows[scope] = owners
	}

	byKey, ok := owners[ownerID]
	if !ok {
		byKey = make(map[string]Override)
		owners[ownerID] = byKey
	}

	for _, row := range rows {
		byKey[row.Category+"."+row.Key] = row
	}

	return nil
}

func (f *fakeStore) put(scope Scope, ownerID uint64, rows ...Override) {
	_ = f.BulkUpsert(scope, ownerID, rows)
}

func newTestEngine(t *testing.T, store OverrideStore) *Engine {
	t.Helper()

	global, err := NewGlobalRegistry(testConfig())
	require.NoError(t, err)

	user, err := NewUserRegistry(global)
	require.NoError(t, err)

	engine, err := NewEngine(store, global, user)
	require.NoError(t, err)

	return engine
}

func TestNewEngineGuards(t *testing.T) {
	global, err := NewGlobalRegistry(testConfig())
	require.NoError(t, err)

	user, err := NewUserRegistry(global)
	require.NoError(t, err)

	_, err = NewEngine(nil, global, user)
	require.ErrorIs(t, err, ErrNilStore)

	_, err = NewEngine(newFakeStore(), global, nil)
	require.ErrorIs(t, err, ErrNilRegistry)
}

func TestResolveDefaultsOnly(t *testing.T) {
	engine := newTestEngine(t, newFakeStore())

	res, err := engine.Resolve(ScopeGlobal, SystemOwnerID)
	require.NoError(t, err)
	assert.False(t, res.Stale)

	siteName, ok := res.Get("general", "siteName")
	require.True(t, ok)
	assert.Equal(t, "Accelerator", siteName)

	timeout, ok := res.Get("security", "sessionTimeout")
	require.True(t, ok)
	assert.Equal(t, float64(60), timeout)
}

func TestResolveOverridePrecedence(t *testing.T) {
	// definitions {general.siteName: "Accelerator", security.sessionTimeout: 60},
	// one override row for the timeout
	store := newFakeStore()
	store.put(ScopeGlobal, SystemOwnerID,
		Override{Category: "security", Key: "sessionTimeout", Value: "120", Type: TypeNumber})

	engine := newTestEngine(t, store)

	res, err := engine.Resolve(ScopeGlobal, SystemOwnerID)
	require.NoError(t, err)

	siteName, _ := res.Get("general", "siteName")
	assert.Equal(t, "Accelerator", siteName, "keys without override keep their default")

	timeout, _ := res.Get("security", "sessionTimeout")
	assert.Equal(t, float64(120), timeout, "override wins over default")
}

func TestResolveShallowReplacement(t *testing.T) {
	store := newFakeStore()
	store.put(ScopeGlobal, SystemOwnerID,
		Override{Category: "backup", Key: "destination", Value: `{"kind":"gcs"}`, Type: TypeObject})

	engine := newTestEngine(t, store)

	res, err := engine.Resolve(ScopeGlobal, SystemOwnerID)
	require.NoError(t, err)

	dest, _ := res.Get("backup", "destination")
	// wholesale key-level replacement: the default's bucket/region keys are gone
	assert.Equal(t, map[string]any{"kind": "gcs"}, dest)
}

func TestResolveCorruptOverride(t *testing.T) {
	store := newFakeStore()
	store.put(ScopeGlobal, SystemOwnerID,
		Override{Category: "backup", Key: "destination", Value: "{definitely not json", Type: TypeObject},
		Override{Category: "security", Key: "sessionTimeout", Value: "ninety", Type: TypeNumber})

	engine := newTestEngine(t, store)

	res, err := engine.Resolve(ScopeGlobal, SystemOwnerID)
	require.NoError(t, err, "corrupt rows must not fail the whole resolution")

	dest, _ := res.Get("backup", "destination")
	assert.Equal(t, map[string]any{"kind": "s3", "bucket": "", "region": ""}, dest)

	timeout, _ := res.Get("security", "sessionTimeout")
	assert.Equal(t, float64(60), timeout)
}

func TestResolveTypeMismatchActsAsMissing(t *testing.T) {
	// a row persisted under a different declared type decodes per the
	// definition and falls back to the default when the shape does not fit
	store := newFakeStore()
	store.put(ScopeGlobal, SystemOwnerID,
		Override{Category: "backup", Key: "destination", Value: "plain text", Type: TypeString})

	engine := newTestEngine(t, store)

	res, err := engine.Resolve(ScopeGlobal, SystemOwnerID)
	require.NoError(t, err)

	dest, _ := res.Get("backup", "destination")
	assert.Equal(t, map[string]any{"kind": "s3", "bucket": "", "region": ""}, dest)
}

func TestResolveDropsUnknownRows(t *testing.T) {
	store := newFakeStore()
	store.put(ScopeGlobal, SystemOwnerID,
		Override{Category: "legacy", Key: "renamedKey", Value: "x", Type: TypeString},
		Override{Category: "general", Key: "droppedKey", Value: "y", Type: TypeString})

	engine := newTestEngine(t, store)

	res, err := engine.Resolve(ScopeGlobal, SystemOwnerID)
	require.NoError(t, err)

	_, ok := res.Get("legacy", "renamedKey")
	assert.False(t, ok)

	_, ok = res.Get("general", "droppedKey")
	assert.False(t, ok)
}

func TestResolveStoreUnavailable(t *testing.T) {
	store := newFakeStore()
	store.readErr = errors.New("connection refused")

	engine := newTestEngine(t, store)

	res, err := engine.Resolve(ScopeGlobal, SystemOwnerID)
	require.NoError(t, err, "reads degrade to defaults instead of failing")
	assert.True(t, res.Stale)

	siteName, _ := res.Get("general", "siteName")
	assert.Equal(t, "Accelerator", siteName)
}

func TestResolveUnknownScope(t *testing.T) {
	engine := newTestEngine(t, newFakeStore())

	_, err := engine.Resolve(Scope("tenant"), 1)
	require.ErrorIs(t, err, ErrUnknownScope)
}

func TestResolveRedactsSensitiveValues(t *testing.T) {
	store := newFakeStore()
	store.put(ScopeGlobal, SystemOwnerID,
		Override{Category: "email", Key: "smtpPassword", Value: "hunter2", Type: TypeString})

	engine := newTestEngine(t, store)

	res, err := engine.Resolve(ScopeGlobal, SystemOwnerID)
	require.NoError(t, err)

	password, _ := res.Get("email", "smtpPassword")
	assert.Equal(t, SecretMask, password)

	// empty sensitive default stays empty
	apiKey, _ := res.Get("ai", "apiKey")
	assert.Equal(t, "", apiKey)
}

func TestResolveUserScopeIsolation(t *testing.T) {
	store := newFakeStore()
	store.put(ScopeUser, 1,
		Override{Category: "appearance", Key: "theme", Value: "dark", Type: TypeString})

	engine := newTestEngine(t, store)

	one, err := engine.Resolve(ScopeUser, 1)
	require.NoError(t, err)
	theme, _ := one.Get("appearance", "theme")
	assert.Equal(t, "dark", theme)

	two, err := engine.Resolve(ScopeUser, 2)
	require.NoError(t, err)
	theme, _ = two.Get("appearance", "theme")
	assert.Equal(t, "system", theme)
}
