package addrconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-dispatch/internal/core/addrhash"
	"github.com/dep2p/go-dispatch/pkg/types"
)

func newEntity(id int64, name string) *AddressConfig {
	var n *string
	if name != "" {
		n = &name
	}
	return newAddressConfig(id, n, types.TreatmentAnycastBalanced, 0, 0)
}

func TestRegistry_InsertAndLookup(t *testing.T) {
	reg := NewRegistry(nil)

	e := newEntity(1, "a")
	require.NoError(t, reg.Insert(e, "a.b."))

	assert.Equal(t, 1, reg.Size())
	assert.Equal(t, "Za.b.", e.Key())

	prefix, ok := e.Prefix()
	require.True(t, ok)
	assert.Equal(t, "a.b.", prefix)

	got, ok := reg.LookupPrefix("a.b.")
	require.True(t, ok)
	assert.Same(t, e, got)

	got, ok = reg.LookupByPrefixKey("Za.b.")
	require.True(t, ok)
	assert.Same(t, e, got)

	_, ok = reg.LookupPrefix("a.c.")
	assert.False(t, ok)
}

func TestRegistry_InsertConflictLeavesRegistryUnchanged(t *testing.T) {
	reg := NewRegistry(nil)
	require.NoError(t, reg.Insert(newEntity(1, ""), "x."))

	dup := newEntity(2, "")
	err := reg.Insert(dup, "x.")
	assert.ErrorIs(t, err, ErrPrefixConflict)
	assert.Equal(t, 1, reg.Size())
	assert.Empty(t, dup.Key())

	assert.ErrorIs(t, reg.Insert(nil, "y."), ErrNilEntity)
}

func TestRegistry_SharedNamespace(t *testing.T) {
	hash := addrhash.New()
	_, err := hash.Insert(addrhash.Key(types.HashTagMobile, "x."), "mobile")
	require.NoError(t, err)

	reg := NewRegistry(hash)
	require.NoError(t, reg.Insert(newEntity(1, ""), "x."), "different tags never collide")
	assert.Equal(t, 2, hash.Len())

	// 其他类型的键不会被当作地址配置
	_, ok := reg.LookupByPrefixKey(addrhash.Key(types.HashTagMobile, "x."))
	assert.False(t, ok)
}

func TestRegistry_HashViewPrefix(t *testing.T) {
	reg := NewRegistry(nil)
	e := newEntity(1, "")
	require.NoError(t, reg.Insert(e, "amqp://host/queue."))

	prefix, ok := e.Prefix()
	require.True(t, ok)
	assert.Equal(t, "queue.", prefix)
	assert.True(t, reg.PrefixTaken("/queue."))
}

func TestRegistry_FindAndRemove(t *testing.T) {
	reg := NewRegistry(nil)
	a, b, c := newEntity(10, "a"), newEntity(11, ""), newEntity(12, "c")
	require.NoError(t, reg.Insert(a, "a."))
	require.NoError(t, reg.Insert(b, "b."))
	require.NoError(t, reg.Insert(c, "c."))

	got, ok := reg.FindByIdentity("11")
	require.True(t, ok)
	assert.Same(t, b, got)

	_, ok = reg.FindByIdentity("011")
	assert.False(t, ok, "identity is matched as decimal text")

	got, ok = reg.FindByName("c")
	require.True(t, ok)
	assert.Same(t, c, got)

	_, ok = reg.FindByName("")
	assert.False(t, ok, "unnamed entities never match")

	removed, ok := reg.RemoveByIdentity("11")
	require.True(t, ok)
	assert.Same(t, b, removed)
	assert.Empty(t, removed.Key(), "handle released on removal")
	assert.False(t, reg.PrefixTaken("b."))

	removed, ok = reg.RemoveByName("a")
	require.True(t, ok)
	_, hasName := removed.Name()
	assert.False(t, hasName)

	assert.Equal(t, []*AddressConfig{c}, reg.Entries())
	assert.False(t, reg.Remove(a))

	_, ok = reg.RemoveByName("nope")
	assert.False(t, ok)
}

func TestRegistry_At(t *testing.T) {
	reg := NewRegistry(nil)
	for i, p := range []string{"a.", "b.", "c."} {
		require.NoError(t, reg.Insert(newEntity(int64(i+1), ""), p))
	}

	e, ok := reg.At(2)
	require.True(t, ok)
	assert.Equal(t, int64(3), e.Identity())

	_, ok = reg.At(3)
	assert.False(t, ok)
	_, ok = reg.At(-1)
	assert.False(t, ok)
}

func TestAddressConfig_Waypoint(t *testing.T) {
	cases := []struct {
		in, out int
		want    bool
	}{
		{0, 1, true},
		{0, 0, false},
		{1, 1, false},
		{1, 0, false},
		{0, 2, false},
	}
	for _, tc := range cases {
		e := newAddressConfig(1, nil, types.TreatmentAnycastBalanced, tc.in, tc.out)
		assert.Equal(t, tc.want, e.Waypoint(), "phases (%d,%d)", tc.in, tc.out)
	}
}
