package ttable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePos struct{ a, b int }

type fakeEntry struct {
	hash uint64
	pos  fakePos
}

func (f fakeEntry) PositionHash() uint64            { return f.hash }
func (f fakeEntry) PositionEqual(pos fakePos) bool { return f.pos == pos }

func TestLookupMiss(t *testing.T) {
	tbl := New[fakePos, fakeEntry](4)
	_, ok := tbl.Lookup(123, fakePos{1, 2})
	assert.False(t, ok)
}

func TestInsertAndLookup(t *testing.T) {
	tbl := New[fakePos, fakeEntry](4)
	e := fakeEntry{hash: 5, pos: fakePos{1, 2}}
	tbl.Insert(5, e)
	got, ok := tbl.Lookup(5, fakePos{1, 2})
	assert.True(t, ok)
	assert.Equal(t, e, got)
}

func TestLookupRejectsHashCollisionWithDifferentPosition(t *testing.T) {
	tbl := New[fakePos, fakeEntry](2) // size 4, mask 3
	e := fakeEntry{hash: 1, pos: fakePos{1, 2}}
	tbl.Insert(1, e)
	// hash 5 maps to the same slot (5 & 3 == 1) but is a different hash
	// and a different position: must not alias.
	_, ok := tbl.Lookup(5, fakePos{9, 9})
	assert.False(t, ok)
}

func TestAlwaysReplaceTracksCollisions(t *testing.T) {
	tbl := New[fakePos, fakeEntry](2)
	tbl.Insert(1, fakeEntry{hash: 1, pos: fakePos{1, 1}})
	assert.Zero(t, tbl.Collisions())
	tbl.Insert(5, fakeEntry{hash: 5, pos: fakePos{2, 2}}) // same slot, different hash
	assert.Equal(t, uint64(1), tbl.Collisions())
	got, ok := tbl.Lookup(5, fakePos{2, 2})
	assert.True(t, ok)
	assert.Equal(t, uint64(5), got.hash)
}

func TestReset(t *testing.T) {
	tbl := New[fakePos, fakeEntry](2)
	tbl.Insert(1, fakeEntry{hash: 1, pos: fakePos{1, 1}})
	tbl.Reset()
	_, ok := tbl.Lookup(1, fakePos{1, 1})
	assert.False(t, ok)
	assert.Zero(t, tbl.Collisions())
}
