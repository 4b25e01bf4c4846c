package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff_AddedColumn(t *testing.T) {
	current := "#  id :bigint\n"
	next := "#  id :bigint\n#  name :string\n"

	d := Diff(current, next)

	assert.True(t, d.Changed())
	assert.Empty(t, d.Removed())
	assert.Empty(t, d.Modified())
	if assert.Len(t, d.Added(), 1) {
		assert.Equal(t, "name", d.Added()[0].Name)
		assert.Nil(t, d.Added()[0].Old)
	}
	assert.Len(t, d.Same(), 1)
}

func TestDiff_OrderIndependent(t *testing.T) {
	current := "#  id :bigint not null, primary key\n#  name :string\n"
	next := "#  name :string\n#  id :bigint primary key, not null\n"

	d := Diff(current, next)

	assert.False(t, d.Changed())
	assert.Equal(t, "", d.Delta())
}

func TestDiff_BothEmpty(t *testing.T) {
	d := Diff("", "")

	assert.False(t, d.Changed())
	assert.False(t, d.Malformed)
	assert.Empty(t, d.Changes)
}

func TestDiff_DeltaOrder(t *testing.T) {
	current := "#  id :bigint\n#  legacy :integer\n#  email :varchar\n"
	next := "#  id :bigint\n#  email :varchar not null\n#  name :varchar\n"

	d := Diff(current, next)

	kinds := make([]ChangeKind, len(d.Changes))
	for i, c := range d.Changes {
		kinds[i] = c.Kind
	}
	assert.Equal(t, []ChangeKind{Removed, Changed, Added, Unchanged}, kinds)
	assert.Equal(t, "- legacy :integer\n~ email :varchar -> :varchar not null\n+ name :varchar\n", d.Delta())
}

func TestDiff_MalformedCurrentTreatedAsEmpty(t *testing.T) {
	d := Diff("# == Schema Information\n# garbage\n", "#  id :bigint\n")

	assert.True(t, d.Malformed)
	assert.True(t, d.Changed())
	assert.Len(t, d.Added(), 1)
}

func TestChangeKind_String(t *testing.T) {
	assert.Equal(t, "added", Added.String())
	assert.Equal(t, "removed", Removed.String())
	assert.Equal(t, "changed", Changed.String())
	assert.Equal(t, "unchanged", Unchanged.String())
}
