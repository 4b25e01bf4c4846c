package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumns(t *testing.T) {
	text := `# == Schema Information
#
# Table name: orders
#
#  id          :bigint           not null, primary key
#  total       :decimal(10, 2)   default(0.0), not null
#  status      :varchar          default('new, pending'), not null
#  note        :text
#  id          :integer
#
# Indexes
#
#  index_orders_on_status  (status)
#
`
	cols, err := ParseColumns(text)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "total", "status", "note"}, cols.Names())

	id, ok := cols.Get("id")
	require.True(t, ok)
	assert.Equal(t, "bigint", id.Type)
	assert.Equal(t, []Modifier{{Name: "null", Value: "false"}, {Name: "primary key", Value: "true"}}, id.Modifiers)

	total, _ := cols.Get("total")
	assert.Equal(t, "decimal(10, 2)", total.Type)
	assert.Equal(t, []Modifier{{Name: "default", Value: "0.0"}, {Name: "null", Value: "false"}}, total.Modifiers)

	status, _ := cols.Get("status")
	assert.Equal(t, Modifier{Name: "default", Value: "'new, pending'"}, status.Modifiers[0])

	note, _ := cols.Get("note")
	assert.Empty(t, note.Modifiers)
	assert.Equal(t, ":text", note.String())
}

func TestParseColumns_EmptyAndMalformed(t *testing.T) {
	cols, err := ParseColumns("")
	require.NoError(t, err)
	assert.Equal(t, 0, cols.Len())

	cols, err = ParseColumns("  \n\n")
	require.NoError(t, err)
	assert.Equal(t, 0, cols.Len())

	cols, err = ParseColumns("# == Schema Information\n#\n# Table name: users\n")
	assert.ErrorIs(t, err, ErrMalformedAnnotation)
	assert.Equal(t, 0, cols.Len())
}

func TestColumn_StringRoundTrip(t *testing.T) {
	col, ok := parseColumnRow("#  email  :varchar(255)  default(''), not null, null")
	require.True(t, ok)
	assert.Equal(t, ":varchar(255) default(''), not null, null", col.String())
}

func TestColumn_Equal(t *testing.T) {
	a := Column{Name: "id", Type: "bigint", Modifiers: []Modifier{{"null", "false"}, {"primary key", "true"}}}
	b := Column{Name: "id", Type: "bigint", Modifiers: []Modifier{{"primary key", "true"}, {"null", "false"}}}
	c := Column{Name: "id", Type: "integer", Modifiers: b.Modifiers}
	d := Column{Name: "id", Type: "bigint", Modifiers: []Modifier{{"null", "false"}}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}
