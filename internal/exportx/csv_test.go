package exportx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDeterministicHash(t *testing.T) {
	table := Table{
		Columns: []string{"id", "name"},
		Rows: [][]string{
			{"1", "Alice"},
			{"2", "Bob"},
		},
	}

	first, err := Render(table)
	require.NoError(t, err)
	second, err := Render(table)
	require.NoError(t, err)

	assert.Equal(t, first.Hash, second.Hash)
	assert.NotEmpty(t, first.Hash)
}

func TestRenderHashChangesWithContent(t *testing.T) {
	base := Table{Columns: []string{"id"}, Rows: [][]string{{"1"}}}
	changed := Table{Columns: []string{"id"}, Rows: [][]string{{"2"}}}

	baseResult, err := Render(base)
	require.NoError(t, err)
	changedResult, err := Render(changed)
	require.NoError(t, err)

	assert.NotEqual(t, baseResult.Hash, changedResult.Hash)
}

func TestRenderPrependsUTF8BOM(t *testing.T) {
	result, err := Render(Table{Columns: []string{"a"}, Rows: [][]string{{"1"}}})
	require.NoError(t, err)
	require.True(t, len(result.Bytes) >= 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, result.Bytes[:3])
}

func TestRenderEscapesFieldsWithCommas(t *testing.T) {
	result, err := Render(Table{Columns: []string{"name"}, Rows: [][]string{{"Doe, Jane"}}})
	require.NoError(t, err)
	assert.Contains(t, string(result.Bytes), "\"Doe, Jane\"")
}
