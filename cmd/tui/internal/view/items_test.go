package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemLines(t *testing.T) {
	t.Run("skips blank lines and trims fields", func(t *testing.T) {
		items, err := ParseItemLines("  Design ; 2 ; 50 \n\n Hosting;1;25.5\n")
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, "Design", items[0].Description)
		assert.Equal(t, "2", items[0].Quantity.String())
		assert.Equal(t, "50", items[0].UnitCost.String())
		assert.Nil(t, items[0].Amount)

		assert.Equal(t, "Hosting", items[1].Description)
		assert.Equal(t, "25.5", items[1].UnitCost.String())
	})

	t.Run("negative numbers pass through", func(t *testing.T) {
		items, err := ParseItemLines("Refund; -1; 10")
		require.NoError(t, err)
		assert.True(t, items[0].Quantity.IsNegative())
	})

	t.Run("empty text yields no items", func(t *testing.T) {
		items, err := ParseItemLines("   \n")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing field", "Design; 2", "line 1"},
		{"bad quantity", "ok; 1; 1\nDesign; two; 50", "invalid quantity \"two\""},
		{"bad unit cost", "Design; 2; fifty", "invalid unit cost \"fifty\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseItemLines(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseOptionalDecimal(t *testing.T) {
	d, err := ParseOptionalDecimal("  ")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseOptionalDecimal(" 8.25 ")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "8.25", d.String())

	_, err = ParseOptionalDecimal("abc")
	assert.Error(t, err)
}
