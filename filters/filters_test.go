package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr bool
	}{
		{"exact", "Beauty", Beauty, false},
		{"lowercase", "normal", Normal, false},
		{"uppercase", "GRAY", Gray, false},
		{"spaced", "Morph Open", MorphOpen, false},
		{"underscored", "morph_close", MorphClose, false},
		{"collapsed", "morphopen", MorphOpen, false},
		{"unknown", "sepia", Normal, true},
		{"empty", "", Normal, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	for _, k := range Catalog() {
		got, err := Parse(k.String())
		require.NoError(t, err, "catalog name %q must parse", k.String())
		assert.Equal(t, k, got)
	}
}

func TestNamesMatchCatalog(t *testing.T) {
	names := Names()
	kinds := Catalog()
	require.Len(t, names, len(kinds))
	assert.Equal(t, "Normal", names[0])
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Morph Open", MorphOpen.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}
