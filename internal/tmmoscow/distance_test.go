package tmmoscow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories_IDRoundTrip(t *testing.T) {
	categories := Categories()
	require.Len(t, categories, 12)
	assert.Equal(t, Indoors, categories[0])
	assert.Equal(t, NordicWalking, categories[len(categories)-1])

	for _, c := range categories {
		got, ok := CategoryByID(c.ID())
		assert.True(t, ok, c.String())
		assert.Equal(t, c, got)
		assert.NotEmpty(t, c.Title())
	}

	_, ok := CategoryByID(7)
	assert.False(t, ok)
}

func TestCategories_ReturnsCopy(t *testing.T) {
	categories := Categories()
	categories[0] = Sailing
	assert.Equal(t, Indoors, Categories()[0])
}

func TestParseDistanceCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    DistanceCategory
		wantErr bool
	}{
		{input: "walking", want: Walking},
		{input: " Nordic_Walking ", want: NordicWalking},
		{input: "2", want: Walking},
		{input: "15", want: NordicWalking},
		{input: "7", wantErr: true},
		{input: "running", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDistanceCategory(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDistanceCategory_String(t *testing.T) {
	assert.Equal(t, "auto_moto", AutoMoto.String())
	assert.Equal(t, "DistanceCategory(42)", DistanceCategory(42).String())
	assert.False(t, DistanceCategory(0).Valid())
	assert.Equal(t, "http://www.tmmoscow.ru/index.php?go=News&in=cat&id=10", Aquatic.URL())
}
