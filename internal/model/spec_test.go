package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatasetRef(t *testing.T) {
	ref, err := ParseDatasetRef("agriculture.crop_production")
	require.NoError(t, err)
	assert.Equal(t, "agriculture", ref.Category)
	assert.Equal(t, "crop_production", ref.Name)
	assert.Equal(t, "agriculture.crop_production", ref.String())
	assert.Equal(t, "agriculture_crop_production", ref.Key())
}

func TestParseDatasetRef_Invalid(t *testing.T) {
	for _, s := range []string{"", "agriculture", ".name", "category.", "."} {
		_, err := ParseDatasetRef(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestYearRange_Contains(t *testing.T) {
	r := YearRange{Start: 2015, End: 2020}

	assert.True(t, r.Contains(2015))
	assert.True(t, r.Contains(2018))
	assert.True(t, r.Contains(2020))
	assert.False(t, r.Contains(2014))
	assert.False(t, r.Contains(2021))
}

func TestFilters_Empty(t *testing.T) {
	assert.True(t, Filters{}.Empty())
	assert.True(t, Filters{In: map[string][]string{}}.Empty())
	assert.False(t, Filters{In: map[string][]string{"state": {"Punjab"}}}.Empty())
	assert.False(t, Filters{Years: []int{2019}}.Empty())
	assert.False(t, Filters{YearRange: &YearRange{Start: 2015, End: 2020}}.Empty())
}
