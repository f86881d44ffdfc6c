package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() *Index {
	return NewIndex(Bundle{Supplements: []Reference{
		{ID: "iron", Names: []string{"Iron", "Ferrous Sulfate"}, Keywords: []string{"anemia"}, Goals: []string{"energy"}},
		{ID: "iron_c", Names: []string{"Iron + C"}, Goals: []string{"blood"}},
		{ID: "b12", Names: []string{"Vitamin B12"}, Keywords: []string{"iron deficiency"}, Goals: []string{"energy"}},
		{ID: "ashwa", Names: []string{"Ashwagandha"}, Goals: []string{"stress", "environment"}},
	}})
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	res := testIndex().SearchWithContext("   ")
	require.Len(t, res, 4)
	for _, r := range res {
		assert.Equal(t, MatchExact, r.Match)
		assert.Empty(t, r.MatchedTerms)
	}
	assert.Equal(t, "iron", res[0].Reference.ID)
}

func TestSearchTierOrder(t *testing.T) {
	res := testIndex().SearchWithContext("IRON")
	require.Len(t, res, 4)

	assert.Equal(t, "iron", res[0].Reference.ID)
	assert.Equal(t, MatchExact, res[0].Match)
	assert.Equal(t, []string{"Iron"}, res[0].MatchedTerms)

	assert.Equal(t, "iron_c", res[1].Reference.ID)
	assert.Equal(t, MatchPartialName, res[1].Match)

	assert.Equal(t, "b12", res[2].Reference.ID)
	assert.Equal(t, MatchKeyword, res[2].Match)
	assert.Equal(t, []string{"iron deficiency"}, res[2].MatchedTerms)

	// "environment" содержит "iron"
	assert.Equal(t, "ashwa", res[3].Reference.ID)
	assert.Equal(t, MatchGoal, res[3].Match)
}

func TestSearchFirstTierOnly(t *testing.T) {
	res := testIndex().SearchWithContext("energy")
	require.Len(t, res, 2)
	for _, r := range res {
		assert.Equal(t, MatchGoal, r.Match)
	}
	assert.Equal(t, "iron", res[0].Reference.ID)
	assert.Equal(t, "b12", res[1].Reference.ID)
}

func TestSearchNoMatch(t *testing.T) {
	assert.Empty(t, testIndex().SearchWithContext("zzz"))
}
