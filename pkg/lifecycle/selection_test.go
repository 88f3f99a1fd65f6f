package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/efortin/podctl/pkg/provider"
)

func TestSelectCandidatesOrdersByPrice(t *testing.T) {
	catalog := []provider.GPUType{
		{ID: "b", DisplayName: "B", CommunitySpotPrice: price(0.20)},
		{ID: "a", DisplayName: "A", CommunitySpotPrice: price(0.10)},
		{ID: "c", DisplayName: "C", CommunitySpotPrice: price(0.15)},
	}

	got := SelectCandidates(0.30, catalog)

	ids := make([]string, len(got))
	for i, c := range got {
		ids[i] = c.TypeID
	}
	assert.Equal(t, []string{"a", "c", "b"}, ids)
}

func TestSelectCandidatesFiltersCeiling(t *testing.T) {
	catalog := []provider.GPUType{
		{ID: "cheap", CommunitySpotPrice: price(0.10)},
		{ID: "edge", CommunitySpotPrice: price(0.30)},
		{ID: "pricey", CommunitySpotPrice: price(0.31)},
		{ID: "unpriced"},
	}

	got := SelectCandidates(0.30, catalog)

	assert.Len(t, got, 2)
	assert.Equal(t, "cheap", got[0].TypeID)
	assert.Equal(t, "edge", got[1].TypeID, "a price equal to the ceiling is affordable")
}

func TestSelectCandidatesPrefersCommunityPrice(t *testing.T) {
	catalog := []provider.GPUType{
		{ID: "both", CommunitySpotPrice: price(0.12), SecureSpotPrice: price(0.25)},
		{ID: "secure-only", SecureSpotPrice: price(0.20)},
	}

	got := SelectCandidates(0.30, catalog)

	assert.Len(t, got, 2)
	assert.Equal(t, "both", got[0].TypeID)
	assert.Equal(t, 0.12, got[0].Price)
	assert.Equal(t, 0.20, got[1].Price)
}

func TestSelectCandidatesStableOnTies(t *testing.T) {
	catalog := []provider.GPUType{
		{ID: "first", CommunitySpotPrice: price(0.15)},
		{ID: "second", CommunitySpotPrice: price(0.15)},
	}

	got := SelectCandidates(0.30, catalog)

	assert.Equal(t, "first", got[0].TypeID)
	assert.Equal(t, "second", got[1].TypeID)
}

func TestSelectCandidatesEmptyCatalog(t *testing.T) {
	assert.Empty(t, SelectCandidates(0.30, nil))
}
