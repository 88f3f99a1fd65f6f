package lifecycle

import (
	"sort"

	"github.com/efortin/podctl/pkg/provider"
)

// Candidate pairs a GPU type with the hourly price a deploy attempt
// would pay for it.
type Candidate struct {
	TypeID      string
	DisplayName string
	Price       float64
}

// SelectCandidates filters the catalog to GPU types priced at or under
// maxPrice and orders them cheapest first. Ties keep their catalog
// order. The catalog must be fetched fresh per call; prices and
// availability change between invocations.
//
// An empty result means no GPU is affordable under the ceiling. The
// policy performs no network calls and no retries of its own.
func SelectCandidates(maxPrice float64, catalog []provider.GPUType) []Candidate {
	candidates := make([]Candidate, 0, len(catalog))
	for _, g := range catalog {
		price, ok := g.SpotPrice()
		if !ok || price > maxPrice {
			continue
		}
		candidates = append(candidates, Candidate{
			TypeID:      g.ID,
			DisplayName: g.DisplayName,
			Price:       price,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Price < candidates[j].Price
	})
	return candidates
}
