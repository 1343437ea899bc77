package taxonomy

import (
	"sort"
	"strings"
)

// AggregateCounts holds per-bucket totals for the four tracked buckets.
// There is deliberately no "other" field; labels classified as BucketOther
// are dropped from the totals.
type AggregateCounts struct {
	Phytoplankton float64 `json:"phytoplankton"`
	Zooplankton   float64 `json:"zooplankton"`
	Bacteria      float64 `json:"bacteria"`
	Fungus        float64 `json:"fungus"`
}

// Total returns the sum over all tracked buckets.
func (a AggregateCounts) Total() float64 {
	return a.Phytoplankton + a.Zooplankton + a.Bacteria + a.Fungus
}

// Aggregate reduces a raw label -> count mapping into per-bucket totals.
// Callers supply already-coerced numeric counts; absent entries contribute
// nothing. The input map is never mutated, and a nil or empty input yields
// the zero-valued mapping.
//
// This is also the client-side fallback used whenever the remote service
// supplies raw per-label counts without a precomputed aggregate: the server
// aggregate is only trusted when explicitly present, otherwise totals are
// always recomputed locally from the raw counts.
func Aggregate(raw map[string]float64) AggregateCounts {
	var agg AggregateCounts
	for label, count := range raw {
		switch Classify(label) {
		case BucketPhytoplankton:
			agg.Phytoplankton += count
		case BucketZooplankton:
			agg.Zooplankton += count
		case BucketBacteria:
			agg.Bacteria += count
		case BucketFungus:
			agg.Fungus += count
		case BucketOther:
			// dropped from totals
		}
	}
	return agg
}

// SpeciesCount is a single entry of the per-species summary list.
type SpeciesCount struct {
	// Name is the display name, label underscores replaced with spaces.
	Name string `json:"name"`
	// Label is the raw label as supplied by the inference service.
	Label string  `json:"label"`
	Count float64 `json:"count"`
	// Bucket drives the category marker next to the species row.
	Bucket Bucket `json:"bucket"`
}

// TopSpecies returns the n highest raw counts in descending order, skipping
// zero and negative entries. Ties are broken by label so the result is stable
// across map iteration order.
func TopSpecies(raw map[string]float64, n int) []SpeciesCount {
	entries := make([]SpeciesCount, 0, len(raw))
	for label, count := range raw {
		if count <= 0 {
			continue
		}
		entries = append(entries, SpeciesCount{
			Name:   strings.ReplaceAll(label, "_", " "),
			Label:  label,
			Count:  count,
			Bucket: Classify(label),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
