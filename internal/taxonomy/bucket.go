// Package taxonomy maps detected organism labels onto the coarse category
// buckets shown on the dashboard summary and aggregates per-species counts
// into per-bucket totals.
package taxonomy

import "strings"

// Bucket represents one of the coarse organism categories used for summary display.
type Bucket string

const (
	BucketPhytoplankton Bucket = "phytoplankton"
	BucketZooplankton   Bucket = "zooplankton"
	BucketBacteria      Bucket = "bacteria"
	BucketFungus        Bucket = "fungus"
	// BucketOther is the catch-all for labels that match no rule. Counts
	// bucketed here are excluded from aggregate totals.
	BucketOther Bucket = "other"
)

// Membership sets for exact-match classification. These are fixed
// configuration data, never derived from remote input.
var (
	phytoplanktonSpecies = map[string]struct{}{
		"chlorella":       {},
		"euglena":         {},
		"diatom":          {},
		"cyanobacteria":   {},
		"nannochloropsis": {},
	}

	zooplanktonSpecies = map[string]struct{}{
		"rotifer":    {},
		"asplanchna": {},
		"copepod":    {},
		"daphnia":    {},
		"leptodora":  {},
	}
)

// Classify maps a species label to its bucket. Matching is case-insensitive
// and rules are evaluated in order, first match wins:
//
//  1. exact member of the phytoplankton set
//  2. exact member of the zooplankton set
//  3. contains the substring "bacteria"
//  4. contains "fungus" or "yeast"
//  5. otherwise BucketOther
//
// Classify is total: any input, including the empty string, yields a bucket.
func Classify(label string) Bucket {
	if label == "" {
		return BucketOther
	}
	s := strings.ToLower(label)

	if _, ok := phytoplanktonSpecies[s]; ok {
		return BucketPhytoplankton
	}
	if _, ok := zooplanktonSpecies[s]; ok {
		return BucketZooplankton
	}
	if strings.Contains(s, "bacteria") {
		return BucketBacteria
	}
	if strings.Contains(s, "fungus") || strings.Contains(s, "yeast") {
		return BucketFungus
	}
	return BucketOther
}
