package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_PhytoplanktonSet(t *testing.T) {
	t.Parallel()

	for _, label := range []string{"chlorella", "euglena", "diatom", "cyanobacteria", "nannochloropsis"} {
		assert.Equal(t, BucketPhytoplankton, Classify(label), "expected %q in phytoplankton bucket", label)
	}
}

func TestClassify_ZooplanktonSet(t *testing.T) {
	t.Parallel()

	for _, label := range []string{"rotifer", "asplanchna", "copepod", "daphnia", "leptodora"} {
		assert.Equal(t, BucketZooplankton, Classify(label), "expected %q in zooplankton bucket", label)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  Bucket
	}{
		{"Chlorella", BucketPhytoplankton},
		{"CHLORELLA", BucketPhytoplankton},
		{"Copepod", BucketZooplankton},
		{"CyanoBacteria", BucketPhytoplankton}, // exact set match wins over substring rule
		{"E.Coli_Bacteria", BucketBacteria},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.label))
		})
	}
}

func TestClassify_SubstringRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		label string
		want  Bucket
	}{
		{"bacteria substring", "marine_bacteria", BucketBacteria},
		{"bacteria suffix", "proteobacteria", BucketBacteria},
		{"fungus substring", "marine_fungus", BucketFungus},
		{"yeast substring", "brewers_yeast", BucketFungus},
		{"bacteria wins over fungus", "bacteria_yeast", BucketBacteria},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.label))
		})
	}
}

func TestClassify_Other(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		label string
	}{
		{"empty", ""},
		{"unknown species", "unknown_species"},
		{"near miss", "chlorellax"},
		{"whitespace only", "   "},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, BucketOther, Classify(tt.label))
		})
	}
}
