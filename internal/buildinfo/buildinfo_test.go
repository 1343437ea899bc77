package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultsToUnknown(t *testing.T) {
	assert.Equal(t, "unknown", Version())
	assert.Equal(t, "unknown", BuildDate())
	assert.Equal(t, "unknown (built unknown)", String())
}

func TestInjectedValues(t *testing.T) {
	t.Cleanup(func() { version, buildDate = "", "" })

	version = "v1.2.3"
	buildDate = "2026-08-28"

	assert.Equal(t, "v1.2.3", Version())
	assert.Equal(t, "v1.2.3 (built 2026-08-28)", String())
}
