package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Defaults(t *testing.T) {
	t.Parallel()

	ee := Newf("boom").Build()

	assert.Equal(t, "boom", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.Component)
	assert.Equal(t, CategoryGeneric, ee.Category)
	assert.False(t, ee.Timestamp.IsZero())
}

func TestBuilder_FullChain(t *testing.T) {
	t.Parallel()

	base := NewStd("persist failed")
	ee := New(base).
		Component("gallery").
		Category(CategoryGalleryPersist).
		Context("slot", "planktos_gallery_v1").
		Build()

	assert.Equal(t, "gallery", ee.Component)
	assert.Equal(t, CategoryGalleryPersist, ee.Category)
	assert.Equal(t, "planktos_gallery_v1", ee.GetContext()["slot"])
	assert.True(t, Is(ee, base), "wrapped error should match with Is")
}

func TestEnhancedError_CategoryMatching(t *testing.T) {
	t.Parallel()

	ee := Newf("no reply field").Category(CategoryMissingField).Build()

	assert.True(t, IsCategory(ee, CategoryMissingField))
	assert.False(t, IsCategory(ee, CategoryNetwork))

	// wrapped through fmt it still matches by category
	wrapped := fmt.Errorf("chat: %w", ee)
	assert.True(t, IsCategory(wrapped, CategoryMissingField))
}

func TestGetContext_ReturnsCopy(t *testing.T) {
	t.Parallel()

	ee := Newf("x").Context("k", "v").Build()

	ctx := ee.GetContext()
	require.NotNil(t, ctx)
	ctx["k"] = "mutated"

	assert.Equal(t, "v", ee.GetContext()["k"])
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFound(Newf("gone").Category(CategoryNotFound).Build()))
	assert.False(t, IsNotFound(NewStd("plain")))
	assert.False(t, IsNotFound(nil))
}
