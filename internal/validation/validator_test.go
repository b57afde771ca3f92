package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/openlodging/mediasync/internal/errors"
)

type sampleEvent struct {
	Kind       string `json:"kind" validate:"required,oneof=add update reprocess"`
	PropertyID int64  `json:"property_id" validate:"required,gt=0"`
	FileName   string `json:"file_name" validate:"required"`
}

func TestValidate_OK(t *testing.T) {
	v := New()

	err := v.Validate(sampleEvent{Kind: "add", PropertyID: 5001, FileName: "pool.jpg"})
	assert.NoError(t, err)
}

func TestValidate_CollectsFieldErrors(t *testing.T) {
	v := New()

	err := v.Validate(sampleEvent{Kind: "bogus", PropertyID: -1})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	var domainErr *domainerrors.Error
	require.True(t, domainerrors.As(err, &domainErr))

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "kind")
	assert.Contains(t, details, "property_id")
	assert.Contains(t, details, "file_name")
}

func TestValidate_UsesJSONTagNames(t *testing.T) {
	v := New()

	err := v.Validate(sampleEvent{Kind: "add", FileName: "pool.jpg"})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, domainerrors.As(err, &domainErr))

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "property_id")
	assert.NotContains(t, details, "PropertyID")
}
