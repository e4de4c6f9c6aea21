package postgresql

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truewood-ems/ems-backend-go/internal/pkg/validator"
)

func TestNewID(t *testing.T) {
	first := newID()
	second := newID()

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.True(t, validator.IsValidUUID(first))
	assert.NotEqual(t, first, second)
}
