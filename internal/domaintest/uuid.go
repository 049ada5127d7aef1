package domaintest

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewUUID returns a random normalized (dashless, lowercase) UUID
func NewUUID(t *testing.T) string {
	id, err := uuid.NewRandom()
	require.NoError(t, err)
	return strings.ReplaceAll(id.String(), "-", "")
}
