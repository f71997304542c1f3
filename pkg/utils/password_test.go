package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"marketplace-console/pkg/utils"
)

func TestPassword(t *testing.T) {
	h := utils.HashPassword("hunter22hunter22")
	require.NotEmpty(t, h)
	require.NotEqual(t, "hunter22hunter22", h)

	require.True(t, utils.CheckPassword("hunter22hunter22", h))
	require.False(t, utils.CheckPassword("wrong-password", h))
	require.False(t, utils.CheckPassword("hunter22hunter22", "not-a-hash"))
}

func TestNewID(t *testing.T) {
	a, b := utils.NewID(), utils.NewID()
	require.Len(t, a, 32)
	require.NotEqual(t, a, b)
	require.NotContains(t, a, "-")
}
