package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"marketplace-console/internal/core/auth"
)

func TestParseRole(t *testing.T) {
	t.Run("known roles", func(t *testing.T) {
		for s, want := range map[string]auth.Role{
			"user":   auth.RoleUser,
			"vendor": auth.RoleVendor,
			"owner":  auth.RoleOwner,
		} {
			got, ok := auth.ParseRole(s)
			require.True(t, ok, s)
			require.Equal(t, want, got)
		}
	})

	t.Run("admin is an alias of owner", func(t *testing.T) {
		got, ok := auth.ParseRole("admin")
		require.True(t, ok)
		require.Equal(t, auth.RoleOwner, got)
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, ok := auth.ParseRole("superduper")
		require.False(t, ok)
	})
}

func TestPortalAccess(t *testing.T) {
	t.Run("general portal allows everyone", func(t *testing.T) {
		for _, r := range []auth.Role{auth.RoleUser, auth.RoleVendor, auth.RoleOwner} {
			d := auth.PortalAccess(r, auth.PortalGeneral)
			require.True(t, d.Allowed)
			require.Empty(t, d.Banner)
			require.Nil(t, d.Toast)
		}
	})

	t.Run("owner portal admits only owner", func(t *testing.T) {
		d := auth.PortalAccess(auth.RoleOwner, auth.PortalOwner)
		require.True(t, d.Allowed)

		for _, r := range []auth.Role{auth.RoleUser, auth.RoleVendor} {
			d := auth.PortalAccess(r, auth.PortalOwner)
			require.False(t, d.Allowed)
			require.NotNil(t, d.Toast)
			require.Equal(t, "/", d.Redirect)
			require.False(t, d.ForceLogout)
		}
	})

	t.Run("vendor portal admits vendor without banner", func(t *testing.T) {
		d := auth.PortalAccess(auth.RoleVendor, auth.PortalVendor)
		require.True(t, d.Allowed)
		require.Empty(t, d.Banner)
	})

	t.Run("owner enters vendor portal with a banner", func(t *testing.T) {
		d := auth.PortalAccess(auth.RoleOwner, auth.PortalVendor)
		require.True(t, d.Allowed)
		require.NotEmpty(t, d.Banner)
		require.Nil(t, d.Toast)
	})

	t.Run("plain user denied from vendor portal with banner and toast", func(t *testing.T) {
		d := auth.PortalAccess(auth.RoleUser, auth.PortalVendor)
		require.False(t, d.Allowed)
		// 附加字段互相独立：banner、toast、redirect 同时给出
		require.NotEmpty(t, d.Banner)
		require.NotNil(t, d.Toast)
		require.Equal(t, "/", d.Redirect)
		require.False(t, d.ForceLogout)
	})

	t.Run("unknown portal forces logout", func(t *testing.T) {
		d := auth.PortalAccess(auth.RoleOwner, auth.Portal("mystery"))
		require.False(t, d.Allowed)
		require.True(t, d.ForceLogout)
		require.Equal(t, "/", d.Redirect)
	})
}
