package ez

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPage_Clamp(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := Page{Page: 1, Limit: 20}
		require.Equal(t, 0, p.Clamp())
	})

	t.Run("second page offset", func(t *testing.T) {
		p := Page{Page: 2, Limit: 20}
		require.Equal(t, 20, p.Clamp())
		require.Equal(t, 2, p.Page)
	})

	t.Run("zero and negative page normalize to 1", func(t *testing.T) {
		for _, n := range []int{0, -3} {
			p := Page{Page: n, Limit: 10}
			require.Equal(t, 0, p.Clamp())
			require.Equal(t, 1, p.Page)
		}
	})

	t.Run("limit out of range falls back to 20", func(t *testing.T) {
		for _, n := range []int{0, -1, 101, 100000} {
			p := Page{Page: 1, Limit: n}
			p.Clamp()
			require.Equal(t, 20, p.Limit)
		}
	})

	t.Run("offset never depends on previous calls", func(t *testing.T) {
		p := Page{Page: 3, Limit: 10}
		require.Equal(t, 20, p.Clamp())
		require.Equal(t, 20, p.Clamp())
	})
}

func TestToSnake(t *testing.T) {
	cases := map[string]string{
		"ID":         "id",
		"OwnerID":    "owner_id",
		"CreatedAt":  "created_at",
		"FilterName": "filter_name",
		"":           "",
	}
	for in, want := range cases {
		require.Equal(t, want, toSnake(in), in)
	}
}

func TestStringFieldHelpers(t *testing.T) {
	type model struct {
		ID      string
		OwnerID string
		Count   int
	}

	t.Run("write and read owner field", func(t *testing.T) {
		m := &model{}
		require.True(t, writeStringField(m, []string{"OwnerID", "UserID"}, "u1"))
		got, ok := readStringField(m, []string{"OwnerID"})
		require.True(t, ok)
		require.Equal(t, "u1", got)
	})

	t.Run("missing field", func(t *testing.T) {
		m := &model{}
		require.False(t, writeStringField(m, []string{"VendorID"}, "x"))
	})

	t.Run("non-pointer rejected", func(t *testing.T) {
		m := model{}
		_, ok := getStringFieldPtr(m, []string{"ID"})
		require.False(t, ok)
	})
}
