package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"marketplace-console/internal/domain"
)

func TestVendorOrderTransitions(t *testing.T) {
	allowed := func(from, to string) bool {
		for _, next := range vendorOrderTransitions[from] {
			if next == to {
				return true
			}
		}
		return false
	}

	t.Run("paid order can ship or cancel", func(t *testing.T) {
		require.True(t, allowed(domain.OrderPaid, domain.OrderShipped))
		require.True(t, allowed(domain.OrderPaid, domain.OrderCancelled))
	})

	t.Run("shipped order can only complete", func(t *testing.T) {
		require.True(t, allowed(domain.OrderShipped, domain.OrderCompleted))
		require.False(t, allowed(domain.OrderShipped, domain.OrderCancelled))
	})

	t.Run("refunds are not vendor-driven", func(t *testing.T) {
		for from := range vendorOrderTransitions {
			require.False(t, allowed(from, domain.OrderRefunded), from)
		}
	})

	t.Run("terminal states have no exits", func(t *testing.T) {
		require.Empty(t, vendorOrderTransitions[domain.OrderCompleted])
		require.Empty(t, vendorOrderTransitions[domain.OrderCancelled])
		require.Empty(t, vendorOrderTransitions[domain.OrderRefunded])
	})
}
