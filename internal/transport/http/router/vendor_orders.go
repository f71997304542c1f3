package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marketplace-console/internal/domain"
	httpez "marketplace-console/internal/transport/http/ez"
)

func init() { RegisterVendor(20, mountVendorOrders) }

// 商家可操作的订单流转（支付/退款由结算侧驱动，不在这里）
var vendorOrderTransitions = map[string][]string{
	domain.OrderPaid:    {domain.OrderShipped, domain.OrderCancelled},
	domain.OrderShipped: {domain.OrderCompleted},
	domain.OrderPending: {domain.OrderCancelled},
}

func mountVendorOrders(g *gin.RouterGroup, d *Deps) {
	ez := httpez.New(g)

	type orderFilter struct {
		Status string `form:"status"`
	}
	httpez.RegisterList[orderFilter, domain.Order](ez, d.DB, httpez.List[orderFilter, domain.Order]{
		Path:  "/orders",
		Key:   "orders",
		Model: &domain.Order{},
		Scope: func(c *gin.Context, q *gorm.DB, f *orderFilter) *gorm.DB {
			q = q.Where("vendor_id = ?", c.GetString("vendorId"))
			if f.Status != "" {
				q = q.Where("status = ?", f.Status)
			}
			return q
		},
	})

	type statusIn struct {
		Status string `json:"status" binding:"required"`
	}
	httpez.RegisterAction[statusIn, domain.Order](ez, d.DB, httpez.Action[statusIn, domain.Order]{
		Method: http.MethodPatch,
		Path:   "/orders/:id/status",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *statusIn) (domain.Order, error) {
			var o domain.Order
			err := tx.Where("id = ? AND vendor_id = ?", c.Param("id"), c.GetString("vendorId")).First(&o).Error
			if err != nil {
				return o, httpez.NotFound("order not found")
			}
			allowed := false
			for _, next := range vendorOrderTransitions[o.Status] {
				if next == in.Status {
					allowed = true
					break
				}
			}
			if !allowed {
				return o, httpez.Conflict("cannot move order from " + o.Status + " to " + in.Status)
			}
			if err := tx.Model(&o).Update("status", in.Status).Error; err != nil {
				return o, httpez.Internal("update order failed", err)
			}
			o.Status = in.Status
			return o, nil
		},
	})
}
