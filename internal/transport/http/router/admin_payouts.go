package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"marketplace-console/internal/domain"
	"marketplace-console/internal/service"
	httpez "marketplace-console/internal/transport/http/ez"
)

func init() { RegisterOwner(20, mountAdminPayouts) }

// mountAdminPayouts 结算管理：冻结/放行/批量，列表自带汇总块
func mountAdminPayouts(g *gin.RouterGroup, d *Deps) {
	ez := httpez.New(g)

	type payoutFilter struct {
		Status    string `form:"status"`
		VendorID  string `form:"vendor_id"`
		StartDate string `form:"start_date"`
		EndDate   string `form:"end_date"`
	}
	httpez.RegisterList[payoutFilter, domain.Payout](ez, d.DB, httpez.List[payoutFilter, domain.Payout]{
		Path:  "/payouts",
		Key:   "payouts",
		Model: &domain.Payout{},
		Scope: func(c *gin.Context, q *gorm.DB, f *payoutFilter) *gorm.DB {
			if f.Status != "" {
				q = q.Where("status = ?", f.Status)
			}
			if f.VendorID != "" {
				q = q.Where("vendor_id = ?", f.VendorID)
			}
			if f.StartDate != "" {
				t, err := time.Parse("2006-01-02", f.StartDate)
				if err != nil {
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
					return q
				}
				q = q.Where("created_at >= ?", t)
			}
			if f.EndDate != "" {
				t, err := time.Parse("2006-01-02", f.EndDate)
				if err != nil {
					c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
					return q
				}
				q = q.Where("created_at < ?", t.AddDate(0, 0, 1))
			}
			return q
		},
		Extra: func(c *gin.Context, tx *gorm.DB, _ *payoutFilter) (gin.H, error) {
			stats, err := service.PayoutSummary(c, tx)
			if err != nil {
				return nil, err
			}
			return gin.H{"stats": stats}, nil
		},
	})

	type holdIn struct {
		Reason string `json:"reason"`
	}
	httpez.RegisterAction[holdIn, domain.Payout](ez, d.DB, httpez.Action[holdIn, domain.Payout]{
		Method: http.MethodPost,
		Path:   "/payouts/:id/hold",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *holdIn) (domain.Payout, error) {
			// 空理由直接拒绝：状态不动、审计不落
			reason := strings.TrimSpace(in.Reason)
			if reason == "" {
				return domain.Payout{}, httpez.BadRequest("hold reason is required")
			}

			id := c.Param("id")
			var p domain.Payout
			if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
				return p, httpez.NotFound("payout not found")
			}
			if p.Status != domain.PayoutPending {
				return p, httpez.Conflict("only pending payouts can be held")
			}

			actor := c.GetString("userId")
			now := time.Now()
			updates := map[string]any{
				"status":      domain.PayoutHeld,
				"hold_reason": reason,
				"held_by":     actor,
				"held_at":     now,
			}
			if err := tx.Model(&p).Updates(updates).Error; err != nil {
				return p, httpez.Internal("hold payout failed", err)
			}

			d.Audit.Record(c, actor, domain.AuditCategoryPayout, "payout.held", id, reason)
			d.Audit.Feed(c, actor, "payout", "held payout "+id)
			notifyPayoutHold(c, d, &p, reason)
			return p, nil
		},
	})

	type empty struct{}
	httpez.RegisterAction[empty, domain.Payout](ez, d.DB, httpez.Action[empty, domain.Payout]{
		Method: http.MethodPost,
		Path:   "/payouts/:id/release",
		Binder: httpez.BindNone,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *empty) (domain.Payout, error) {
			id := c.Param("id")
			var p domain.Payout
			if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
				return p, httpez.NotFound("payout not found")
			}
			if p.Status != domain.PayoutHeld {
				return p, httpez.Conflict("only held payouts can be released")
			}
			now := time.Now()
			updates := map[string]any{
				"status":      domain.PayoutReleased,
				"hold_reason": "",
				"released_at": now,
			}
			if err := tx.Model(&p).Updates(updates).Error; err != nil {
				return p, httpez.Internal("release payout failed", err)
			}
			actor := c.GetString("userId")
			d.Audit.Record(c, actor, domain.AuditCategoryPayout, "payout.released", id, "")
			d.Audit.Feed(c, actor, "payout", "released payout "+id)
			return p, nil
		},
	})

	type bulkIn struct {
		IDs    []string `json:"ids" binding:"required,min=1,max=100"`
		Action string   `json:"action" binding:"required"` // hold / release
		Reason string   `json:"reason"`
	}
	type bulkItem struct {
		ID    string `json:"id"`
		OK    bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}
	type bulkOut struct {
		Results []bulkItem `json:"results"`
		Applied int        `json:"applied"`
	}
	httpez.RegisterAction[bulkIn, bulkOut](ez, d.DB, httpez.Action[bulkIn, bulkOut]{
		Method: http.MethodPost,
		Path:   "/bulk/payouts",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *bulkIn) (bulkOut, error) {
			reason := strings.TrimSpace(in.Reason)
			if in.Action == "hold" && reason == "" {
				return bulkOut{}, httpez.BadRequest("hold reason is required")
			}
			if in.Action != "hold" && in.Action != "release" {
				return bulkOut{}, httpez.BadRequest("unknown action: " + in.Action)
			}

			actor := c.GetString("userId")
			now := time.Now()
			out := bulkOut{Results: make([]bulkItem, 0, len(in.IDs))}
			for _, id := range in.IDs {
				var res *gorm.DB
				if in.Action == "hold" {
					res = tx.Model(&domain.Payout{}).
						Where("id = ? AND status = ?", id, domain.PayoutPending).
						Updates(map[string]any{
							"status": domain.PayoutHeld, "hold_reason": reason,
							"held_by": actor, "held_at": now,
						})
				} else {
					res = tx.Model(&domain.Payout{}).
						Where("id = ? AND status = ?", id, domain.PayoutHeld).
						Updates(map[string]any{
							"status": domain.PayoutReleased, "hold_reason": "", "released_at": now,
						})
				}
				item := bulkItem{ID: id, OK: true}
				if res.Error != nil {
					item.OK, item.Error = false, res.Error.Error()
				} else if res.RowsAffected == 0 {
					item.OK, item.Error = false, "not found or wrong state"
				} else {
					out.Applied++
					d.Audit.Record(c, actor, domain.AuditCategoryPayout, "payout."+in.Action, id, reason)
				}
				out.Results = append(out.Results, item)
			}
			return out, nil
		},
	})
}

// notifyPayoutHold 给商家发冻结邮件；没配邮件客户端就只记日志
func notifyPayoutHold(c *gin.Context, d *Deps, p *domain.Payout, reason string) {
	if d.Mailer == nil {
		d.Log.Info("payout hold notice skipped, mailer not configured",
			zap.String("payout", p.ID), zap.String("vendor", p.VendorID))
		return
	}
	var v domain.Vendor
	if err := d.DB.WithContext(c).Where("id = ?", p.VendorID).First(&v).Error; err != nil {
		d.Log.Warn("payout hold notice: vendor lookup failed", zap.Error(err))
		return
	}
	u, err := d.Users.FindByID(v.UserID)
	if err != nil || u == nil {
		d.Log.Warn("payout hold notice: user lookup failed", zap.String("vendor", v.ID))
		return
	}
	if err := d.Mailer.SendPayoutHoldNotice(u.Email, v.StoreName, p.ID, reason); err != nil {
		d.Log.Warn("payout hold notice send failed", zap.Error(err))
	}
}
