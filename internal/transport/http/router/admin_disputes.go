package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marketplace-console/internal/domain"
	httpez "marketplace-console/internal/transport/http/ez"
	"marketplace-console/pkg/utils"
)

func init() { RegisterOwner(30, mountAdminDisputes) }

// mountAdminDisputes 纠纷裁决：列表、裁决、证据、时间线
func mountAdminDisputes(g *gin.RouterGroup, d *Deps) {
	ez := httpez.New(g)

	type disputeFilter struct {
		Status   string `form:"status"`
		Priority string `form:"priority"`
		VendorID string `form:"vendor_id"`
	}
	httpez.RegisterList[disputeFilter, domain.Dispute](ez, d.DB, httpez.List[disputeFilter, domain.Dispute]{
		Path:  "/disputes",
		Key:   "disputes",
		Model: &domain.Dispute{},
		Scope: func(c *gin.Context, q *gorm.DB, f *disputeFilter) *gorm.DB {
			if f.Status != "" {
				q = q.Where("status = ?", f.Status)
			}
			if f.Priority != "" {
				q = q.Where("priority = ?", f.Priority)
			}
			if f.VendorID != "" {
				q = q.Where("vendor_id = ?", f.VendorID)
			}
			return q
		},
	})

	type empty struct{}
	httpez.RegisterAction[empty, domain.Dispute](ez, d.DB, httpez.Action[empty, domain.Dispute]{
		Method: http.MethodGet,
		Path:   "/disputes/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *empty) (domain.Dispute, error) {
			var dp domain.Dispute
			if err := tx.Where("id = ?", c.Param("id")).First(&dp).Error; err != nil {
				return dp, httpez.NotFound("dispute not found")
			}
			return dp, nil
		},
	})

	type resolveIn struct {
		Resolution string `json:"resolution" binding:"required"`
		Note       string `json:"note"`
	}
	httpez.RegisterAction[resolveIn, domain.Dispute](ez, d.DB, httpez.Action[resolveIn, domain.Dispute]{
		Method: http.MethodPost,
		Path:   "/disputes/:id/resolve",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *resolveIn) (domain.Dispute, error) {
			switch in.Resolution {
			case domain.ResolutionRefundBuyer, domain.ResolutionFavorVendor, domain.ResolutionSplit:
			default:
				return domain.Dispute{}, httpez.BadRequest("unknown resolution: " + in.Resolution)
			}

			id := c.Param("id")
			var dp domain.Dispute
			if err := tx.Where("id = ?", id).First(&dp).Error; err != nil {
				return dp, httpez.NotFound("dispute not found")
			}
			if dp.Status == domain.DisputeResolved {
				return dp, httpez.Conflict("dispute already resolved")
			}

			actor := c.GetString("userId")
			from := dp.Status
			now := time.Now()
			updates := map[string]any{
				"status":      domain.DisputeResolved,
				"resolution":  in.Resolution,
				"note":        strings.TrimSpace(in.Note),
				"resolved_by": actor,
				"resolved_at": now,
			}
			if err := tx.Model(&dp).Updates(updates).Error; err != nil {
				return dp, httpez.Internal("resolve dispute failed", err)
			}

			ev := domain.DisputeEvent{
				ID:         utils.NewID(),
				DisputeID:  id,
				ActorID:    actor,
				Action:     "resolved",
				FromStatus: from,
				ToStatus:   domain.DisputeResolved,
				Note:       in.Resolution,
			}
			if err := tx.Create(&ev).Error; err != nil {
				return dp, httpez.Internal("record dispute event failed", err)
			}

			d.Audit.Record(c, actor, domain.AuditCategoryDispute, "dispute.resolved", id, in.Resolution)
			d.Audit.Feed(c, actor, "dispute", "resolved dispute "+id)
			return dp, nil
		},
	})

	type evidenceIn struct {
		Kind string `json:"kind" binding:"required,oneof=image document text"`
		URL  string `json:"url"  binding:"required,max=512"`
		Note string `json:"note" binding:"max=512"`
	}
	httpez.RegisterAction[evidenceIn, domain.DisputeEvidence](ez, d.DB, httpez.Action[evidenceIn, domain.DisputeEvidence]{
		Method: http.MethodPost,
		Path:   "/disputes/:id/evidence",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *evidenceIn) (domain.DisputeEvidence, error) {
			id := c.Param("id")
			var dp domain.Dispute
			if err := tx.Where("id = ?", id).First(&dp).Error; err != nil {
				return domain.DisputeEvidence{}, httpez.NotFound("dispute not found")
			}
			if dp.Status == domain.DisputeResolved {
				return domain.DisputeEvidence{}, httpez.Conflict("cannot attach evidence to a resolved dispute")
			}
			ev := domain.DisputeEvidence{
				ID:         utils.NewID(),
				DisputeID:  id,
				UploaderID: c.GetString("userId"),
				Kind:       in.Kind,
				URL:        in.URL,
				Note:       in.Note,
			}
			if err := tx.Create(&ev).Error; err != nil {
				return ev, httpez.Internal("attach evidence failed", err)
			}
			entry := domain.DisputeEvent{
				ID:        utils.NewID(),
				DisputeID: id,
				ActorID:   ev.UploaderID,
				Action:    "evidence_added",
				Note:      in.Kind,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return ev, httpez.Internal("record dispute event failed", err)
			}
			return ev, nil
		},
	})

	g.GET("/disputes/:id/evidence", func(c *gin.Context) {
		id := c.Param("id")
		tx := d.DB.WithContext(c)
		var count int64
		if err := tx.Model(&domain.Dispute{}).Where("id = ?", id).Count(&count).Error; err != nil || count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "dispute not found"})
			return
		}
		var evidence []domain.DisputeEvidence
		if err := tx.Where("dispute_id = ?", id).Order("created_at ASC").Find(&evidence).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load evidence failed"})
			return
		}
		if evidence == nil {
			evidence = []domain.DisputeEvidence{}
		}
		c.JSON(http.StatusOK, gin.H{"evidence": evidence})
	})

	// 时间线按时间正序，证据与事件分开给
	g.GET("/disputes/:id/timeline", func(c *gin.Context) {
		id := c.Param("id")
		tx := d.DB.WithContext(c)

		var dp domain.Dispute
		if err := tx.Where("id = ?", id).First(&dp).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "dispute not found"})
			return
		}
		var events []domain.DisputeEvent
		if err := tx.Where("dispute_id = ?", id).Order("created_at ASC").Find(&events).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load timeline failed"})
			return
		}
		var evidence []domain.DisputeEvidence
		if err := tx.Where("dispute_id = ?", id).Order("created_at ASC").Find(&evidence).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load evidence failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"dispute":  dp,
			"events":   events,
			"evidence": evidence,
		})
	})
}
