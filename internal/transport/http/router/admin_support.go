package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marketplace-console/internal/domain"
	httpez "marketplace-console/internal/transport/http/ez"
	"marketplace-console/pkg/utils"
)

func init() { RegisterOwner(60, mountAdminSupport) }

// mountAdminSupport 客服工单：列表、状态流转、已读标记
func mountAdminSupport(g *gin.RouterGroup, d *Deps) {
	ez := httpez.New(g)

	type ticketFilter struct {
		Status   string `form:"status"`
		Priority string `form:"priority"`
		Unread   *bool  `form:"unread"`
	}
	httpez.RegisterList[ticketFilter, domain.SupportTicket](ez, d.DB, httpez.List[ticketFilter, domain.SupportTicket]{
		Path:  "/support/tickets",
		Key:   "tickets",
		Model: &domain.SupportTicket{},
		Scope: func(c *gin.Context, q *gorm.DB, f *ticketFilter) *gorm.DB {
			if f.Status != "" {
				q = q.Where("status = ?", f.Status)
			}
			if f.Priority != "" {
				q = q.Where("priority = ?", f.Priority)
			}
			if f.Unread != nil && *f.Unread {
				q = q.Where("is_read = ?", false)
			}
			return q
		},
		Extra: func(c *gin.Context, tx *gorm.DB, _ *ticketFilter) (gin.H, error) {
			var unread int64
			if err := tx.Model(&domain.SupportTicket{}).Where("is_read = ?", false).Count(&unread).Error; err != nil {
				return nil, err
			}
			return gin.H{"unread": unread}, nil
		},
	})

	type createIn struct {
		UserID   string `json:"user_id" binding:"required"`
		Subject  string `json:"subject" binding:"required,max=191"`
		Body     string `json:"body" binding:"required,max=4096"`
		Priority string `json:"priority" binding:"omitempty,oneof=low normal high"`
	}
	httpez.RegisterAction[createIn, domain.SupportTicket](ez, d.DB, httpez.Action[createIn, domain.SupportTicket]{
		Method: http.MethodPost,
		Path:   "/support/tickets",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *createIn) (domain.SupportTicket, error) {
			pri := in.Priority
			if pri == "" {
				pri = "normal"
			}
			t := domain.SupportTicket{
				ID:       utils.NewID(),
				UserID:   in.UserID,
				Subject:  in.Subject,
				Body:     in.Body,
				Status:   domain.TicketOpen,
				Priority: pri,
			}
			if err := tx.Create(&t).Error; err != nil {
				return t, httpez.Internal("create ticket failed", err)
			}
			d.Audit.Record(c, c.GetString("userId"), domain.AuditCategorySupport, "ticket.created", t.ID, "")
			return t, nil
		},
	})

	type patchIn struct {
		Status   *string `json:"status"`
		Priority *string `json:"priority"`
	}
	httpez.RegisterAction[patchIn, domain.SupportTicket](ez, d.DB, httpez.Action[patchIn, domain.SupportTicket]{
		Method: http.MethodPatch,
		Path:   "/support/tickets/:id",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *patchIn) (domain.SupportTicket, error) {
			var t domain.SupportTicket
			if err := tx.Where("id = ?", c.Param("id")).First(&t).Error; err != nil {
				return t, httpez.NotFound("ticket not found")
			}
			updates := map[string]any{}
			if in.Status != nil {
				switch *in.Status {
				case domain.TicketOpen, domain.TicketPending, domain.TicketClosed:
					updates["status"] = *in.Status
				default:
					return t, httpez.BadRequest("invalid status")
				}
			}
			if in.Priority != nil {
				switch *in.Priority {
				case "low", "normal", "high":
					updates["priority"] = *in.Priority
				default:
					return t, httpez.BadRequest("invalid priority")
				}
			}
			if len(updates) == 0 {
				return t, httpez.BadRequest("nothing to update")
			}
			if err := tx.Model(&t).Updates(updates).Error; err != nil {
				return t, httpez.Internal("update ticket failed", err)
			}
			d.Audit.Record(c, c.GetString("userId"), domain.AuditCategorySupport, "ticket.updated", t.ID, "")
			return t, nil
		},
	})

	type empty struct{}
	httpez.RegisterAction[empty, domain.SupportTicket](ez, d.DB, httpez.Action[empty, domain.SupportTicket]{
		Method: http.MethodPatch,
		Path:   "/support/tickets/:id/read",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *empty) (domain.SupportTicket, error) {
			var t domain.SupportTicket
			if err := tx.Where("id = ?", c.Param("id")).First(&t).Error; err != nil {
				return t, httpez.NotFound("ticket not found")
			}
			if !t.Read {
				if err := tx.Model(&t).Update("is_read", true).Error; err != nil {
					return t, httpez.Internal("mark read failed", err)
				}
				t.Read = true
			}
			return t, nil
		},
	})
}
