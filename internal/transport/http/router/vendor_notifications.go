package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marketplace-console/internal/domain"
	httpez "marketplace-console/internal/transport/http/ez"
)

func init() { RegisterVendor(40, mountVendorNotifications) }

func mountVendorNotifications(g *gin.RouterGroup, d *Deps) {
	ez := httpez.New(g)

	type notifFilter struct {
		Unread *bool `form:"unread"`
	}
	httpez.RegisterList[notifFilter, domain.Notification](ez, d.DB, httpez.List[notifFilter, domain.Notification]{
		Path:  "/notifications",
		Key:   "notifications",
		Model: &domain.Notification{},
		Scope: func(c *gin.Context, q *gorm.DB, f *notifFilter) *gorm.DB {
			q = q.Where("user_id = ?", c.GetString("userId"))
			if f.Unread != nil && *f.Unread {
				q = q.Where("is_read = ?", false)
			}
			return q
		},
		Extra: func(c *gin.Context, tx *gorm.DB, _ *notifFilter) (gin.H, error) {
			var unread int64
			err := tx.Model(&domain.Notification{}).
				Where("user_id = ? AND is_read = ?", c.GetString("userId"), false).
				Count(&unread).Error
			if err != nil {
				return nil, err
			}
			return gin.H{"unread": unread}, nil
		},
	})

	type empty struct{}
	type readOut struct {
		ID   string `json:"id"`
		Read bool   `json:"read"`
	}
	httpez.RegisterAction[empty, readOut](ez, d.DB, httpez.Action[empty, readOut]{
		Method: http.MethodPatch,
		Path:   "/notifications/:id/read",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *empty) (readOut, error) {
			id := c.Param("id")
			res := tx.Model(&domain.Notification{}).
				Where("id = ? AND user_id = ?", id, c.GetString("userId")).
				Update("is_read", true)
			if res.Error != nil {
				return readOut{}, httpez.Internal("mark read failed", res.Error)
			}
			if res.RowsAffected == 0 {
				return readOut{}, httpez.NotFound("notification not found")
			}
			return readOut{ID: id, Read: true}, nil
		},
	})

	type emptyAll struct{}
	type readAllOut struct {
		Marked int64 `json:"marked"`
	}
	httpez.RegisterAction[emptyAll, readAllOut](ez, d.DB, httpez.Action[emptyAll, readAllOut]{
		Method: http.MethodPost,
		Path:   "/notifications/read-all",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *emptyAll) (readAllOut, error) {
			res := tx.Model(&domain.Notification{}).
				Where("user_id = ? AND is_read = ?", c.GetString("userId"), false).
				Update("is_read", true)
			if res.Error != nil {
				return readAllOut{}, httpez.Internal("mark all read failed", res.Error)
			}
			return readAllOut{Marked: res.RowsAffected}, nil
		},
	})
}
