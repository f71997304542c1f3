package router

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marketplace-console/internal/domain"
	httpez "marketplace-console/internal/transport/http/ez"
)

func init() { RegisterVendor(30, mountVendorMessages) }

// mountVendorMessages 站内信与保存的筛选条件，都是账号自有数据，
// 归属约束交给通用 CRUD
func mountVendorMessages(g *gin.RouterGroup, d *Deps) {
	httpez.Crud(httpez.CrudConfig[domain.Message]{
		DB:    d.DB,
		Group: g,
		Path:  "/messages",
		Key:   "messages",
		New:   func() *domain.Message { return &domain.Message{} },

		AllowCreate: true,
		AllowList:   true,
		AllowGet:    true,

		OrderBy: "created_at DESC",
		Hooks: httpez.CrudHooks[domain.Message]{
			BeforeCreate: func(c *gin.Context, m *domain.Message) error {
				m.Sender = "vendor"
				m.Read = false
				if strings.TrimSpace(m.Body) == "" {
					return errors.New("message body is required")
				}
				return nil
			},
			ScopeList: func(c *gin.Context, q *gorm.DB) *gorm.DB {
				if c.Query("unread") == "true" {
					q = q.Where("is_read = ?", false)
				}
				return q
			},
		},
	})

	httpez.Crud(httpez.CrudConfig[domain.SavedFilter]{
		DB:    d.DB,
		Group: g,
		Path:  "/saved-filters",
		Key:   "filters",
		New:   func() *domain.SavedFilter { return &domain.SavedFilter{} },

		AllowCreate: true,
		AllowList:   true,
		AllowGet:    true,
		AllowUpdate: true,
		AllowDelete: true,

		OrderBy: "created_at DESC",
		Hooks: httpez.CrudHooks[domain.SavedFilter]{
			BeforeCreate: func(c *gin.Context, f *domain.SavedFilter) error {
				if strings.TrimSpace(f.FilterName) == "" {
					return errors.New("filter_name is required")
				}
				return nil
			},
			BeforeUpdate: func(c *gin.Context, f *domain.SavedFilter) error {
				if strings.TrimSpace(f.FilterName) == "" {
					return errors.New("filter_name is required")
				}
				return nil
			},
		},
	})
}
