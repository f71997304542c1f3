package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marketplace-console/internal/domain"
	httpez "marketplace-console/internal/transport/http/ez"
)

func init() { RegisterOwner(10, mountAdminUsers) }

// mountAdminUsers 平台侧用户台账：检索、编辑、停用/恢复
func mountAdminUsers(g *gin.RouterGroup, d *Deps) {
	ez := httpez.New(g)

	type userFilter struct {
		Q      string `form:"q"`
		Role   string `form:"role"`
		Status string `form:"status"`
	}
	httpez.RegisterList[userFilter, domain.User](ez, d.DB, httpez.List[userFilter, domain.User]{
		Path:  "/users",
		Key:   "users",
		Model: &domain.User{},
		Scope: func(c *gin.Context, q *gorm.DB, f *userFilter) *gorm.DB {
			if f.Q != "" {
				like := "%" + f.Q + "%"
				q = q.Where("email LIKE ? OR name LIKE ?", like, like)
			}
			if f.Role != "" {
				q = q.Where("role = ?", f.Role)
			}
			if f.Status != "" {
				q = q.Where("status = ?", f.Status)
			}
			return q
		},
	})

	type userPatch struct {
		Name   *string `json:"name"`
		Role   *string `json:"role"`
		Status *string `json:"status"`
	}
	httpez.RegisterAction[userPatch, domain.User](ez, d.DB, httpez.Action[userPatch, domain.User]{
		Method: http.MethodPatch,
		Path:   "/users/:id",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *userPatch) (domain.User, error) {
			id := c.Param("id")
			var u domain.User
			if err := tx.Where("id = ?", id).First(&u).Error; err != nil {
				return u, httpez.NotFound("user not found")
			}
			updates := map[string]any{}
			if in.Name != nil {
				updates["name"] = *in.Name
			}
			if in.Role != nil {
				if *in.Role != "user" && *in.Role != "vendor" && *in.Role != "owner" {
					return u, httpez.BadRequest("invalid role")
				}
				updates["role"] = *in.Role
			}
			if in.Status != nil {
				if *in.Status != domain.UserActive && *in.Status != domain.UserSuspended {
					return u, httpez.BadRequest("invalid status")
				}
				updates["status"] = *in.Status
			}
			if len(updates) == 0 {
				return u, httpez.BadRequest("nothing to update")
			}
			if err := tx.Model(&u).Updates(updates).Error; err != nil {
				return u, httpez.Internal("update user failed", err)
			}
			d.Audit.Record(c, c.GetString("userId"), domain.AuditCategoryUser, "user.updated", id, "")
			return u, nil
		},
	})

	type empty struct{}
	type statusOut struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	setStatus := func(path, status, event string) {
		httpez.RegisterAction[empty, statusOut](ez, d.DB, httpez.Action[empty, statusOut]{
			Method: http.MethodPost,
			Path:   path,
			Binder: httpez.BindNone,
			Handler: func(c *gin.Context, tx *gorm.DB, _ *empty) (statusOut, error) {
				id := c.Param("id")
				res := tx.Model(&domain.User{}).Where("id = ?", id).Update("status", status)
				if res.Error != nil {
					return statusOut{}, httpez.Internal("update status failed", res.Error)
				}
				if res.RowsAffected == 0 {
					return statusOut{}, httpez.NotFound("user not found")
				}
				actor := c.GetString("userId")
				d.Audit.Record(c, actor, domain.AuditCategoryUser, event, id, "")
				d.Audit.Feed(c, actor, "user", event+" "+id)
				return statusOut{ID: id, Status: status}, nil
			},
		})
	}
	setStatus("/users/:id/suspend", domain.UserSuspended, "user.suspended")
	setStatus("/users/:id/activate", domain.UserActive, "user.activated")

	// 批量操作逐条落结果，部分失败不回滚整批
	type bulkIn struct {
		IDs    []string `json:"ids" binding:"required,min=1,max=100"`
		Action string   `json:"action" binding:"required"`
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
		Path:   "/bulk/vendors",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *bulkIn) (bulkOut, error) {
			var status string
			switch in.Action {
			case "activate":
				status = domain.VendorActive
			case "suspend":
				status = domain.VendorSuspended
			default:
				return bulkOut{}, httpez.BadRequest("unknown action: " + in.Action)
			}
			out := bulkOut{Results: make([]bulkItem, 0, len(in.IDs))}
			for _, id := range in.IDs {
				res := tx.Model(&domain.Vendor{}).Where("id = ?", id).Update("status", status)
				item := bulkItem{ID: id, OK: true}
				if res.Error != nil {
					item.OK, item.Error = false, res.Error.Error()
				} else if res.RowsAffected == 0 {
					item.OK, item.Error = false, "not found"
				} else {
					out.Applied++
				}
				out.Results = append(out.Results, item)
			}
			actor := c.GetString("userId")
			d.Audit.Record(c, actor, domain.AuditCategoryVendor, "vendor.bulk_"+in.Action, "", "")
			return out, nil
		},
	})

	httpez.RegisterAction[bulkIn, bulkOut](ez, d.DB, httpez.Action[bulkIn, bulkOut]{
		Method: http.MethodPost,
		Path:   "/bulk/products",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *bulkIn) (bulkOut, error) {
			var status string
			switch in.Action {
			case "delist":
				status = domain.ProductDelisted
			case "activate":
				status = domain.ProductActive
			default:
				return bulkOut{}, httpez.BadRequest("unknown action: " + in.Action)
			}
			out := bulkOut{Results: make([]bulkItem, 0, len(in.IDs))}
			for _, id := range in.IDs {
				res := tx.Model(&domain.Product{}).Where("id = ?", id).Update("status", status)
				item := bulkItem{ID: id, OK: true}
				if res.Error != nil {
					item.OK, item.Error = false, res.Error.Error()
				} else if res.RowsAffected == 0 {
					item.OK, item.Error = false, "not found"
				} else {
					out.Applied++
				}
				out.Results = append(out.Results, item)
			}
			d.Audit.Record(c, c.GetString("userId"), domain.AuditCategoryVendor, "product.bulk_"+in.Action, "", "")
			return out, nil
		},
	})
}
