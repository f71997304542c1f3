package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marketplace-console/internal/domain"
	httpez "marketplace-console/internal/transport/http/ez"
	"marketplace-console/pkg/utils"
)

func init() { RegisterOwner(40, mountAdminFlags) }

// mountAdminFlags 功能开关：开/关/灰度百分比
func mountAdminFlags(g *gin.RouterGroup, d *Deps) {
	ez := httpez.New(g)

	type flagFilter struct {
		Q       string `form:"q"`
		Enabled *bool  `form:"enabled"`
	}
	httpez.RegisterList[flagFilter, domain.FeatureFlag](ez, d.DB, httpez.List[flagFilter, domain.FeatureFlag]{
		Path:  "/feature-flags",
		Key:   "flags",
		Model: &domain.FeatureFlag{},
		Order: "flag_key ASC",
		Scope: func(c *gin.Context, q *gorm.DB, f *flagFilter) *gorm.DB {
			if f.Q != "" {
				q = q.Where("flag_key LIKE ?", "%"+f.Q+"%")
			}
			if f.Enabled != nil {
				q = q.Where("enabled = ?", *f.Enabled)
			}
			return q
		},
	})

	type createIn struct {
		Key         string `json:"key" binding:"required,max=64"`
		Description string `json:"description" binding:"max=255"`
		Enabled     bool   `json:"enabled"`
		Rollout     int    `json:"rollout" binding:"min=0,max=100"`
	}
	httpez.RegisterAction[createIn, domain.FeatureFlag](ez, d.DB, httpez.Action[createIn, domain.FeatureFlag]{
		Method: http.MethodPost,
		Path:   "/feature-flags",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *createIn) (domain.FeatureFlag, error) {
			key := strings.TrimSpace(in.Key)
			if key == "" {
				return domain.FeatureFlag{}, httpez.BadRequest("flag key is required")
			}
			var exists int64
			tx.Model(&domain.FeatureFlag{}).Where("flag_key = ?", key).Count(&exists)
			if exists > 0 {
				return domain.FeatureFlag{}, httpez.Conflict("flag key already exists")
			}
			fl := domain.FeatureFlag{
				ID:          utils.NewID(),
				Key:         key,
				Description: in.Description,
				Enabled:     in.Enabled,
				Rollout:     in.Rollout,
				UpdatedBy:   c.GetString("userId"),
			}
			if err := tx.Create(&fl).Error; err != nil {
				return fl, httpez.Internal("create flag failed", err)
			}
			d.Audit.Record(c, fl.UpdatedBy, domain.AuditCategoryFlag, "flag.created", fl.ID, key)
			return fl, nil
		},
	})

	type patchIn struct {
		Description *string `json:"description"`
		Enabled     *bool   `json:"enabled"`
		Rollout     *int    `json:"rollout"`
	}
	httpez.RegisterAction[patchIn, domain.FeatureFlag](ez, d.DB, httpez.Action[patchIn, domain.FeatureFlag]{
		Method: http.MethodPatch,
		Path:   "/feature-flags/:id",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *patchIn) (domain.FeatureFlag, error) {
			var fl domain.FeatureFlag
			if err := tx.Where("id = ?", c.Param("id")).First(&fl).Error; err != nil {
				return fl, httpez.NotFound("flag not found")
			}
			updates := map[string]any{}
			if in.Description != nil {
				updates["description"] = *in.Description
			}
			if in.Enabled != nil {
				updates["enabled"] = *in.Enabled
			}
			if in.Rollout != nil {
				if *in.Rollout < 0 || *in.Rollout > 100 {
					return fl, httpez.BadRequest("rollout must be 0~100")
				}
				updates["rollout"] = *in.Rollout
			}
			if len(updates) == 0 {
				return fl, httpez.BadRequest("nothing to update")
			}
			updates["updated_by"] = c.GetString("userId")
			if err := tx.Model(&fl).Updates(updates).Error; err != nil {
				return fl, httpez.Internal("update flag failed", err)
			}
			d.Audit.Record(c, c.GetString("userId"), domain.AuditCategoryFlag, "flag.updated", fl.ID, fl.Key)
			return fl, nil
		},
	})

	type empty struct{}
	httpez.RegisterAction[empty, domain.FeatureFlag](ez, d.DB, httpez.Action[empty, domain.FeatureFlag]{
		Method: http.MethodPost,
		Path:   "/feature-flags/:id/toggle",
		Binder: httpez.BindNone,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, _ *empty) (domain.FeatureFlag, error) {
			var fl domain.FeatureFlag
			if err := tx.Where("id = ?", c.Param("id")).First(&fl).Error; err != nil {
				return fl, httpez.NotFound("flag not found")
			}
			actor := c.GetString("userId")
			fl.Enabled = !fl.Enabled
			fl.UpdatedBy = actor
			if err := tx.Model(&fl).Updates(map[string]any{
				"enabled": fl.Enabled, "updated_by": actor,
			}).Error; err != nil {
				return fl, httpez.Internal("toggle flag failed", err)
			}
			event := "flag.disabled"
			if fl.Enabled {
				event = "flag.enabled"
			}
			d.Audit.Record(c, actor, domain.AuditCategoryFlag, event, fl.ID, fl.Key)
			d.Audit.Feed(c, actor, "feature_flag", event+" "+fl.Key)
			return fl, nil
		},
	})
}
