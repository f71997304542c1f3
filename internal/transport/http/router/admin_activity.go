package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marketplace-console/internal/domain"
	httpez "marketplace-console/internal/transport/http/ez"
)

func init() { RegisterOwner(55, mountAdminActivity) }

// mountAdminActivity 仪表盘动态流（轻量，只读）
func mountAdminActivity(g *gin.RouterGroup, d *Deps) {
	ez := httpez.New(g)

	type activityFilter struct {
		Kind    string `form:"kind"`
		ActorID string `form:"actor_id"`
	}
	httpez.RegisterList[activityFilter, domain.Activity](ez, d.DB, httpez.List[activityFilter, domain.Activity]{
		Path:  "/activity-feed",
		Key:   "activity",
		Model: &domain.Activity{},
		Scope: func(c *gin.Context, q *gorm.DB, f *activityFilter) *gorm.DB {
			if f.Kind != "" {
				q = q.Where("kind = ?", f.Kind)
			}
			if f.ActorID != "" {
				q = q.Where("actor_id = ?", f.ActorID)
			}
			return q
		},
	})
}
