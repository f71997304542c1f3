package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"marketplace-console/internal/domain"
	httpez "marketplace-console/internal/transport/http/ez"
	"marketplace-console/pkg/utils"
)

func init() { RegisterVendor(50, mountVendorOnboarding) }

// mountVendorOnboarding 新手引导标记：按 (用户, 步骤) 一条布尔记录
func mountVendorOnboarding(g *gin.RouterGroup, d *Deps) {
	ez := httpez.New(g)

	g.GET("/onboarding", func(c *gin.Context) {
		var marks []domain.OnboardingMark
		err := d.DB.WithContext(c).
			Where("user_id = ?", c.GetString("userId")).
			Order("step ASC").Find(&marks).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load onboarding failed"})
			return
		}
		steps := gin.H{}
		for _, m := range marks {
			steps[m.Step] = m.Dismissed
		}
		c.JSON(http.StatusOK, gin.H{"steps": steps})
	})

	type markIn struct {
		Step      string `json:"step" binding:"required,max=64"`
		Dismissed bool   `json:"dismissed"`
	}
	httpez.RegisterAction[markIn, domain.OnboardingMark](ez, d.DB, httpez.Action[markIn, domain.OnboardingMark]{
		Method: http.MethodPut,
		Path:   "/onboarding",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, tx *gorm.DB, in *markIn) (domain.OnboardingMark, error) {
			m := domain.OnboardingMark{
				ID:        utils.NewID(),
				UserID:    c.GetString("userId"),
				Step:      in.Step,
				Dismissed: in.Dismissed,
			}
			// 幂等 upsert：同一步骤重复提交只更新 dismissed
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "step"}},
				DoUpdates: clause.AssignmentColumns([]string{"dismissed", "updated_at"}),
			}).Create(&m).Error
			if err != nil {
				return m, httpez.Internal("save onboarding mark failed", err)
			}
			return m, nil
		},
	})
}
