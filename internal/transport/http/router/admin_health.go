package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marketplace-console/internal/domain"
)

func init() { RegisterOwner(80, mountAdminHealth) }

// mountAdminHealth 商家健康分：查看单个、全量重算
func mountAdminHealth(g *gin.RouterGroup, d *Deps) {
	g.GET("/vendor-health/:id", func(c *gin.Context) {
		var v domain.Vendor
		if err := d.DB.WithContext(c).Where("id = ?", c.Param("id")).First(&v).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "vendor not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"vendor_id":     v.ID,
			"store_name":    v.StoreName,
			"score":         v.HealthScore,
			"grade":         v.HealthGrade,
			"calculated_at": v.HealthCalculatedAt,
		})
	})

	g.POST("/vendor-health/calculate", func(c *gin.Context) {
		n, err := d.Health.Calculate(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "calculate vendor health failed"})
			return
		}
		actor := c.GetString("userId")
		d.Audit.Record(c, actor, domain.AuditCategoryVendor, "vendor_health.calculated", "", "")
		d.Audit.Feed(c, actor, "vendor", "recalculated vendor health")
		c.JSON(http.StatusOK, gin.H{"calculated": n})
	})
}
