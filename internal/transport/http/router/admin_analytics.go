package router

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace-console/internal/core/cache"
	"marketplace-console/internal/domain"
)

func init() { RegisterOwner(70, mountAdminAnalytics) }

// mountAdminAnalytics 运营数据：快照（可给旧数据）、转化漏斗、商家对比
func mountAdminAnalytics(g *gin.RouterGroup, d *Deps) {
	// 快照走内存缓存：过期后先回旧值再后台刷新，
	// stale 标记让面板能提示"数据可能滞后"
	g.GET("/analytics", func(c *gin.Context) {
		snap, stale, err := d.Analytics.Snapshot(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load analytics failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"snapshot":     snap,
			"stale":        stale,
			"generated_at": snap.GeneratedAt,
		})
	})

	g.GET("/analytics/conversion", func(c *gin.Context) {
		points, err := d.Analytics.Conversion(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load conversion failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"funnel": points})
	})

	// 对比榜计算涉及 join，短 TTL 落 redis
	routeTTL := time.Duration(d.Cfg.Cache.RouteTTLSec) * time.Second
	g.GET("/analytics/benchmarks", func(c *gin.Context) {
		limit := 20
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 100 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be 1~100"})
				return
			}
			limit = n
		}
		key := "route:benchmarks:" + strconv.Itoa(limit)
		rows, err := cache.GetOrLoadJSON[[]domain.BenchmarkRow](d.Cache, c, key, routeTTL,
			func(ctx context.Context) (*[]domain.BenchmarkRow, error) {
				r, err := d.Analytics.Benchmarks(ctx, limit)
				if err != nil {
					return nil, err
				}
				return &r, nil
			})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load benchmarks failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"benchmarks": rows})
	})
}
