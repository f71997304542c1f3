package ez

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	resp "marketplace-console/internal/transport/http/response"
)

// Page 所有列表接口共用的分页入参。
// page 固定从 1 起算，offset 只由本次绑定的 page 推出，绝不依赖上一次请求。
type Page struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

func (p *Page) Clamp() int {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 20
	}
	return (p.Page - 1) * p.Limit
}

// List 列表接口的一行注册：F 过滤入参，T 行类型。
// 约 30 个面板共用的 取数/过滤/分页 三件套收敛在这里，
// 各实体只声明端点、items 字段名和过滤 scope。
type List[F any, T any] struct {
	Path  string
	Key   string // 响应里 items 的字段名："logs"/"payouts"/"disputes"…
	Model any    // 计数与查询的模型
	Order string // 为空则 created_at DESC（保证翻页追加不乱序）

	// Scope 应用过滤条件；空值过滤键等同于未设置，由各 scope 自行跳过
	Scope func(c *gin.Context, q *gorm.DB, f *F) *gorm.DB

	// Extra 可选的 stats/summary 块，随列表一起返回
	Extra func(c *gin.Context, tx *gorm.DB, f *F) (gin.H, error)
}

func RegisterList[F any, T any](e EZ, db *gorm.DB, s List[F, T]) {
	e.g.GET(s.Path, func(c *gin.Context) {
		var f F
		if err := c.ShouldBindQuery(&f); err != nil {
			resp.Err(c, http.StatusBadRequest, err.Error())
			return
		}
		var pg Page
		if err := c.ShouldBindQuery(&pg); err != nil {
			resp.Err(c, http.StatusBadRequest, err.Error())
			return
		}
		offset := pg.Clamp()

		tx := db.WithContext(c)
		q := tx.Model(s.Model)
		if s.Scope != nil {
			q = s.Scope(c, q, &f)
			// scope 里校验失败可以直接 Abort 写 400
			if c.IsAborted() {
				return
			}
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			resp.Err(c, http.StatusInternalServerError, "count "+s.Key+" failed")
			return
		}

		order := s.Order
		if order == "" {
			order = "created_at DESC"
		}

		var items []T
		if err := q.Order(order).Limit(pg.Limit).Offset(offset).Find(&items).Error; err != nil {
			resp.Err(c, http.StatusInternalServerError, "list "+s.Key+" failed")
			return
		}
		if items == nil {
			items = []T{}
		}

		// has_more 从 total 推导，不允许猜测
		hasMore := int64(offset+len(items)) < total

		extra := gin.H{}
		if s.Extra != nil {
			ex, err := s.Extra(c, tx, &f)
			if err != nil {
				resp.Err(c, http.StatusInternalServerError, "load "+s.Key+" summary failed")
				return
			}
			extra = ex
		}
		resp.List(c, s.Key, items, total, hasMore, extra)
	})
}
