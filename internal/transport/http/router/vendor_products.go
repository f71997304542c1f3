package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"marketplace-console/internal/domain"
	httpez "marketplace-console/internal/transport/http/ez"
	"marketplace-console/pkg/utils"
)

func init() { RegisterVendor(10, mountVendorProducts) }

// mountVendorProducts 商家商品：本店范围内的列表与增改
func mountVendorProducts(g *gin.RouterGroup, d *Deps) {
	ez := httpez.New(g)

	type productFilter struct {
		Q      string `form:"q"`
		Status string `form:"status"`
	}
	httpez.RegisterList[productFilter, domain.Product](ez, d.DB, httpez.List[productFilter, domain.Product]{
		Path:  "/products",
		Key:   "products",
		Model: &domain.Product{},
		Scope: func(c *gin.Context, q *gorm.DB, f *productFilter) *gorm.DB {
			q = q.Where("vendor_id = ?", c.GetString("vendorId"))
			if f.Q != "" {
				q = q.Where("title LIKE ?", "%"+f.Q+"%")
			}
			if f.Status != "" {
				q = q.Where("status = ?", f.Status)
			}
			return q
		},
	})

	type createIn struct {
		Title      string `json:"title" binding:"required,max=191"`
		PriceCents int64  `json:"price_cents" binding:"required,min=1"`
		Stock      int    `json:"stock" binding:"min=0"`
	}
	httpez.RegisterAction[createIn, domain.Product](ez, d.DB, httpez.Action[createIn, domain.Product]{
		Method: http.MethodPost,
		Path:   "/products",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *createIn) (domain.Product, error) {
			vid := c.GetString("vendorId")
			if vid == "" {
				return domain.Product{}, httpez.Forbidden("no vendor profile")
			}
			p := domain.Product{
				ID:         utils.NewID(),
				VendorID:   vid,
				Title:      in.Title,
				PriceCents: in.PriceCents,
				Stock:      in.Stock,
				Status:     domain.ProductDraft,
			}
			if err := tx.Create(&p).Error; err != nil {
				return p, httpez.Internal("create product failed", err)
			}
			return p, nil
		},
	})

	type patchIn struct {
		Title      *string `json:"title"`
		PriceCents *int64  `json:"price_cents"`
		Stock      *int    `json:"stock"`
		Status     *string `json:"status"`
	}
	httpez.RegisterAction[patchIn, domain.Product](ez, d.DB, httpez.Action[patchIn, domain.Product]{
		Method: http.MethodPatch,
		Path:   "/products/:id",
		Binder: httpez.BindJSON,
		UseTx:  true,
		Handler: func(c *gin.Context, tx *gorm.DB, in *patchIn) (domain.Product, error) {
			var p domain.Product
			err := tx.Where("id = ? AND vendor_id = ?", c.Param("id"), c.GetString("vendorId")).First(&p).Error
			if err != nil {
				return p, httpez.NotFound("product not found")
			}
			updates := map[string]any{}
			if in.Title != nil {
				updates["title"] = *in.Title
			}
			if in.PriceCents != nil {
				if *in.PriceCents < 1 {
					return p, httpez.BadRequest("price must be positive")
				}
				updates["price_cents"] = *in.PriceCents
			}
			if in.Stock != nil {
				if *in.Stock < 0 {
					return p, httpez.BadRequest("stock cannot be negative")
				}
				updates["stock"] = *in.Stock
			}
			if in.Status != nil {
				switch *in.Status {
				case domain.ProductDraft, domain.ProductActive, domain.ProductDelisted:
					updates["status"] = *in.Status
				default:
					return p, httpez.BadRequest("invalid status")
				}
			}
			if len(updates) == 0 {
				return p, httpez.BadRequest("nothing to update")
			}
			if err := tx.Model(&p).Updates(updates).Error; err != nil {
				return p, httpez.Internal("update product failed", err)
			}
			return p, nil
		},
	})
}
