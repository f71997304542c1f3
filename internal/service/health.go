package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"marketplace-console/internal/domain"
)

// VendorHealth 商家健康分重算。
// 输入刻意保持简单：退款率、纠纷率、结算暂缓次数。
type VendorHealth struct {
	db *gorm.DB
}

func NewVendorHealth(db *gorm.DB) *VendorHealth { return &VendorHealth{db: db} }

// Calculate 重算全部商家并落库，返回处理的商家数
func (h *VendorHealth) Calculate(ctx context.Context) (int, error) {
	var vendors []domain.Vendor
	if err := h.db.WithContext(ctx).Find(&vendors).Error; err != nil {
		return 0, err
	}
	now := time.Now()
	for i := range vendors {
		score, grade, err := h.scoreOne(ctx, vendors[i].ID)
		if err != nil {
			return i, err
		}
		upd := map[string]any{
			"health_score":         score,
			"health_grade":         grade,
			"health_calculated_at": now,
		}
		if err := h.db.WithContext(ctx).Model(&domain.Vendor{}).
			Where("id = ?", vendors[i].ID).Updates(upd).Error; err != nil {
			return i, err
		}
	}
	return len(vendors), nil
}

func (h *VendorHealth) scoreOne(ctx context.Context, vendorID string) (int, string, error) {
	db := h.db.WithContext(ctx)

	var orders, refunds, disputes, holds int64
	if err := db.Model(&domain.Order{}).Where("vendor_id = ?", vendorID).Count(&orders).Error; err != nil {
		return 0, "", err
	}
	if err := db.Model(&domain.Order{}).Where("vendor_id = ? AND status = ?", vendorID, domain.OrderRefunded).Count(&refunds).Error; err != nil {
		return 0, "", err
	}
	if err := db.Model(&domain.Dispute{}).Where("vendor_id = ?", vendorID).Count(&disputes).Error; err != nil {
		return 0, "", err
	}
	if err := db.Model(&domain.Payout{}).Where("vendor_id = ? AND status = ?", vendorID, domain.PayoutHeld).Count(&holds).Error; err != nil {
		return 0, "", err
	}

	score := 100
	if orders > 0 {
		score -= int(40 * float64(refunds) / float64(orders))
		score -= int(40 * float64(disputes) / float64(orders))
	}
	score -= int(holds * 5)
	if score < 0 {
		score = 0
	}

	grade := "D"
	switch {
	case score >= 90:
		grade = "A"
	case score >= 75:
		grade = "B"
	case score >= 50:
		grade = "C"
	}
	return score, grade, nil
}
