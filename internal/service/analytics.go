package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"marketplace-console/internal/core/cache"
	"marketplace-console/internal/domain"
)

const snapshotKey = "analytics:dashboard"

// Analytics 仪表盘统计。快照走进程内 TTL 缓存：
// 新鲜直接用；旧值先返回（stale=true）、后台刷新；
// 刷新失败且有旧值时返回旧值而不是报错。
type Analytics struct {
	db   *gorm.DB
	snap *cache.Snapshot[domain.AnalyticsSnapshot]
}

func NewAnalytics(db *gorm.DB, ttl, maxAge time.Duration) *Analytics {
	return &Analytics{
		db:   db,
		snap: cache.NewSnapshot[domain.AnalyticsSnapshot](ttl, maxAge),
	}
}

func (a *Analytics) Snapshot(ctx context.Context) (*domain.AnalyticsSnapshot, bool, error) {
	return a.snap.GetOrLoad(ctx, snapshotKey, a.compute)
}

func (a *Analytics) Invalidate() { a.snap.Invalidate(snapshotKey) }

func (a *Analytics) compute(ctx context.Context) (*domain.AnalyticsSnapshot, error) {
	db := a.db.WithContext(ctx)
	s := &domain.AnalyticsSnapshot{GeneratedAt: time.Now()}

	type count struct{ N int64 }
	cnt := func(q *gorm.DB) (int64, error) {
		var n int64
		err := q.Count(&n).Error
		return n, err
	}

	var err error
	if s.Users.Total, err = cnt(db.Model(&domain.User{})); err != nil {
		return nil, err
	}
	if s.Users.Active, err = cnt(db.Model(&domain.User{}).Where("status = ?", domain.UserActive)); err != nil {
		return nil, err
	}
	if s.Users.Suspended, err = cnt(db.Model(&domain.User{}).Where("status = ?", domain.UserSuspended)); err != nil {
		return nil, err
	}
	if s.Users.Vendors, err = cnt(db.Model(&domain.Vendor{}).Where("status = ?", domain.VendorActive)); err != nil {
		return nil, err
	}

	if s.Orders.Total, err = cnt(db.Model(&domain.Order{})); err != nil {
		return nil, err
	}
	if s.Orders.Completed, err = cnt(db.Model(&domain.Order{}).Where("status = ?", domain.OrderCompleted)); err != nil {
		return nil, err
	}
	if s.Orders.Refunded, err = cnt(db.Model(&domain.Order{}).Where("status = ?", domain.OrderRefunded)); err != nil {
		return nil, err
	}
	if s.Orders.Last24hOrders, err = cnt(db.Model(&domain.Order{}).Where("created_at > ?", time.Now().Add(-24*time.Hour))); err != nil {
		return nil, err
	}
	var rev count
	if err = db.Model(&domain.Order{}).
		Select("COALESCE(SUM(total_cents),0) AS n").
		Where("status IN ?", []string{domain.OrderCompleted, domain.OrderShipped}).
		Scan(&rev).Error; err != nil {
		return nil, err
	}
	s.Orders.RevenueCents = rev.N

	stats, err := PayoutSummary(ctx, a.db)
	if err != nil {
		return nil, err
	}
	s.Payouts = *stats

	if s.Disputes.Open, err = cnt(db.Model(&domain.Dispute{}).Where("status = ?", domain.DisputeOpen)); err != nil {
		return nil, err
	}
	if s.Disputes.UnderReview, err = cnt(db.Model(&domain.Dispute{}).Where("status = ?", domain.DisputeUnderReview)); err != nil {
		return nil, err
	}

	if s.Support.OpenTickets, err = cnt(db.Model(&domain.SupportTicket{}).Where("status = ?", domain.TicketOpen)); err != nil {
		return nil, err
	}
	if s.Support.UnreadTickets, err = cnt(db.Model(&domain.SupportTicket{}).Where("is_read = ?", false)); err != nil {
		return nil, err
	}

	return s, nil
}

// PayoutSummary 结算汇总（列表 stats 块与快照共用）
func PayoutSummary(ctx context.Context, db *gorm.DB) (*domain.PayoutStats, error) {
	type row struct {
		Status string
		Cents  int64
		N      int64
	}
	var rows []row
	err := db.WithContext(ctx).Model(&domain.Payout{}).
		Select("status, COALESCE(SUM(amount_cents),0) AS cents, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := &domain.PayoutStats{}
	for _, r := range rows {
		out.TotalCents += r.Cents
		switch r.Status {
		case domain.PayoutPending:
			out.PendingCents = r.Cents
		case domain.PayoutHeld:
			out.HeldCents = r.Cents
			out.HeldCount = r.N
		}
	}
	return out, nil
}

// Conversion 下单转化漏斗
func (a *Analytics) Conversion(ctx context.Context) ([]domain.ConversionPoint, error) {
	db := a.db.WithContext(ctx)
	stages := []struct {
		name     string
		statuses []string
	}{
		{"ordered", []string{domain.OrderPending, domain.OrderPaid, domain.OrderShipped, domain.OrderCompleted, domain.OrderCancelled, domain.OrderRefunded}},
		{"paid", []string{domain.OrderPaid, domain.OrderShipped, domain.OrderCompleted, domain.OrderRefunded}},
		{"shipped", []string{domain.OrderShipped, domain.OrderCompleted}},
		{"completed", []string{domain.OrderCompleted}},
	}
	out := make([]domain.ConversionPoint, 0, len(stages))
	var prev int64 = -1
	for _, st := range stages {
		var n int64
		if err := db.Model(&domain.Order{}).Where("status IN ?", st.statuses).Count(&n).Error; err != nil {
			return nil, err
		}
		p := domain.ConversionPoint{Stage: st.name, Count: n, Rate: 1}
		if prev > 0 {
			p.Rate = float64(n) / float64(prev)
		}
		out = append(out, p)
		prev = n
	}
	return out, nil
}

// Benchmarks 商家对标（按营收排序的前 N 名）
func (a *Analytics) Benchmarks(ctx context.Context, limit int) ([]domain.BenchmarkRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []domain.BenchmarkRow
	err := a.db.WithContext(ctx).Model(&domain.Vendor{}).
		Select(`vendors.id AS vendor_id,
			vendors.store_name,
			vendors.health_score,
			COALESCE(SUM(CASE WHEN orders.status IN ('completed','shipped') THEN orders.total_cents ELSE 0 END),0) AS revenue_cents,
			COUNT(orders.id) AS order_count,
			CASE WHEN COUNT(orders.id) = 0 THEN 0
			     ELSE CAST(SUM(CASE WHEN orders.status = 'refunded' THEN 1 ELSE 0 END) AS FLOAT) / COUNT(orders.id)
			END AS refund_rate`).
		Joins("LEFT JOIN orders ON orders.vendor_id = vendors.id").
		Group("vendors.id, vendors.store_name, vendors.health_score").
		Order("revenue_cents DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
