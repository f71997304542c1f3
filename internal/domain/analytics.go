package domain

import "time"

// AnalyticsSnapshot 仪表盘共享的统计快照，全部服务端计算
type AnalyticsSnapshot struct {
	GeneratedAt time.Time `json:"generated_at"`

	Users struct {
		Total     int64 `json:"total"`
		Active    int64 `json:"active"`
		Suspended int64 `json:"suspended"`
		Vendors   int64 `json:"vendors"`
	} `json:"users"`

	Orders struct {
		Total         int64 `json:"total"`
		Completed     int64 `json:"completed"`
		Refunded      int64 `json:"refunded"`
		RevenueCents  int64 `json:"revenue_cents"`
		Last24hOrders int64 `json:"last_24h_orders"`
	} `json:"orders"`

	Payouts PayoutStats `json:"payouts"`

	Disputes struct {
		Open        int64 `json:"open"`
		UnderReview int64 `json:"under_review"`
	} `json:"disputes"`

	Support struct {
		OpenTickets   int64 `json:"open_tickets"`
		UnreadTickets int64 `json:"unread_tickets"`
	} `json:"support"`
}

// ConversionPoint 转化漏斗的一档
type ConversionPoint struct {
	Stage string  `json:"stage"`
	Count int64   `json:"count"`
	Rate  float64 `json:"rate"` // 相对上一档
}

// BenchmarkRow 商家对标数据
type BenchmarkRow struct {
	VendorID     string  `json:"vendor_id"`
	StoreName    string  `json:"store_name"`
	RevenueCents int64   `json:"revenue_cents"`
	OrderCount   int64   `json:"order_count"`
	RefundRate   float64 `json:"refund_rate"`
	HealthScore  int     `json:"health_score"`
}
