package model

// Earnings summarises completed deliveries for a reporting period.
type Earnings struct {
	Period          string  `json:"period"`
	TotalDeliveries int     `json:"total_deliveries"`
	TotalEarnings   float64 `json:"total_earnings"`
}

// Performance summarises a rider's delivery track record across all orders.
type Performance struct {
	TotalDeliveries int     `json:"total_deliveries"`
	CancelledOrders int     `json:"cancelled_orders"`
	CompletionRate  float64 `json:"completion_rate"`
}
