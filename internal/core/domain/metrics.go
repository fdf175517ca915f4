package domain

// DailyEarning is one point of the seller earnings chart. Date is YYYY-MM-DD.
type DailyEarning struct {
	Date     string `json:"date"`
	Earnings int    `json:"earnings"`
}

// ProductSales is the per-product row of the seller dashboard.
type ProductSales struct {
	Name         string `json:"name"`
	Image        string `json:"image"`
	QuantitySold int    `json:"quantitySold"`
}

// SellerMetrics summarises a seller's catalog.
type SellerMetrics struct {
	TotalProducts     int            `json:"totalProducts"`
	TotalProductsSold int            `json:"totalProductsSold"`
	TotalEarnings     float64        `json:"totalEarnings"`
	SalesList         []ProductSales `json:"salesList"`
	EarningsByDay     []DailyEarning `json:"earningsByDay"`
}
