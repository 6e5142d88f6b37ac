package domain

import "github.com/shopspring/decimal"

type DailyRevenue struct {
	Date         string          `json:"date"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalOrders  int             `json:"totalOrders"`
}

type WeeklyRevenue struct {
	WeekStart    string          `json:"weekStart"`
	WeekEnd      string          `json:"weekEnd"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalOrders  int             `json:"totalOrders"`
}

type MonthRevenue struct {
	Month        int             `json:"month"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalOrders  int             `json:"totalOrders"`
}

type MonthlyRevenue struct {
	Year           int            `json:"year"`
	MonthlyRevenue []MonthRevenue `json:"monthlyRevenue"`
}

type YearRevenue struct {
	Year         int             `json:"_id"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalOrders  int             `json:"totalOrders"`
}

type YearlyRevenue struct {
	YearlyRevenue []YearRevenue `json:"yearlyRevenue"`
}

type RangeRevenue struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalOrders  int             `json:"totalOrders"`
}

type BestProduct struct {
	Name          string          `json:"name"`
	Image         string          `json:"image,omitempty"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalOrders   int             `json:"totalOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

type MonthlyReport struct {
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	BestProduct  *BestProduct    `json:"bestProduct"`
}

type Counts struct {
	Products int `json:"products"`
	Orders   int `json:"orders"`
	Users    int `json:"users"`
	Messages int `json:"messages"`
}
