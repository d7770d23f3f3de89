package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SumQuery selects the transactions summed by the store. From and To are inclusive.
type SumQuery struct {
	Type     TransactionType
	Category string
	From     *time.Time
	To       *time.Time
}

type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

type MonthTypeTotal struct {
	Month time.Time
	Type  TransactionType
	Total decimal.Decimal
}

type DayTotal struct {
	Day      time.Time
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

type Summary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
	Period   string          `json:"period"`
}

type DashboardSummary struct {
	Summary            Summary       `json:"summary"`
	RecentTransactions []Transaction `json:"recentTransactions"`
}

type CategorySlice struct {
	Category   string           `json:"category"`
	Amount     decimal.Decimal  `json:"amount"`
	Color      string           `json:"color"`
	Icon       string           `json:"icon"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

type CategoryBreakdown struct {
	ChartData []CategorySlice `json:"chartData"`
	Period    string          `json:"period"`
	Total     decimal.Decimal `json:"total"`
	IsEmpty   bool            `json:"isEmpty"`
}

type MonthlyTrend struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

type BalancePoint struct {
	Date     string          `json:"date"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

type CumulativeBalance struct {
	ChartData      []BalancePoint  `json:"chartData"`
	Period         string          `json:"period"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)
