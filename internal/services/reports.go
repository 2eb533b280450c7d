package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
)

// ReportService computes the read-only summaries. Each report fetches the
// relevant rows and reduces them in Go with decimal arithmetic.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService { return &ReportService{DB: db} }

type Dashboard struct {
	OrdersToday    int64           `json:"orders_today"`
	ActiveOrders   int64           `json:"active_orders"`
	RevenueToday   decimal.Decimal `json:"revenue_today"`
	ActiveProducts int64           `json:"active_products"`
	RecentOrders   []models.Order  `json:"recent_orders"`
}

type DailySummary struct {
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
	Balance  decimal.Decimal `json:"balance"`
}

// DRE is the simplified income statement over a trailing window.
type DRE struct {
	Days              int             `json:"days"`
	Revenue           decimal.Decimal `json:"revenue"`
	CostOfGoods       decimal.Decimal `json:"cost_of_goods"`
	OperatingExpenses decimal.Decimal `json:"operating_expenses"`
	NetProfit         decimal.Decimal `json:"net_profit"`
}

type BalanceSheet struct {
	Assets struct {
		Cash      decimal.Decimal `json:"cash"`
		Inventory decimal.Decimal `json:"inventory"`
		Equipment decimal.Decimal `json:"equipment"`
		Total     decimal.Decimal `json:"total"`
	} `json:"assets"`
	Liabilities struct {
		Suppliers decimal.Decimal `json:"suppliers"`
		Loans     decimal.Decimal `json:"loans"`
		Total     decimal.Decimal `json:"total"`
	} `json:"liabilities"`
	Equity decimal.Decimal `json:"equity"`
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *ReportService) Dashboard() (*Dashboard, error) {
	today := startOfDay(time.Now())
	out := &Dashboard{RevenueToday: decimal.Zero}

	if err := s.DB.Model(&models.Order{}).Where("created_at >= ?", today).Count(&out.OrdersToday).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Order{}).
		Where("status IN ?", []string{models.OrderStatusOpen, models.OrderStatusPreparing}).
		Count(&out.ActiveOrders).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Product{}).Where("active = ?", true).Count(&out.ActiveProducts).Error; err != nil {
		return nil, err
	}

	var todays []models.Order
	if err := s.DB.Where("created_at >= ?", today).Find(&todays).Error; err != nil {
		return nil, err
	}
	for _, o := range todays {
		out.RevenueToday = out.RevenueToday.Add(o.Total)
	}

	if err := s.DB.Preload("Items").Preload("Items.Product").
		Order("created_at desc, id desc").Limit(5).Find(&out.RecentOrders).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Daily reduces today's cash movements. Balance is the open box's starting
// amount, zero when the register is closed.
func (s *ReportService) Daily() (*DailySummary, error) {
	today := startOfDay(time.Now())
	out := &DailySummary{
		Revenue:  decimal.Zero,
		Expenses: decimal.Zero,
		Balance:  decimal.Zero,
	}

	var movements []models.CashMovement
	if err := s.DB.Where("created_at >= ?", today).Find(&movements).Error; err != nil {
		return nil, err
	}
	for _, m := range movements {
		switch m.Kind {
		case models.MovementIn:
			out.Revenue = out.Revenue.Add(m.Amount)
		case models.MovementOut:
			out.Expenses = out.Expenses.Add(m.Amount)
		}
	}
	out.Profit = out.Revenue.Sub(out.Expenses)

	var box models.CashBox
	err := s.DB.Where("closed_at IS NULL").First(&box).Error
	if err == nil {
		out.Balance = box.StartingAmount
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return out, nil
}

// DRE computes the income statement for the trailing window. Fixed costs are
// treated as the period's operating expenses regardless of frequency.
func (s *ReportService) DRE(days int) (*DRE, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	out := &DRE{
		Days:              days,
		Revenue:           decimal.Zero,
		CostOfGoods:       decimal.Zero,
		OperatingExpenses: decimal.Zero,
	}

	var paid []models.Order
	if err := s.DB.Where("status = ? AND created_at >= ?", models.OrderStatusPaid, since).Find(&paid).Error; err != nil {
		return nil, err
	}
	for _, o := range paid {
		out.Revenue = out.Revenue.Add(o.Total)
	}

	var variable []models.VariableCost
	if err := s.DB.Where("date >= ?", since).Find(&variable).Error; err != nil {
		return nil, err
	}
	for _, c := range variable {
		out.CostOfGoods = out.CostOfGoods.Add(c.Amount)
	}

	var fixed []models.FixedCost
	if err := s.DB.Find(&fixed).Error; err != nil {
		return nil, err
	}
	for _, c := range fixed {
		out.OperatingExpenses = out.OperatingExpenses.Add(c.Amount)
	}

	out.NetProfit = out.Revenue.Sub(out.CostOfGoods).Sub(out.OperatingExpenses)
	return out, nil
}

func (s *ReportService) BalanceSheet() (*BalanceSheet, error) {
	out := &BalanceSheet{}
	out.Assets.Cash = decimal.Zero
	out.Assets.Inventory = decimal.Zero
	out.Liabilities.Suppliers = decimal.Zero

	var box models.CashBox
	err := s.DB.Where("closed_at IS NULL").First(&box).Error
	if err == nil {
		out.Assets.Cash = box.StartingAmount
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var products []models.Product
	if err := s.DB.Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out.Assets.Inventory = out.Assets.Inventory.Add(p.CostPrice.Mul(decimal.NewFromInt(int64(p.Stock))))
	}

	var unpaid []models.FinancialEntry
	if err := s.DB.Where("paid = ?", false).Find(&unpaid).Error; err != nil {
		return nil, err
	}
	for _, e := range unpaid {
		out.Liabilities.Suppliers = out.Liabilities.Suppliers.Add(e.Amount)
	}

	manual, err := getOrCreateBalanceSheetEntry(s.DB)
	if err != nil {
		return nil, err
	}
	out.Assets.Equipment = manual.Equipment
	out.Liabilities.Loans = manual.Loans

	out.Assets.Total = out.Assets.Cash.Add(out.Assets.Inventory).Add(out.Assets.Equipment)
	out.Liabilities.Total = out.Liabilities.Suppliers.Add(out.Liabilities.Loans)
	out.Equity = out.Assets.Total.Sub(out.Liabilities.Total)
	return out, nil
}
