package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lucaslmp2/EsfihariaMixPDV/internal/models"
)

func TestDailySummaryReducesMovements(t *testing.T) {
	db := setupDB(t)
	boxes := NewCashBoxService(db, nil)
	reports := NewReportService(db)

	boxes.Open(mustDec(t, "100.00"), 1)
	boxes.AddMovement(models.MovementIn, mustDec(t, "80.00"), "vendas", 1)
	boxes.AddMovement(models.MovementOut, mustDec(t, "30.00"), "fornecedor", 1)

	day, err := reports.Daily()
	if err != nil {
		t.Fatal(err)
	}
	decEq(t, day.Revenue, "80.00", "revenue")
	decEq(t, day.Expenses, "30.00", "expenses")
	decEq(t, day.Profit, "50.00", "profit")
	decEq(t, day.Balance, "100.00", "balance")
}

func TestDREWindow(t *testing.T) {
	db := setupDB(t)
	orders := NewOrderService(db, nil)
	boxes := NewCashBoxService(db, nil)
	reports := NewReportService(db)
	p := seedProduct(t, db, "Esfiha", "20.00")

	boxes.Open(mustDec(t, "0.00"), 1)
	o, _ := orders.Create(OrderInput{Type: models.OrderTypeCounter, Items: []OrderItemInput{{ProductID: p.ID, Quantity: 2}}}, 1)
	orders.Pay(o.ID, models.PaymentCash, 1)

	db.Create(&models.FixedCost{Name: "Aluguel", Amount: mustDec(t, "12.00"), Frequency: "Mensal"})
	db.Create(&models.VariableCost{Name: "Farinha", Amount: mustDec(t, "8.00"), Date: time.Now()})
	// Outside the window, must not count.
	db.Create(&models.VariableCost{Name: "Antiga", Amount: mustDec(t, "99.00"), Date: time.Now().AddDate(0, 0, -60)})

	dre, err := reports.DRE(30)
	if err != nil {
		t.Fatal(err)
	}
	decEq(t, dre.Revenue, "40.00", "revenue")
	decEq(t, dre.CostOfGoods, "8.00", "cogs")
	decEq(t, dre.OperatingExpenses, "12.00", "opex")
	decEq(t, dre.NetProfit, "20.00", "net profit")
}

func TestDREDefaultsTo30Days(t *testing.T) {
	db := setupDB(t)
	reports := NewReportService(db)
	dre, err := reports.DRE(0)
	if err != nil {
		t.Fatal(err)
	}
	if dre.Days != 30 {
		t.Fatalf("days = %d, want 30", dre.Days)
	}
}

func TestBalanceSheetEquation(t *testing.T) {
	db := setupDB(t)
	boxes := NewCashBoxService(db, nil)
	reports := NewReportService(db)

	boxes.Open(mustDec(t, "200.00"), 1)
	db.Create(&models.Product{Name: "Esfiha congelada", Price: mustDec(t, "10.00"), CostPrice: mustDec(t, "4.00"), Stock: 25, Active: true})
	db.Create(&models.FinancialEntry{Type: "despesa", Description: "Farinha", Amount: mustDec(t, "150.00"), Paid: false})
	db.Create(&models.FinancialEntry{Type: "despesa", Description: "Paga", Amount: mustDec(t, "999.00"), Paid: true})

	bs, err := reports.BalanceSheet()
	if err != nil {
		t.Fatal(err)
	}
	decEq(t, bs.Assets.Cash, "200.00", "cash")
	decEq(t, bs.Assets.Inventory, "100.00", "inventory")
	decEq(t, bs.Assets.Equipment, "8000", "equipment default")
	decEq(t, bs.Liabilities.Suppliers, "150.00", "suppliers")
	decEq(t, bs.Liabilities.Loans, "3000", "loans default")
	if !bs.Equity.Equal(bs.Assets.Total.Sub(bs.Liabilities.Total)) {
		t.Fatalf("equity %s != assets %s - liabilities %s", bs.Equity, bs.Assets.Total, bs.Liabilities.Total)
	}
}

func TestDashboardCounts(t *testing.T) {
	db := setupDB(t)
	orders := NewOrderService(db, nil)
	reports := NewReportService(db)
	p := seedProduct(t, db, "Esfiha", "10.00")

	orders.Create(OrderInput{Type: models.OrderTypeCounter, Items: []OrderItemInput{{ProductID: p.ID, Quantity: 1}}}, 1)
	o, _ := orders.Create(OrderInput{Type: models.OrderTypeCounter, Items: []OrderItemInput{{ProductID: p.ID, Quantity: 2}}}, 1)
	orders.UpdateStatus(o.ID, models.OrderStatusDelivered)

	dash, err := reports.Dashboard()
	if err != nil {
		t.Fatal(err)
	}
	if dash.OrdersToday != 2 {
		t.Fatalf("orders today = %d", dash.OrdersToday)
	}
	if dash.ActiveOrders != 1 {
		t.Fatalf("active orders = %d", dash.ActiveOrders)
	}
	if dash.ActiveProducts != 1 {
		t.Fatalf("active products = %d", dash.ActiveProducts)
	}
	decEq(t, dash.RevenueToday, "30.00", "revenue today")
	if len(dash.RecentOrders) != 2 {
		t.Fatalf("recent orders = %d", len(dash.RecentOrders))
	}
}

func TestBudgetGoalSingleton(t *testing.T) {
	db := setupDB(t)
	svc := NewFinanceService(db)

	goal, err := svc.Goals()
	if err != nil {
		t.Fatal(err)
	}
	decEq(t, goal.MonthlyRevenue, "15000", "default revenue goal")
	decEq(t, goal.MonthlyExpenses, "8000", "default expense goal")
	decEq(t, goal.ProfitMargin, "0.3", "default margin")

	if _, err := svc.UpdateGoals(mustDec(t, "20000"), mustDec(t, "9000"), mustDec(t, "1.5")); err == nil {
		t.Fatal("margin above 1 accepted")
	}
	updated, err := svc.UpdateGoals(mustDec(t, "20000"), mustDec(t, "9000"), mustDec(t, "0.25"))
	if err != nil {
		t.Fatal(err)
	}
	decEq(t, updated.MonthlyRevenue, "20000", "updated revenue goal")

	var count int64
	db.Model(&models.BudgetGoal{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected singleton row, got %d", count)
	}
	if updated.ID != models.BudgetGoalID {
		t.Fatalf("unexpected id %s", updated.ID)
	}
}

func TestBalanceEntriesSingleton(t *testing.T) {
	db := setupDB(t)
	svc := NewFinanceService(db)

	entry, err := svc.BalanceEntries()
	if err != nil {
		t.Fatal(err)
	}
	decEq(t, entry.Equipment, "8000", "default equipment")
	decEq(t, entry.Loans, "3000", "default loans")

	updated, err := svc.UpdateBalanceEntries(decimal.NewFromInt(12000), decimal.NewFromInt(1000))
	if err != nil {
		t.Fatal(err)
	}
	decEq(t, updated.Equipment, "12000", "updated equipment")

	var count int64
	db.Model(&models.BalanceSheetEntry{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected singleton row, got %d", count)
	}
}
