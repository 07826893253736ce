package services

import (
	"context"
	"testing"
	"time"

	"github.com/teranga-editions/platform/internal/models"
)

func deliverOrder(t *testing.T, svc *OrderService, orderID uint, actor Actor) {
	t.Helper()
	ctx := context.Background()
	for _, event := range []models.OrderEvent{
		models.OrderEventValidate, models.OrderEventProcess,
		models.OrderEventShip, models.OrderEventDeliver,
	} {
		if _, err := svc.Transition(ctx, orderID, event, actor); err != nil {
			t.Fatalf("%s: %v", event, err)
		}
	}
}

func TestPDGDashboard(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	orders := NewOrderService(db, stock)
	svc := NewDashboardService(db, stock)

	pdg := createUser(t, db, "pdg@test", models.RolePDG)
	client := createUser(t, db, "client@test", models.RoleClient)
	work := createWork(t, db, "MATH-01", 20000, 10)

	delivered := placeOrder(t, db, client.ID, []CheckoutItem{{WorkID: work.ID, Quantity: 2}})
	deliverOrder(t, orders, delivered.ID, Actor{UserID: pdg.ID, Role: models.RolePDG})
	placeOrder(t, db, client.ID, []CheckoutItem{{WorkID: work.ID, Quantity: 1}})

	d, err := svc.PDGDashboard(context.Background())
	if err != nil {
		t.Fatalf("PDGDashboard: %v", err)
	}
	if d.TotalOrders != 2 {
		t.Errorf("total orders = %d, want 2", d.TotalOrders)
	}
	if d.PendingOrders != 1 {
		t.Errorf("pending orders = %d, want 1", d.PendingOrders)
	}
	// Only delivered orders count toward revenue.
	if d.Revenue != 40000 {
		t.Errorf("revenue = %d, want 40000", d.Revenue)
	}
	if len(d.TopWorks) != 1 || d.TopWorks[0].Sold != 2 {
		t.Errorf("top works = %+v, want one entry with 2 sold", d.TopWorks)
	}
	if len(d.ChartData) == 0 {
		t.Error("expected chart data for the current month")
	}
	if len(d.RecentOrders) != 2 {
		t.Errorf("recent orders = %d, want 2", len(d.RecentOrders))
	}
}

func TestStockOverview(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	svc := NewDashboardService(db, stock)
	ctx := context.Background()

	createWork(t, db, "MATH-01", 20000, 0) // out
	createWork(t, db, "MATH-02", 15000, 3) // low (min 5)
	w := createWork(t, db, "MATH-03", 10000, 50)
	if _, _, err := stock.PostMovement(ctx, MovementInput{
		WorkID: w.ID, Type: models.MovementIn, Quantity: 5, PerformedBy: 1,
	}); err != nil {
		t.Fatalf("movement: %v", err)
	}

	o, err := svc.StockOverview(ctx)
	if err != nil {
		t.Fatalf("StockOverview: %v", err)
	}
	if o.Summary.TotalWorks != 3 {
		t.Errorf("total works = %d, want 3", o.Summary.TotalWorks)
	}
	if o.Summary.TotalUnits != 58 {
		t.Errorf("total units = %d, want 58", o.Summary.TotalUnits)
	}
	if o.Summary.OutCount != 1 || o.Summary.LowCount != 1 || o.Summary.AvailableCount != 1 {
		t.Errorf("level counts = %d/%d/%d, want 1/1/1",
			o.Summary.OutCount, o.Summary.LowCount, o.Summary.AvailableCount)
	}
	if len(o.DisciplineStats) != 1 || o.DisciplineStats[0].Units != 58 {
		t.Errorf("discipline stats = %+v", o.DisciplineStats)
	}
	if len(o.RecentMovements) != 1 {
		t.Errorf("recent movements = %d, want 1", len(o.RecentMovements))
	}
}

func TestRepresentantDashboard(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	orders := NewOrderService(db, stock)
	commissions := NewCommissionService(db)
	svc := NewDashboardService(db, stock)

	rep := createUser(t, db, "rep@test", models.RoleRepresentant)
	work := createWork(t, db, "MATH-01", 20000, 10)
	order := placeOrder(t, db, rep.ID, []CheckoutItem{{WorkID: work.ID, Quantity: 2}})
	deliverOrder(t, orders, order.ID, Actor{UserID: rep.ID, Role: models.RolePDG})

	d, err := svc.RepresentantDashboard(context.Background(), rep.ID, commissions)
	if err != nil {
		t.Fatalf("RepresentantDashboard: %v", err)
	}
	if d.TotalOrders != 1 || d.DeliveredOrders != 1 {
		t.Errorf("orders = %d/%d, want 1/1", d.TotalOrders, d.DeliveredOrders)
	}
	if d.Revenue != 40000 {
		t.Errorf("revenue = %d, want 40000", d.Revenue)
	}
	// 10% of 40000, accrued at validation.
	if d.Commissions.PendingAmount != 4000 {
		t.Errorf("pending commissions = %d, want 4000", d.Commissions.PendingAmount)
	}
}

func TestBeneficiaryDashboard(t *testing.T) {
	db := setupTestDB(t)
	stock := NewStockService(db)
	orders := NewOrderService(db, stock)
	royalties := NewRoyaltyService(db)
	svc := NewDashboardService(db, stock)

	pdg := createUser(t, db, "pdg@test", models.RolePDG)
	author := createUser(t, db, "auteur@test", models.RoleAuteur)
	client := createUser(t, db, "client@test", models.RoleClient)
	work := createWork(t, db, "MATH-01", 20000, 10)
	if err := db.Model(work).Update("author_id", author.ID).Error; err != nil {
		t.Fatalf("set author: %v", err)
	}

	order := placeOrder(t, db, client.ID, []CheckoutItem{{WorkID: work.ID, Quantity: 3}})
	deliverOrder(t, orders, order.ID, Actor{UserID: pdg.ID, Role: models.RolePDG})

	d, err := svc.BeneficiaryDashboard(context.Background(), author.ID, royalties)
	if err != nil {
		t.Fatalf("BeneficiaryDashboard: %v", err)
	}
	if len(d.Works) != 1 {
		t.Errorf("works = %d, want 1", len(d.Works))
	}
	if d.UnitsSold != 3 {
		t.Errorf("units sold = %d, want 3", d.UnitsSold)
	}
	// 15% of 60000
	if d.Royalties.PendingAmount != 9000 {
		t.Errorf("pending royalties = %d, want 9000", d.Royalties.PendingAmount)
	}
	if len(d.RecentRoyalties) != 1 {
		t.Errorf("recent royalties = %d, want 1", len(d.RecentRoyalties))
	}
}

func TestBucketByMonth(t *testing.T) {
	now := time.Now()
	orders := []models.Order{
		{TotalAmount: 1000},
		{TotalAmount: 2000},
	}
	orders[0].CreatedAt = now
	orders[1].CreatedAt = now

	buckets := bucketByMonth(orders, 6)
	if len(buckets) != 1 {
		t.Fatalf("buckets = %d, want 1", len(buckets))
	}
	if buckets[0].Orders != 2 || buckets[0].Amount != 3000 {
		t.Errorf("bucket = %+v, want 2 orders / 3000", buckets[0])
	}

	// Orders older than the window are excluded.
	old := models.Order{TotalAmount: 500}
	old.CreatedAt = now.AddDate(0, -12, 0)
	buckets = bucketByMonth(append(orders, old), 6)
	if len(buckets) != 1 {
		t.Errorf("old order should be excluded, got %d buckets", len(buckets))
	}
}
