package services

import (
	"context"
	"sort"
	"time"

	"github.com/teranga-editions/platform/internal/models"
	"gorm.io/gorm"
)

// DashboardService assembles the per-role read models. Everything here is
// read-only and safely retryable.
type DashboardService struct {
	db    *gorm.DB
	stock *StockService
}

func NewDashboardService(db *gorm.DB, stock *StockService) *DashboardService {
	return &DashboardService{db: db, stock: stock}
}

// MonthlyBucket is one point of a dashboard chart.
type MonthlyBucket struct {
	Month  string `json:"month"` // "2026-01"
	Orders int64  `json:"orders"`
	Amount int64  `json:"amount"`
}

// bucketByMonth groups orders of the last n months, oldest first.
func bucketByMonth(orders []models.Order, n int) []MonthlyBucket {
	byMonth := make(map[string]*MonthlyBucket)
	cutoff := time.Now().AddDate(0, -n, 0)
	for _, o := range orders {
		if o.CreatedAt.Before(cutoff) {
			continue
		}
		key := o.CreatedAt.Format("2006-01")
		b, ok := byMonth[key]
		if !ok {
			b = &MonthlyBucket{Month: key}
			byMonth[key] = b
		}
		b.Orders++
		b.Amount += o.TotalAmount
	}
	buckets := make([]MonthlyBucket, 0, len(byMonth))
	for _, b := range byMonth {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Month < buckets[j].Month })
	return buckets
}

// TopWork ranks a work by units sold on delivered orders.
type TopWork struct {
	WorkID uint   `json:"work_id"`
	Title  string `json:"title"`
	Sold   int64  `json:"sold"`
}

func (s *DashboardService) topWorksSold(ctx context.Context, representantID uint, limit int) ([]TopWork, error) {
	q := s.db.WithContext(ctx).Table("order_items").
		Select("order_items.work_id AS work_id, works.title AS title, SUM(order_items.quantity) AS sold").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN works ON works.id = order_items.work_id").
		Where("orders.status = ?", models.OrderStatusDelivered).
		Group("order_items.work_id, works.title").
		Order("sold DESC").
		Limit(limit)
	if representantID != 0 {
		q = q.Where("orders.representant_id = ?", representantID)
	}
	var top []TopWork
	err := q.Scan(&top).Error
	return top, err
}

// TopPartner ranks a partner by delivered order volume.
type TopPartner struct {
	PartnerID uint   `json:"partner_id"`
	Name      string `json:"name"`
	Amount    int64  `json:"amount"`
}

// PDGDashboard is the CEO overview payload.
type PDGDashboard struct {
	TotalWorks    int64           `json:"total_works"`
	TotalOrders   int64           `json:"total_orders"`
	PendingOrders int64           `json:"pending_orders"`
	TotalUsers    int64           `json:"total_users"`
	Revenue       int64           `json:"revenue"`
	ChartData     []MonthlyBucket `json:"chart_data"`
	TopWorks      []TopWork       `json:"top_works"`
	TopPartners   []TopPartner    `json:"top_partners"`
	RecentOrders  []models.Order  `json:"recent_orders"`
}

func (s *DashboardService) PDGDashboard(ctx context.Context) (*PDGDashboard, error) {
	d := &PDGDashboard{}
	db := s.db.WithContext(ctx)

	db.Model(&models.Work{}).Count(&d.TotalWorks)
	db.Model(&models.Order{}).Count(&d.TotalOrders)
	db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&d.PendingOrders)
	db.Model(&models.User{}).Count(&d.TotalUsers)
	db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusDelivered).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&d.Revenue)

	var orders []models.Order
	if err := db.Where("created_at >= ?", time.Now().AddDate(0, -6, 0)).Find(&orders).Error; err != nil {
		return nil, err
	}
	d.ChartData = bucketByMonth(orders, 6)

	top, err := s.topWorksSold(ctx, 0, 5)
	if err != nil {
		return nil, err
	}
	d.TopWorks = top

	if err := db.Table("orders").
		Select("orders.partner_id AS partner_id, partners.name AS name, COALESCE(SUM(orders.total_amount), 0) AS amount").
		Joins("JOIN partners ON partners.id = orders.partner_id").
		Where("orders.status = ? AND orders.partner_id IS NOT NULL", models.OrderStatusDelivered).
		Group("orders.partner_id, partners.name").
		Order("amount DESC").
		Limit(5).
		Scan(&d.TopPartners).Error; err != nil {
		return nil, err
	}

	if err := db.Preload("Items").Order("created_at DESC").Limit(5).Find(&d.RecentOrders).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// StockSummary aggregates stock levels for the PDG stock screen.
type StockSummary struct {
	TotalWorks     int64 `json:"total_works"`
	TotalUnits     int64 `json:"total_units"`
	OutCount       int64 `json:"out_count"`
	LowCount       int64 `json:"low_count"`
	AvailableCount int64 `json:"available_count"`
}

// DisciplineStock aggregates stock per discipline.
type DisciplineStock struct {
	DisciplineID uint   `json:"discipline_id"`
	Name         string `json:"name"`
	Works        int64  `json:"works"`
	Units        int64  `json:"units"`
}

// WorkWithStatus decorates a work with its computed stock level.
type WorkWithStatus struct {
	models.Work
	StockStatus models.StockLevel `json:"stock_status"`
}

// StockOverview is the PDG stock screen payload.
type StockOverview struct {
	Works           []WorkWithStatus       `json:"works"`
	Summary         StockSummary           `json:"summary"`
	DisciplineStats []DisciplineStock      `json:"discipline_stats"`
	TopWorksByStock []models.Work          `json:"top_works_by_stock"`
	RecentMovements []models.StockMovement `json:"recent_movements"`
}

func (s *DashboardService) StockOverview(ctx context.Context) (*StockOverview, error) {
	db := s.db.WithContext(ctx)
	o := &StockOverview{}

	var works []models.Work
	if err := db.Preload("Discipline").Order("title").Find(&works).Error; err != nil {
		return nil, err
	}
	o.Works = make([]WorkWithStatus, 0, len(works))
	for _, w := range works {
		status := w.StockStatus()
		o.Works = append(o.Works, WorkWithStatus{Work: w, StockStatus: status})
		o.Summary.TotalWorks++
		o.Summary.TotalUnits += int64(w.Stock)
		switch status {
		case models.StockLevelOut:
			o.Summary.OutCount++
		case models.StockLevelLow:
			o.Summary.LowCount++
		default:
			o.Summary.AvailableCount++
		}
	}

	if err := db.Table("works").
		Select("works.discipline_id AS discipline_id, disciplines.name AS name, COUNT(*) AS works, COALESCE(SUM(works.stock), 0) AS units").
		Joins("JOIN disciplines ON disciplines.id = works.discipline_id").
		Where("works.deleted_at IS NULL").
		Group("works.discipline_id, disciplines.name").
		Order("units DESC").
		Scan(&o.DisciplineStats).Error; err != nil {
		return nil, err
	}

	if err := db.Order("stock DESC").Limit(5).Find(&o.TopWorksByStock).Error; err != nil {
		return nil, err
	}

	movements, err := s.stock.RecentMovements(ctx, 10)
	if err != nil {
		return nil, err
	}
	o.RecentMovements = movements
	return o, nil
}

// RepresentantDashboard is the sales representative overview.
type RepresentantDashboard struct {
	TotalOrders     int64             `json:"total_orders"`
	PendingOrders   int64             `json:"pending_orders"`
	DeliveredOrders int64             `json:"delivered_orders"`
	Revenue         int64             `json:"revenue"`
	Commissions     CommissionSummary `json:"commissions"`
	RecentOrders    []models.Order    `json:"recent_orders"`
	ChartData       []MonthlyBucket   `json:"chart_data"`
	TopWorks        []TopWork         `json:"top_works"`
}

func (s *DashboardService) RepresentantDashboard(ctx context.Context, userID uint, commissions *CommissionService) (*RepresentantDashboard, error) {
	db := s.db.WithContext(ctx)
	d := &RepresentantDashboard{}

	scope := db.Model(&models.Order{}).Where("representant_id = ?", userID)
	scope.Count(&d.TotalOrders)
	db.Model(&models.Order{}).Where("representant_id = ? AND status = ?", userID, models.OrderStatusPending).Count(&d.PendingOrders)
	db.Model(&models.Order{}).Where("representant_id = ? AND status = ?", userID, models.OrderStatusDelivered).Count(&d.DeliveredOrders)
	db.Model(&models.Order{}).
		Where("representant_id = ? AND status = ?", userID, models.OrderStatusDelivered).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&d.Revenue)

	summary, err := commissions.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	d.Commissions = summary

	if err := db.Preload("Items").
		Where("representant_id = ?", userID).
		Order("created_at DESC").Limit(5).
		Find(&d.RecentOrders).Error; err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := db.Where("representant_id = ? AND created_at >= ?", userID, time.Now().AddDate(0, -6, 0)).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	d.ChartData = bucketByMonth(orders, 6)

	top, err := s.topWorksSold(ctx, userID, 5)
	if err != nil {
		return nil, err
	}
	d.TopWorks = top
	return d, nil
}

// PartnerDashboard is the partner organization overview.
type PartnerDashboard struct {
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	DeliveredOrders int64           `json:"delivered_orders"`
	TotalSpent      int64           `json:"total_spent"`
	RecentOrders    []models.Order  `json:"recent_orders"`
	ChartData       []MonthlyBucket `json:"chart_data"`
}

func (s *DashboardService) PartnerDashboard(ctx context.Context, userID uint) (*PartnerDashboard, error) {
	db := s.db.WithContext(ctx)
	d := &PartnerDashboard{}

	db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&d.TotalOrders)
	db.Model(&models.Order{}).Where("user_id = ? AND status = ?", userID, models.OrderStatusPending).Count(&d.PendingOrders)
	db.Model(&models.Order{}).Where("user_id = ? AND status = ?", userID, models.OrderStatusDelivered).Count(&d.DeliveredOrders)
	db.Model(&models.Order{}).
		Where("user_id = ? AND status = ?", userID, models.OrderStatusDelivered).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&d.TotalSpent)

	if err := db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").Limit(5).
		Find(&d.RecentOrders).Error; err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := db.Where("user_id = ? AND created_at >= ?", userID, time.Now().AddDate(0, -6, 0)).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	d.ChartData = bucketByMonth(orders, 6)
	return d, nil
}

// BeneficiaryDashboard is the author/concepteur overview: their works and
// the state of their royalties.
type BeneficiaryDashboard struct {
	Works           []models.Work    `json:"works"`
	UnitsSold       int64            `json:"units_sold"`
	Royalties       RoyaltySummary   `json:"royalties"`
	RecentRoyalties []models.Royalty `json:"recent_royalties"`
}

func (s *DashboardService) BeneficiaryDashboard(ctx context.Context, userID uint, royalties *RoyaltyService) (*BeneficiaryDashboard, error) {
	db := s.db.WithContext(ctx)
	d := &BeneficiaryDashboard{}

	if err := db.Where("author_id = ? OR concepteur_id = ?", userID, userID).
		Order("title").Find(&d.Works).Error; err != nil {
		return nil, err
	}

	db.Table("order_items").
		Select("COALESCE(SUM(order_items.quantity), 0)").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN works ON works.id = order_items.work_id").
		Where("orders.status = ? AND (works.author_id = ? OR works.concepteur_id = ?)",
			models.OrderStatusDelivered, userID, userID).
		Scan(&d.UnitsSold)

	summary, err := royalties.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	d.Royalties = summary

	if err := db.Preload("Work").
		Where("beneficiary_id = ?", userID).
		Order("created_at DESC").Limit(10).
		Find(&d.RecentRoyalties).Error; err != nil {
		return nil, err
	}
	return d, nil
}
