// Package seed generates the deterministic demo dataset. Every generator
// draws from a single seeded PRNG, so a given seed always produces the same
// database.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/angelmondragon/shoplytics-backend/pkg/config"
	"github.com/angelmondragon/shoplytics-backend/pkg/db"
	"github.com/angelmondragon/shoplytics-backend/pkg/db/models"
	"github.com/angelmondragon/shoplytics-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultSeed pins the demo dataset. Changing it changes every generated row.
const DefaultSeed = 20231201

const (
	defaultUsers        = 120
	defaultOrders       = 400
	defaultOrderWindow  = 90
	defaultPlatformDays = 120
	productsPerCategory = 10
	insertBatchSize     = 200
)

// Options controls dataset volume. Zero values fall back to the demo
// defaults.
type Options struct {
	Seed            int64
	Users           int
	Orders          int
	OrderWindowDays int
	PlatformDays    int
	Now             time.Time
}

func (o Options) withDefaults() Options {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Users <= 0 {
		o.Users = defaultUsers
	}
	if o.Orders <= 0 {
		o.Orders = defaultOrders
	}
	if o.OrderWindowDays <= 0 {
		o.OrderWindowDays = defaultOrderWindow
	}
	if o.PlatformDays <= 0 {
		o.PlatformDays = defaultPlatformDays
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// FromConfig maps the seed section of the service config onto Options.
func FromConfig(cfg config.SeedConfig) Options {
	return Options{
		Users:           cfg.Users,
		Orders:          cfg.Orders,
		OrderWindowDays: cfg.OrderWindowDays,
	}
}

// Summary reports what one run inserted.
type Summary struct {
	Users        int `json:"users"`
	Products     int `json:"products"`
	Orders       int `json:"orders"`
	OrderItems   int `json:"order_items"`
	PlatformDays int `json:"platform_days"`
}

// Seeder writes demo datasets into the store.
type Seeder struct {
	client *db.Client
	logg   *logger.Logger
}

// New builds a seeder over the shared client.
func New(client *db.Client, logg *logger.Logger) (*Seeder, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Seeder{client: client, logg: logg}, nil
}

// Run generates and inserts the full demo dataset in one transaction.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Summary, error) {
	opts = opts.withDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))

	users := generateUsers(rng, opts)
	products := generateProducts(rng, opts)
	orders, items := generateOrders(rng, opts, users, products)
	platform := generatePlatformSeries(rng, opts)

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(users, insertBatchSize).Error; err != nil {
			return fmt.Errorf("inserting users: %w", err)
		}
		if err := tx.CreateInBatches(products, insertBatchSize).Error; err != nil {
			return fmt.Errorf("inserting products: %w", err)
		}
		if err := tx.CreateInBatches(orders, insertBatchSize).Error; err != nil {
			return fmt.Errorf("inserting orders: %w", err)
		}
		if err := tx.CreateInBatches(items, insertBatchSize).Error; err != nil {
			return fmt.Errorf("inserting order items: %w", err)
		}
		if err := tx.CreateInBatches(platform, insertBatchSize).Error; err != nil {
			return fmt.Errorf("inserting platform series: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Users:        len(users),
		Products:     len(products),
		Orders:       len(orders),
		OrderItems:   len(items),
		PlatformDays: len(platform),
	}
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"users":    summary.Users,
			"products": summary.Products,
			"orders":   summary.Orders,
		})
		s.logg.Info(ctx, "demo dataset seeded")
	}
	return summary, nil
}

// RunIfEmpty seeds only when the users table has no rows. Returns whether a
// seed happened.
func (s *Seeder) RunIfEmpty(ctx context.Context, opts Options) (bool, error) {
	var count int64
	if err := s.client.DB().WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.Run(ctx, opts); err != nil {
		return false, err
	}
	return true, nil
}

var userStatuses = []string{"active", "active", "active", "active", "inactive"}

func generateUsers(rng *rand.Rand, opts Options) []models.User {
	users := make([]models.User, 0, opts.Users)
	for i := 1; i <= opts.Users; i++ {
		registered := opts.Now.AddDate(0, 0, -rng.Intn(365)-opts.OrderWindowDays)
		lastLogin := registered.AddDate(0, 0, rng.Intn(opts.OrderWindowDays))
		users = append(users, models.User{
			UserID:           int64(i),
			Username:         fmt.Sprintf("user_%04d", i),
			Email:            fmt.Sprintf("user_%04d@example.com", i),
			RegistrationDate: registered,
			LastLogin:        &lastLogin,
			Status:           userStatuses[rng.Intn(len(userStatuses))],
		})
	}
	return users
}

// categoryBand bounds prices per category so the catalog looks like a real
// storefront rather than uniform noise.
type categoryBand struct {
	name     string
	minPrice float64
	maxPrice float64
}

var categoryBands = []categoryBand{
	{name: "electronics", minPrice: 199, maxPrice: 1999},
	{name: "apparel", minPrice: 19, maxPrice: 199},
	{name: "home", minPrice: 29, maxPrice: 399},
	{name: "beauty", minPrice: 15, maxPrice: 150},
	{name: "grocery", minPrice: 5, maxPrice: 80},
}

func generateProducts(rng *rand.Rand, opts Options) []models.Product {
	products := make([]models.Product, 0, len(categoryBands)*productsPerCategory)
	id := int64(0)
	for _, band := range categoryBands {
		for i := 1; i <= productsPerCategory; i++ {
			id++
			price := round2(band.minPrice + rng.Float64()*(band.maxPrice-band.minPrice))
			costRatio := 0.30 + rng.Float64()*0.40
			products = append(products, models.Product{
				ProductID:     id,
				ProductName:   fmt.Sprintf("%s-%02d", band.name, i),
				Category:      band.name,
				Price:         price,
				Cost:          round2(price * costRatio),
				StockQuantity: 20 + rng.Intn(480),
				Status:        "active",
				CreatedAt:     opts.Now.AddDate(0, 0, -opts.OrderWindowDays-rng.Intn(180)),
			})
		}
	}
	return products
}

var paymentMethods = []string{"alipay", "wechat", "card"}

// pickStatus keeps roughly 70% delivered, 20% shipped, 7% pending, 3%
// cancelled.
func pickStatus(rng *rand.Rand) string {
	roll := rng.Float64()
	switch {
	case roll < 0.70:
		return models.OrderStatusDelivered
	case roll < 0.90:
		return models.OrderStatusShipped
	case roll < 0.97:
		return models.OrderStatusPending
	default:
		return models.OrderStatusCancelled
	}
}

func generateOrders(rng *rand.Rand, opts Options, users []models.User, products []models.Product) ([]models.Order, []models.OrderItem) {
	orders := make([]models.Order, 0, opts.Orders)
	items := make([]models.OrderItem, 0, opts.Orders*2)

	itemID := int64(0)
	for i := 1; i <= opts.Orders; i++ {
		user := users[rng.Intn(len(users))]
		placedAt := opts.Now.
			AddDate(0, 0, -rng.Intn(opts.OrderWindowDays)).
			Add(time.Duration(8+rng.Intn(15)) * time.Hour).
			Add(time.Duration(rng.Intn(60)) * time.Minute)

		lineCount := 1 + rng.Intn(3)
		total := decimal.Zero
		for j := 0; j < lineCount; j++ {
			itemID++
			product := products[rng.Intn(len(products))]
			quantity := 1 + rng.Intn(3)
			unitPrice := decimal.NewFromFloat(product.Price)
			total = total.Add(unitPrice.Mul(decimal.NewFromInt(int64(quantity))))
			items = append(items, models.OrderItem{
				ItemID:    itemID,
				OrderID:   int64(i),
				ProductID: product.ProductID,
				Quantity:  quantity,
				UnitPrice: product.Price,
			})
		}

		orders = append(orders, models.Order{
			OrderID:       int64(i),
			UserID:        user.UserID,
			OrderDate:     placedAt,
			TotalAmount:   total.Round(2).InexactFloat64(),
			Status:        pickStatus(rng),
			PaymentMethod: paymentMethods[rng.Intn(len(paymentMethods))],
		})
	}
	return orders, items
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
