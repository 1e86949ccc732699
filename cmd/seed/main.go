package main

import (
	"context"
	"flag"
	"time"

	"github.com/nearshelf/internal/config"
	"github.com/nearshelf/internal/logger"
	"github.com/nearshelf/internal/models"
	"github.com/nearshelf/internal/repository"
	"github.com/nearshelf/internal/service"
)

func main() {
	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "写入超时")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()
	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false)
	if err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sync := service.NewCatalogSyncService(repository.NewCatalogSyncRepository(db))
	for _, snapshot := range demoSnapshots(cfg.Search.DefaultLatitude, cfg.Search.DefaultLongitude) {
		result, err := sync.ApplySnapshot(ctx, snapshot)
		if err != nil {
			stdLog.Fatalf("Failed to seed %s: %v", snapshot.Merchant.ExternalID, err)
		}
		stdLog.Printf("Seeded %s: %d products, %d variations", snapshot.Merchant.Name, result.Products, result.Variations)
	}
	stdLog.Println("Seed completed")
}

// kmNorth 约 1 km 对应的纬度差
const kmNorth = 1.0 / 111.195

func price(cents int64) *int64 {
	return &cents
}

// demoSnapshots 默认市场周边的演示门店，距离分别约 0.5 / 2 / 5 / 15 km
func demoSnapshots(lat, lng float64) []service.CatalogSnapshot {
	if lat == 0 && lng == 0 {
		lat, lng = config.DefaultMarketLatitude, config.DefaultMarketLongitude
	}
	syncedAt := time.Now()
	return []service.CatalogSnapshot{
		{
			SyncedAt: syncedAt,
			Merchant: service.MerchantSnapshot{
				ExternalID: "LOC-BYRON-THREADS", Name: "Byron Threads",
				Street: "12 Jonson St", City: "Byron Bay", Region: "NSW", Postcode: "2481", Country: "AU",
				Latitude: lat + 0.5*kmNorth, Longitude: lng, IsActive: true,
			},
			Products: []service.ProductSnapshot{
				{
					ExternalID: "ITEM-BLACK-HOODIE", Name: "Black Hoodie", Category: "Apparel",
					Description: "Heavyweight organic cotton hoodie", BasePriceCents: price(6000), IsActive: true,
					Variations: []service.VariationSnapshot{
						{ExternalID: "VAR-BLACK-HOODIE-S", Name: "Small", PriceCents: 6000, Attributes: map[string]string{"size": "S", "color": "black"}, Quantity: 3},
						{ExternalID: "VAR-BLACK-HOODIE-M", Name: "Medium", PriceCents: 6000, Attributes: map[string]string{"size": "M", "color": "black"}, Quantity: 5},
						{ExternalID: "VAR-BLACK-HOODIE-L", Name: "Large", PriceCents: 6500, Attributes: map[string]string{"size": "L", "color": "black"}, Quantity: 0},
					},
				},
				{
					ExternalID: "ITEM-LINEN-SHIRT", Name: "Linen Shirt", Category: "Apparel",
					BasePriceCents: price(8500), IsActive: true,
					Variations: []service.VariationSnapshot{
						{ExternalID: "VAR-LINEN-SHIRT-M", Name: "Medium", PriceCents: 8500, Attributes: map[string]string{"size": "M"}, Quantity: 2},
					},
				},
			},
		},
		{
			SyncedAt: syncedAt,
			Merchant: service.MerchantSnapshot{
				ExternalID: "LOC-SUFFOLK-SURF", Name: "Suffolk Surf Co",
				Street: "3 Alcorn St", City: "Suffolk Park", Region: "NSW", Postcode: "2481", Country: "AU",
				Latitude: lat - 5*kmNorth, Longitude: lng, IsActive: true,
			},
			Products: []service.ProductSnapshot{
				{
					ExternalID: "ITEM-SURF-WAX", Name: "Surfboard Wax", Category: "Surf",
					BasePriceCents: price(450), IsActive: true,
					Variations: []service.VariationSnapshot{
						{ExternalID: "VAR-SURF-WAX-WARM", Name: "Warm Water", PriceCents: 450, Attributes: map[string]string{"temp": "warm"}, Quantity: 40},
					},
				},
				{
					ExternalID: "ITEM-BOARD-SHORTS", Name: "Board Shorts", Category: "Apparel",
					BasePriceCents: price(5500), IsActive: true,
					Variations: []service.VariationSnapshot{
						{ExternalID: "VAR-BOARD-SHORTS-32", Name: "32", PriceCents: 5500, Attributes: map[string]string{"waist": "32"}, Quantity: 6},
					},
				},
				{
					ExternalID: "ITEM-BLACK-HOODIE-SURF", Name: "Black Hoodie", Category: "Apparel",
					Description: "Surf club hoodie", BasePriceCents: price(7000), IsActive: true,
					Variations: []service.VariationSnapshot{
						{ExternalID: "VAR-BLACK-HOODIE-SURF-M", Name: "Medium", PriceCents: 7000, Attributes: map[string]string{"size": "M"}, Quantity: 12},
					},
				},
			},
		},
		{
			SyncedAt: syncedAt,
			Merchant: service.MerchantSnapshot{
				ExternalID: "LOC-BANGALOW-PANTRY", Name: "Bangalow Pantry",
				Street: "20 Byron St", City: "Bangalow", Region: "NSW", Postcode: "2479", Country: "AU",
				Latitude: lat - 2*kmNorth, Longitude: lng, IsActive: true,
			},
			Products: []service.ProductSnapshot{
				{
					ExternalID: "ITEM-COFFEE-BEANS", Name: "Coffee Beans", Category: "Grocery",
					Description: "Single origin, roasted locally", BasePriceCents: price(1800), IsActive: true,
					Variations: []service.VariationSnapshot{
						{ExternalID: "VAR-COFFEE-BEANS-250", Name: "250g", PriceCents: 1800, Attributes: map[string]string{"weight": "250g"}, Quantity: 20},
						{ExternalID: "VAR-COFFEE-BEANS-1K", Name: "1kg", PriceCents: 6200, Attributes: map[string]string{"weight": "1kg"}, Quantity: 4},
					},
				},
				{
					ExternalID: "ITEM-ORGANIC-HONEY", Name: "Organic Honey", Category: "Grocery",
					BasePriceCents: price(1400), IsActive: true,
					Variations: []service.VariationSnapshot{
						{ExternalID: "VAR-ORGANIC-HONEY-500", Name: "500g", PriceCents: 1400, Attributes: map[string]string{"weight": "500g"}, Quantity: 0},
					},
				},
			},
		},
		{
			SyncedAt: syncedAt,
			Merchant: service.MerchantSnapshot{
				ExternalID: "LOC-LENNOX-CANDLES", Name: "Lennox Candle House",
				Street: "60 Ballina St", City: "Lennox Head", Region: "NSW", Postcode: "2478", Country: "AU",
				Latitude: lat - 15*kmNorth, Longitude: lng, IsActive: true,
			},
			Products: []service.ProductSnapshot{
				{
					ExternalID: "ITEM-SCENTED-CANDLE", Name: "Scented Candle", Category: "Home",
					BasePriceCents: price(3200), IsActive: true,
					Variations: []service.VariationSnapshot{
						{ExternalID: "VAR-SCENTED-CANDLE-LIME", Name: "Lime & Coconut", PriceCents: 3200, Attributes: map[string]string{"scent": "lime-coconut"}, Quantity: 9},
					},
				},
			},
		},
	}
}
