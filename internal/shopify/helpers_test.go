package shopify

import (
	"time"

	"github.com/HarshitaSharma026/cod-confirmation-tagging/internal/config"
)

func testShopifyConfig() config.ShopifyConfig {
	return config.ShopifyConfig{
		Shop:           "example.myshopify.com",
		Token:          "shpat_test",
		APIVersion:     "2026-01",
		CallTimeout:    10 * time.Second,
		SearchAttempts: 6,
		SearchDelay:    5 * time.Second,
	}
}
