package cache

import (
	"context"
	"fmt"
	"time"
)

// ProductDetailTTL 商品详情缓存时长；库存同步时主动失效
const ProductDetailTTL = 30 * time.Second

// ProductDetailKey 商品详情缓存 key
func ProductDetailKey(productID uint) string {
	return fmt.Sprintf("catalog:product:%d", productID)
}

// InvalidateProductDetails 批量失效商品详情缓存
func InvalidateProductDetails(ctx context.Context, productIDs []uint) error {
	if !Enabled() || len(productIDs) == 0 {
		return nil
	}
	seen := make(map[uint]struct{}, len(productIDs))
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, ProductDetailKey(id))
	}
	return Del(ctx, keys...)
}
