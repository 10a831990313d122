package shared

import "fmt"

// AffiliateTreeCacheKey 分销树查询的缓存键。
// 读取与清除两侧共用同一构造，避免键格式漂移导致清除失效。
func AffiliateTreeCacheKey(affiliateID uint) string {
	return fmt.Sprintf("affiliate_tree:%d", affiliateID)
}
