package public

import (
	"strconv"
	"strings"
	"time"

	"github.com/fenxiao-mall/internal/cache"
	handlershared "github.com/fenxiao-mall/internal/http/handlers/shared"
	"github.com/fenxiao-mall/internal/http/response"
	"github.com/fenxiao-mall/internal/logger"
	"github.com/fenxiao-mall/internal/service"

	"github.com/gin-gonic/gin"
)

// 树查询结果缓存；安置关系只增不改，短 TTL 即可吸收读放大
const affiliateTreeCacheTTL = 60 * time.Second

// RegisterAffiliate 分销用户注册与二叉树安置
func (h *Handler) RegisterAffiliate(c *gin.Context) {
	var input service.CreateAffiliateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "invalid affiliate payload", err)
		return
	}

	affiliate, err := h.AffiliateService.CreateAffiliate(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	// 新节点挂入后父节点的下线树变化，清掉父节点缓存
	if input.ParentID != 0 {
		if err := cache.Del(c.Request.Context(), handlershared.AffiliateTreeCacheKey(input.ParentID)); err != nil {
			logger.Warnw("affiliate_tree_cache_evict_failed", "affiliate_id", input.ParentID, "error", err.Error())
		}
	}
	response.Success(c, affiliate)
}

// GetAffiliateTree 分销用户树查询：三级上线与两层下线
func (h *Handler) GetAffiliateTree(c *gin.Context) {
	id, ok := parseAffiliateID(c)
	if !ok {
		return
	}

	var cached service.AffiliateTree
	if hit, err := cache.GetJSON(c.Request.Context(), handlershared.AffiliateTreeCacheKey(id), &cached); err == nil && hit {
		response.Success(c, &cached)
		return
	}

	tree, err := h.AffiliateService.GetTree(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if err := cache.SetJSON(c.Request.Context(), handlershared.AffiliateTreeCacheKey(id), tree, affiliateTreeCacheTTL); err != nil {
		logger.Warnw("affiliate_tree_cache_write_failed", "affiliate_id", id, "error", err.Error())
	}
	response.Success(c, tree)
}

func parseAffiliateID(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid affiliate id", nil)
		return 0, false
	}
	return uint(id), true
}
