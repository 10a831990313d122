package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/fenxiao-mall/internal/constants"
	"github.com/fenxiao-mall/internal/logger"
	"github.com/fenxiao-mall/internal/models"
	"github.com/fenxiao-mall/internal/repository"

	"github.com/google/uuid"
)

const referralCodeMaxAttempts = 5

// AffiliateService 分销用户服务：注册安置、分销码生成与树查询
type AffiliateService struct {
	repo repository.AffiliateRepository
	tree *TreeResolver
}

// NewAffiliateService 创建分销用户服务
func NewAffiliateService(repo repository.AffiliateRepository, tree *TreeResolver) *AffiliateService {
	return &AffiliateService{repo: repo, tree: tree}
}

// CreateAffiliateInput 注册输入
type CreateAffiliateInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	ParentID uint   `json:"parent_id"`
	Position string `json:"position"`
}

// CreateAffiliate 注册分销用户并安置到二叉树：
// 指定父节点时必须同时指定左/右占位，占位已被占用则拒绝。
// 分销码随机生成，撞码时重试。
func (s *AffiliateService) CreateAffiliate(input CreateAffiliateInput) (*models.Affiliate, error) {
	affiliate := &models.Affiliate{
		Name:   strings.TrimSpace(input.Name),
		Email:  strings.ToLower(strings.TrimSpace(input.Email)),
		Status: constants.AffiliateStatusActive,
	}

	if input.ParentID != 0 {
		position := strings.ToLower(strings.TrimSpace(input.Position))
		if position != constants.TreePositionLeft && position != constants.TreePositionRight {
			return nil, fmt.Errorf("%w: position must be left or right", ErrInvalidTreePosition)
		}
		parent, err := s.repo.GetByID(input.ParentID)
		if err != nil {
			return nil, storeErr(err)
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: parent affiliate %d", ErrNotFound, input.ParentID)
		}
		children, err := s.repo.GetChildren(parent.ID)
		if err != nil {
			return nil, storeErr(err)
		}
		for _, child := range children {
			if child.Position == position {
				return nil, ErrTreePositionTaken
			}
		}
		parentID := parent.ID
		affiliate.ParentID = &parentID
		affiliate.Position = position
	}

	var lastErr error
	for attempt := 0; attempt < referralCodeMaxAttempts; attempt++ {
		affiliate.ReferralCode = generateReferralCode()
		if err := s.repo.Create(affiliate); err != nil {
			lastErr = err
			continue
		}
		logger.Infow("affiliate_created",
			"affiliate_id", affiliate.ID,
			"referral_code", affiliate.ReferralCode,
			"parent_id", input.ParentID,
			"position", affiliate.Position,
		)
		return affiliate, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrAffiliateCodeInvalid, lastErr)
}

// GetAffiliate 按 ID 获取分销用户
func (s *AffiliateService) GetAffiliate(id uint) (*models.Affiliate, error) {
	affiliate, err := s.repo.GetByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}
	return affiliate, nil
}

// GetByReferralCode 按分销码获取分销用户（大小写不敏感）
func (s *AffiliateService) GetByReferralCode(code string) (*models.Affiliate, error) {
	affiliate, err := s.repo.GetByReferralCode(code)
	if err != nil {
		return nil, storeErr(err)
	}
	if affiliate == nil {
		return nil, ErrNotFound
	}
	return affiliate, nil
}

// AffiliateTree 树查询结果：三级上线与两层下线
type AffiliateTree struct {
	Affiliate models.Affiliate   `json:"affiliate"`
	Upline    []models.Affiliate `json:"upline"`
	Downline  *DownlineNode      `json:"downline"`
}

// GetTree 返回分销用户的上线链与下线树
func (s *AffiliateService) GetTree(id uint) (*AffiliateTree, error) {
	affiliate, err := s.GetAffiliate(id)
	if err != nil {
		return nil, err
	}
	upline, err := s.tree.Upline(affiliate)
	if err != nil {
		return nil, storeErr(err)
	}
	downline, err := s.tree.Downline(affiliate)
	if err != nil {
		return nil, storeErr(err)
	}
	return &AffiliateTree{
		Affiliate: *affiliate,
		Upline:    upline,
		Downline:  downline,
	}, nil
}

// ListAffiliates 分页查询分销用户
func (s *AffiliateService) ListAffiliates(filter repository.AffiliateListFilter) ([]models.Affiliate, int64, error) {
	rows, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	return rows, total, nil
}

// UpdateAffiliateStatus 启用/停用分销用户
func (s *AffiliateService) UpdateAffiliateStatus(id uint, status string) error {
	if status != constants.AffiliateStatusActive && status != constants.AffiliateStatusDisabled {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	affiliate, err := s.GetAffiliate(id)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(affiliate.ID, status, time.Now()); err != nil {
		return storeErr(err)
	}
	return nil
}

// generateReferralCode 随机分销码（8 位大写）
func generateReferralCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
}
