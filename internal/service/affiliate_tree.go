package service

import (
	"github.com/fenxiao-mall/internal/constants"
	"github.com/fenxiao-mall/internal/models"
	"github.com/fenxiao-mall/internal/repository"
)

const (
	uplineMaxDepth   = 3
	downlineMaxDepth = 2
)

// TreeResolver 二叉树解析：上线三级（计佣关键），下线两层（仅展示）。
// 安置关系在创建时固定且无环，遍历不做环检测。
type TreeResolver struct {
	repo repository.AffiliateRepository
}

// NewTreeResolver 创建二叉树解析器
func NewTreeResolver(repo repository.AffiliateRepository) *TreeResolver {
	return &TreeResolver{repo: repo}
}

// Upline 沿父链上溯最多三跳；父链断裂时提前截断，不视为错误。
// 返回切片下标 0/1/2 对应一/二/三级上线。
func (t *TreeResolver) Upline(affiliate *models.Affiliate) ([]models.Affiliate, error) {
	ancestors := make([]models.Affiliate, 0, uplineMaxDepth)
	if t == nil || t.repo == nil || affiliate == nil {
		return ancestors, nil
	}
	current := affiliate
	for hop := 0; hop < uplineMaxDepth; hop++ {
		if current.ParentID == nil || *current.ParentID == 0 {
			break
		}
		parent, err := t.repo.GetByID(*current.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		ancestors = append(ancestors, *parent)
		current = parent
	}
	return ancestors, nil
}

// DownlineNode 下线树节点（仅展示用）
type DownlineNode struct {
	Affiliate models.Affiliate `json:"affiliate"`
	Left      *DownlineNode    `json:"left,omitempty"`
	Right     *DownlineNode    `json:"right,omitempty"`
}

// Downline 返回固定两层的下线树：直接子节点与它们各自的子节点。
func (t *TreeResolver) Downline(affiliate *models.Affiliate) (*DownlineNode, error) {
	if t == nil || t.repo == nil || affiliate == nil {
		return nil, nil
	}
	return t.buildDownline(affiliate, downlineMaxDepth)
}

func (t *TreeResolver) buildDownline(affiliate *models.Affiliate, depth int) (*DownlineNode, error) {
	node := &DownlineNode{Affiliate: *affiliate}
	if depth <= 0 {
		return node, nil
	}
	children, err := t.repo.GetChildren(affiliate.ID)
	if err != nil {
		return nil, err
	}
	for i := range children {
		child := children[i]
		childNode, err := t.buildDownline(&child, depth-1)
		if err != nil {
			return nil, err
		}
		switch child.Position {
		case constants.TreePositionLeft:
			node.Left = childNode
		case constants.TreePositionRight:
			node.Right = childNode
		}
	}
	return node, nil
}
