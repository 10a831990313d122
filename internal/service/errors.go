package service

import "errors"

var (
	// ErrNotFound 资源不存在
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidStatus 状态值不合法或目标状态不可达
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrStatusConflict 乐观并发校验失败：提交时订单状态已被并发方改写
	ErrStatusConflict = errors.New("order status conflict")
	// ErrInconsistentState 逆向请求没有匹配的佣金流水（按无操作容忍）
	ErrInconsistentState = errors.New("inconsistent ledger state")
	// ErrStoreFailure 存储层失败
	ErrStoreFailure = errors.New("store failure")

	// ErrInvalidAmount 金额取值非法
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAffiliateCodeInvalid 分销码生成失败或不可用
	ErrAffiliateCodeInvalid = errors.New("affiliate code invalid")
	// ErrTreePositionTaken 二叉树占位已被占用
	ErrTreePositionTaken = errors.New("tree position already taken")
	// ErrInvalidTreePosition 二叉树占位取值非法
	ErrInvalidTreePosition = errors.New("invalid tree position")
	// ErrInvalidCredential 管理员凭证错误
	ErrInvalidCredential = errors.New("invalid credential")
)
