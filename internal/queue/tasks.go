package queue

import (
	"encoding/json"

	"github.com/fenxiao-mall/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderStatusNotify 订单状态变更通知任务
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
)

// OrderStatusNotifyPayload 订单状态变更通知载荷
type OrderStatusNotifyPayload struct {
	OrderID   uint   `json:"order_id"`
	OrderNo   string `json:"order_no"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// NewOrderStatusNotifyTask 创建订单状态变更通知任务
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}
