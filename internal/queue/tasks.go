package queue

import (
	"encoding/json"

	"github.com/cartella/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartActivity 购物车操作流水任务
	TaskCartActivity = constants.TaskCartActivity
)

// CartActivityPayload 购物车流水任务载荷
type CartActivityPayload struct {
	CustomerID string `json:"customer_id"`
	ProductID  string `json:"product_id,omitempty"`
	LineID     string `json:"line_id,omitempty"`
	Action     string `json:"action"`
	Quantity   int    `json:"quantity"`
}

// NewCartActivityTask 创建购物车流水任务
func NewCartActivityTask(payload CartActivityPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartActivity, body), nil
}
