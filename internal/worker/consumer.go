package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cartella/internal/logger"
	"github.com/cartella/internal/models"
	"github.com/cartella/internal/provider"
	"github.com/cartella/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartActivity, c.handleCartActivity)
}

func (c *Consumer) handleCartActivity(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_activity_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartActivityPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_activity_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.CustomerID) == "" || strings.TrimSpace(payload.Action) == "" {
		logger.Debugw("worker_cart_activity_skip_invalid_payload",
			"customer_id", payload.CustomerID,
			"action", payload.Action,
		)
		return nil
	}
	event := &models.CartEvent{
		CustomerID: payload.CustomerID,
		ProductID:  payload.ProductID,
		LineID:     payload.LineID,
		Action:     payload.Action,
		Quantity:   payload.Quantity,
	}
	if err := c.CartEventRepo.Create(event); err != nil {
		logger.Warnw("worker_cart_activity_persist_failed",
			"customer_id", payload.CustomerID,
			"action", payload.Action,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_cart_activity_recorded",
		"customer_id", payload.CustomerID,
		"action", payload.Action,
		"product_id", payload.ProductID,
		"quantity", payload.Quantity,
	)
	return nil
}
