package order

import "context"

type OrderController interface {
	Request(ctx context.Context, itemID string) (string, error)
	NoLog(ctx context.Context) string
}

type OrderControllerV1 struct {
	orderService OrderService
}

func NewOrderControllerV1(orderService OrderService) *OrderControllerV1 {
	return &OrderControllerV1{orderService: orderService}
}

// Request delegates once to the service; its error is returned untouched.
func (c *OrderControllerV1) Request(ctx context.Context, itemID string) (string, error) {
	if err := c.orderService.OrderItem(ctx, itemID); err != nil {
		return "", err
	}
	return "ok", nil
}

// NoLog never reaches the service.
func (c *OrderControllerV1) NoLog(ctx context.Context) string {
	return "ok"
}
