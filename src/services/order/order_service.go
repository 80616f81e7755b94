package order

import "context"

type OrderService interface {
	OrderItem(ctx context.Context, itemID string) error
}

type OrderServiceV1 struct {
	orderRepository OrderRepository
}

func NewOrderServiceV1(orderRepository OrderRepository) *OrderServiceV1 {
	return &OrderServiceV1{orderRepository: orderRepository}
}

func (s *OrderServiceV1) OrderItem(ctx context.Context, itemID string) error {
	return s.orderRepository.Save(ctx, itemID)
}
