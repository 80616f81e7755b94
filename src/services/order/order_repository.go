package order

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrIllegalItem is returned for the item id "ex", which the demo uses to
// show how failures travel back through the chain.
var ErrIllegalItem = errors.New("예외 발생!")

type OrderRepository interface {
	Save(ctx context.Context, itemID string) error
}

type OrderRepositoryV1 struct {
	delay time.Duration
}

// NewOrderRepositoryV1 simulates a slow store; every Save waits delay.
func NewOrderRepositoryV1(delay time.Duration) *OrderRepositoryV1 {
	return &OrderRepositoryV1{delay: delay}
}

func (r *OrderRepositoryV1) Save(ctx context.Context, itemID string) error {
	if itemID == "ex" {
		return fmt.Errorf("OrderRepository.Save - itemId=%s: %w", itemID, ErrIllegalItem)
	}

	if r.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(r.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
