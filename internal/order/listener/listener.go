package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/janithpag/reztobelle-admin-web-sub000/internal/order"
	"github.com/janithpag/reztobelle-admin-web-sub000/internal/order/dto"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/broker"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/cache"
	"github.com/janithpag/reztobelle-admin-web-sub000/pkg/logger"
)

const dedupTTL = 24 * time.Hour

// OrderListener consumes order events published by the storefront and
// materializes them as admin orders.
type OrderListener struct {
	consumer *broker.KafkaConsumer
	cache    *cache.RedisClient
	uc       order.UseCase
	logger   logger.Logger
}

func NewOrderListener(consumer *broker.KafkaConsumer, cache *cache.RedisClient, uc order.UseCase, logger logger.Logger) *OrderListener {
	return &OrderListener{
		consumer: consumer,
		cache:    cache,
		uc:       uc,
		logger:   logger,
	}
}

func (l *OrderListener) Start(ctx context.Context) {
	l.logger.Info("starting order kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping order kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	CustomerName  string             `json:"customer_name"`
	Phone         string             `json:"phone"`
	AddressLine   string             `json:"address_line"`
	City          string             `json:"city"`
	PaymentMethod string             `json:"payment_method"`
	ShippingFee   decimal.Decimal    `json:"shipping_fee"`
	Notes         string             `json:"notes"`
	Items         []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

func (l *OrderListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "order.created" {
		return
	}

	// Kafka redelivers on rebalance; the event id keeps us idempotent.
	fresh, err := l.cache.MarkOnce(ctx, "orders:event:"+event.EventID, dedupTTL)
	if err != nil {
		l.logger.Error("event dedup check failed", zap.String("event_id", event.EventID), zap.Error(err))
		return
	}
	if !fresh {
		l.logger.Debug("skipping duplicate order event", zap.String("event_id", event.EventID))
		return
	}

	input := &dto.CreateOrderInput{
		CustomerName:  event.Payload.CustomerName,
		Phone:         event.Payload.Phone,
		AddressLine:   event.Payload.AddressLine,
		City:          event.Payload.City,
		PaymentMethod: event.Payload.PaymentMethod,
		ShippingFee:   event.Payload.ShippingFee,
		Notes:         event.Payload.Notes,
		Items:         make([]dto.OrderItemInput, 0, len(event.Payload.Items)),
	}
	for _, item := range event.Payload.Items {
		input.Items = append(input.Items, dto.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	o, err := l.uc.CreateOrder(ctx, input)
	if err != nil {
		l.logger.Error("failed to create order from event",
			zap.String("event_id", event.EventID),
			zap.Error(err))
		return
	}

	l.logger.Info("order created from storefront event",
		zap.String("event_id", event.EventID),
		zap.String("order_number", o.OrderNumber))
}
