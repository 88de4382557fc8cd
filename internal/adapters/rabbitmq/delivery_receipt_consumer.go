package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/altatechsystems/imovel-hub-sub000/internal/constants"
	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/contracts"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port/usecases_port"
	"github.com/altatechsystems/imovel-hub-sub000/pkg/rabbitmq/rabbitmq_common"
	"github.com/altatechsystems/imovel-hub-sub000/pkg/rabbitmq/rabbitmq_consumer"
)

// DeliveryReceiptConsumer слушает квитанции каналов доставки и применяет их
// к записям подтверждений. Невалидное сообщение отбрасывается без requeue -
// ретраить его бессмысленно.
type DeliveryReceiptConsumer struct {
	consumer *rabbitmq_consumer.DistributingConsumer
	logger   port.LoggerPort
}

// NewDeliveryReceiptConsumer собирает потребителя на очереди квитанций.
func NewDeliveryReceiptConsumer(
	rabbitURL string,
	connManager *rabbitmq_common.ConnectionManager,
	receiptUC usecases_port.RecordDeliveryReceiptUseCase,
	baseLogger port.LoggerPort,
) (*DeliveryReceiptConsumer, error) {
	consumerLogger := baseLogger.WithFields(port.Fields{"component": "DeliveryReceiptConsumer"})

	cfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: rabbitURL},
		QueueName:              constants.QueueDeliveryReceipts,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.ConfirmationExchangeName,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    constants.ConfirmationExchangeType,
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.RoutingKeyDeliveryReceipt,
		PrefetchCount:          10,
		Logger:                 NewPkgLoggerBridge(consumerLogger),
	}

	handler := makeReceiptHandler(receiptUC, consumerLogger)
	consumer, err := rabbitmq_consumer.NewDistributingConsumer(cfg, handler, connManager)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq adapter: failed to create receipt consumer: %w", err)
	}

	return &DeliveryReceiptConsumer{
		consumer: consumer,
		logger:   consumerLogger,
	}, nil
}

func makeReceiptHandler(receiptUC usecases_port.RecordDeliveryReceiptUseCase, baseLogger port.LoggerPort) rabbitmq_consumer.MessageHandler {
	return func(delivery amqp.Delivery) error {
		traceID, _ := delivery.Headers["x-trace-id"].(string)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		msgLogger := baseLogger.WithFields(port.Fields{"trace_id": traceID})
		ctx := contextkeys.ContextWithLogger(context.Background(), msgLogger)
		ctx = contextkeys.ContextWithTraceID(ctx, traceID)

		if err := contracts.ValidateEvent(constants.ReceiptEventType, constants.ReceiptEventVersion, delivery.Body); err != nil {
			msgLogger.Warn("Dropping receipt that failed schema validation", port.Fields{"error": err.Error()})
			return nil // ack: повторная доставка не вылечит невалидное тело
		}

		var receipt domain.DeliveryReceiptEvent
		if err := json.Unmarshal(delivery.Body, &receipt); err != nil {
			msgLogger.Warn("Dropping malformed receipt", port.Fields{"error": err.Error()})
			return nil
		}

		return receiptUC.Execute(ctx, receipt)
	}
}

// StartConsuming блокирующе запускает потребление до отмены контекста.
func (c *DeliveryReceiptConsumer) StartConsuming(ctx context.Context) error {
	c.logger.Info("Starting delivery receipt consumer", port.Fields{"queue": constants.QueueDeliveryReceipts})
	return c.consumer.StartConsuming(ctx)
}

// Close закрывает канал потребителя.
func (c *DeliveryReceiptConsumer) Close() error {
	return c.consumer.Close()
}
