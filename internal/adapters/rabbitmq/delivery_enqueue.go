package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/altatechsystems/imovel-hub-sub000/internal/constants"
	"github.com/altatechsystems/imovel-hub-sub000/internal/contextkeys"
	"github.com/altatechsystems/imovel-hub-sub000/internal/contracts"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/domain"
	"github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
	"github.com/altatechsystems/imovel-hub-sub000/pkg/rabbitmq/rabbitmq_producer"
)

// RabbitMQDeliveryQueueAdapter реализует интерфейс DeliveryQueuePort для RabbitMQ.
// Каждый канал доставки (WhatsApp, email) слушает свой routing key.
type RabbitMQDeliveryQueueAdapter struct {
	producer *rabbitmq_producer.Publisher
}

// NewRabbitMQDeliveryQueueAdapter создает новый экземпляр адаптера.
// producer - это уже инициализированный экземпляр rabbitmq_producer.Publisher.
func NewRabbitMQDeliveryQueueAdapter(producer *rabbitmq_producer.Publisher) (*RabbitMQDeliveryQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}

	return &RabbitMQDeliveryQueueAdapter{
		producer: producer,
	}, nil
}

func routingKeyFor(method domain.DeliveryMethod) (string, error) {
	switch method {
	case domain.DeliveryWhatsApp:
		return constants.RoutingKeyDeliveryWhatsApp, nil
	case domain.DeliveryEmail:
		return constants.RoutingKeyDeliveryEmail, nil
	default:
		return "", fmt.Errorf("rabbitmq adapter: no routing key for delivery method %q", string(method))
	}
}

// PublishDispatch публикует событие диспетчеризации запроса на подтверждение.
// Тело проверяется по схеме до публикации: невалидное событие не должно
// долетать до транспортного коллаборатора.
func (a *RabbitMQDeliveryQueueAdapter) PublishDispatch(ctx context.Context, event domain.DeliveryDispatchEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":       "RabbitMQDeliveryQueueAdapter",
		"confirmation_id": event.ConfirmationID.String(),
		"delivery_method": string(event.DeliveryMethod),
	})

	routingKey, err := routingKeyFor(event.DeliveryMethod)
	if err != nil {
		adapterLogger.Error("No routing key for delivery method", err, nil)
		return err
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		adapterLogger.Error("Failed to marshal dispatch event to JSON", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to marshal dispatch event for %s: %w", event.ConfirmationID, err)
	}

	if err := contracts.ValidateEvent(constants.DeliveryEventType, constants.DeliveryEventVersion, eventJSON); err != nil {
		adapterLogger.Error("Dispatch event failed schema validation", err, nil)
		return fmt.Errorf("rabbitmq adapter: dispatch event failed schema validation: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         eventJSON,
		DeliveryMode: amqp.Persistent, // Для сохранения сообщений при перезапуске брокера
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	// Таймаут на операцию публикации, если контекст его не предоставляет
	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	adapterLogger.Info("Publishing delivery dispatch event", port.Fields{"routing_key": routingKey})
	err = a.producer.Publish(publishCtx, routingKey, msg)
	if err != nil {
		adapterLogger.Error("Failed to publish delivery dispatch event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish dispatch event for %s: %w", event.ConfirmationID, err)
	}

	adapterLogger.Info("Successfully published delivery dispatch event", nil)
	return nil
}
