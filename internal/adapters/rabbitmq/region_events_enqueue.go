package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"apt-sync-service/internal/constants"
	"apt-sync-service/internal/core/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RegionEventsPublisher публикует события region.synced для downstream-сервисов
// (избранное, push-уведомления). Реализует port.DealEventsPort.
type RegionEventsPublisher struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	exchange   string
}

// NewRegionEventsPublisher подключается к RabbitMQ и объявляет
// долговечный direct-обменник для событий синхронизации.
func NewRegionEventsPublisher(url string) (*RegionEventsPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events publisher: failed to dial RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events publisher: failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		constants.EventsExchangeName,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("events publisher: failed to declare exchange '%s': %w", constants.EventsExchangeName, err)
	}

	return &RegionEventsPublisher{
		connection: conn,
		channel:    ch,
		exchange:   constants.EventsExchangeName,
	}, nil
}

func (p *RegionEventsPublisher) PublishRegionSynced(ctx context.Context, event domain.RegionSyncedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events publisher: failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		constants.RoutingKeyRegionSynced,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("events publisher: failed to publish region.synced: %w", err)
	}
	return nil
}

func (p *RegionEventsPublisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.connection != nil {
		return p.connection.Close()
	}
	return nil
}
