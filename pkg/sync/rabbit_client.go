package sync

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/barkbase/barkbase/pkg/catalog"
	"github.com/barkbase/barkbase/pkg/foods"
	"github.com/barkbase/barkbase/pkg/registry"
)

// RabbitChangeClient keeps a read replica's catalog in sync with the
// master's change feed.
type RabbitChangeClient struct {
	RabbitConfig
	ClientName string
	Catalog    *catalog.Catalog
	conn       *amqp.Connection
}

func (c *RabbitChangeClient) Connect() error {
	conn, err := dial(c.RabbitConfig)
	if err != nil {
		return err
	}
	c.conn = conn

	ch, err := conn.Channel()
	if err != nil {
		return err
	}

	err = ListenToTopic(ch, c.TopicPrefix, TopicFoodsUpserted, func(d amqp.Delivery) error {
		products := make([]foods.Product, 0)
		if err := json.Unmarshal(d.Body, &products); err != nil {
			return err
		}
		c.Catalog.Apply(products)
		return nil
	})
	if err != nil {
		return err
	}

	err = ListenToTopic(ch, c.TopicPrefix, TopicFoodDeleted, func(d amqp.Delivery) error {
		var id string
		if err := json.Unmarshal(d.Body, &id); err != nil {
			return err
		}
		c.Catalog.Remove(id)
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("Connected to change feed as client %s", c.ClientName)
	return nil
}

func (c *RabbitChangeClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// ListenForCareEvents subscribes a handler to the care event topic, used
// by the reminder worker.
func ListenForCareEvents(cfg RabbitConfig, handler func(registry.CareEvent) error) (*amqp.Connection, error) {
	conn, err := dial(cfg)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = ListenToTopic(ch, cfg.TopicPrefix, TopicCareEvent, func(d amqp.Delivery) error {
		var event registry.CareEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			return err
		}
		return handler(event)
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
