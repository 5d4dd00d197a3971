package sync

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/barkbase/barkbase/pkg/common"
	"github.com/barkbase/barkbase/pkg/foods"
	"github.com/barkbase/barkbase/pkg/registry"
)

// RabbitChangeMaster publishes catalog and registry changes to the
// broker. It implements catalog.ChangeHandler and registry.ChangeHandler;
// publishing goes through background queues so HTTP writes never block on
// the broker.
type RabbitChangeMaster struct {
	RabbitConfig
	conn       *amqp.Connection
	foodQueue  *common.QueueHandler[foods.Product]
	eventQueue *common.QueueHandler[registry.CareEvent]
}

func NewRabbitChangeMaster(cfg RabbitConfig) *RabbitChangeMaster {
	m := &RabbitChangeMaster{RabbitConfig: cfg}
	m.foodQueue = common.NewQueueHandler(m.sendFoods, 64)
	m.eventQueue = common.NewQueueHandler(m.sendEvents, 64)
	return m
}

func (m *RabbitChangeMaster) Connect() error {
	conn, err := dial(m.RabbitConfig)
	if err != nil {
		return err
	}
	m.conn = conn

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	for _, topic := range []ChangeTopic{TopicFoodsUpserted, TopicFoodDeleted, TopicCareEvent} {
		if err := DefineTopic(ch, m.TopicPrefix, topic); err != nil {
			return err
		}
	}
	return nil
}

func (m *RabbitChangeMaster) Close() error {
	m.foodQueue.Flush()
	m.eventQueue.Flush()
	if m.conn == nil {
		return nil
	}
	return m.conn.Close()
}

func (m *RabbitChangeMaster) sendFoods(products []foods.Product) {
	if m.conn == nil {
		return
	}
	if err := SendChange(m.conn, m.TopicPrefix, TopicFoodsUpserted, products); err != nil {
		log.Printf("Failed to publish %d food changes: %v", len(products), err)
	}
}

func (m *RabbitChangeMaster) sendEvents(events []registry.CareEvent) {
	if m.conn == nil {
		return
	}
	for _, event := range events {
		if err := SendChange(m.conn, m.TopicPrefix, TopicCareEvent, event); err != nil {
			log.Printf("Failed to publish care event %s: %v", event.RecordId, err)
		}
	}
}

func (m *RabbitChangeMaster) FoodsUpserted(products []foods.Product) {
	m.foodQueue.Add(products...)
}

func (m *RabbitChangeMaster) FoodDeleted(id string) {
	if m.conn == nil {
		return
	}
	if err := SendChange(m.conn, m.TopicPrefix, TopicFoodDeleted, id); err != nil {
		log.Printf("Failed to publish food delete %s: %v", id, err)
	}
}

func (m *RabbitChangeMaster) CareEventAdded(event registry.CareEvent) {
	m.eventQueue.Add(event)
}
