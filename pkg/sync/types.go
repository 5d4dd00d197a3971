package sync

type ChangeTopic string

const (
	TopicFoodsUpserted ChangeTopic = "foods_upserted"
	TopicFoodDeleted   ChangeTopic = "food_deleted"
	TopicCareEvent     ChangeTopic = "care_event"
)

type RabbitConfig struct {
	Url         string
	VHost       string
	TopicPrefix string
}
