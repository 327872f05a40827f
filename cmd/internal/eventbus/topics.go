package eventbus

var (
	// TopicChatEvents 는 대화 턴 완료 이벤트가 흐르는 토픽이다.
	TopicChatEvents = NewTopic("lisa.chat.events")
)

var AllTopics = []Topic{
	TopicChatEvents,
}
