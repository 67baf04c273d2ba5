package events

// Topics emitted by the shop coordinator.
const (
	TopicOrderCommitted  = "order.committed"
	TopicPurchaseAborted = "purchase.aborted"
)
