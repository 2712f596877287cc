package store

const (
	TopicOrderEvents = "store.orders"
	TopicStockEvents = "store.stock"
)

// Partition key = the mutated aggregate's id, so events for one order or
// product keep their order.
func PartitionKey(id string) []byte { return []byte(id) }
