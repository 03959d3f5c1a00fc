package storefront

const (
	TopicCatalog  = "storefront.catalog"
	TopicCheckout = "storefront.checkout"
)

// PartitionKey keeps every event of one entity (product, set, order) on one partition, in order.
func PartitionKey(id string) []byte { return []byte(id) }
