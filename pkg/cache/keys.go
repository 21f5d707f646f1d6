package cache

// Cache key builders. One scheme per entity keeps invalidation prefixes
// predictable.

func DealKey(dealID string) string {
	return "deal:" + dealID
}

func UserDealsKey(userID string) string {
	return "deals:user:" + userID
}

func DeliveryKey(dealID string) string {
	return "delivery:" + dealID
}

func DisputeKey(disputeID string) string {
	return "dispute:" + disputeID
}

func PaymentHistoryKey(dealID string) string {
	return "payments:" + dealID
}
