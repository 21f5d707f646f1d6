package deals

import "errors"

// Validation and authorization errors. The messages are user-facing and
// surfaced verbatim by the API layer.
var (
	ErrCommodityRequired        = errors.New("Commodity is required")
	ErrQuantityNotPositive      = errors.New("Quantity must be greater than zero")
	ErrUnitRequired             = errors.New("Unit is required")
	ErrPriceNotPositive         = errors.New("Agreed price must be greater than zero")
	ErrInvalidQuality           = errors.New("Invalid quality grade")
	ErrDeliveryLocationRequired = errors.New("Delivery location is required")
	ErrDeliveryDateNotFuture    = errors.New("Delivery date must be in the future")
	ErrInvalidPaymentSchedule   = errors.New("Invalid payment schedule")
	ErrInvalidPaymentMethod     = errors.New("Invalid payment method")
	ErrDisputeReasonRequired    = errors.New("Dispute reason is required")
	ErrNotParticipant           = errors.New("Only deal participants can raise disputes")
	ErrConfirmationIncomplete   = errors.New("All deal aspects must be confirmed")
)
