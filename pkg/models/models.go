package models

import (
	"time"
)

// Quality defines the accepted commodity quality grades.
type Quality string

const (
	QualityPremium  Quality = "premium"
	QualityStandard Quality = "standard"
	QualityBasic    Quality = "basic"
	QualityMixed    Quality = "mixed"
)

// ValidQualities is the closed set of quality grades.
var ValidQualities = map[Quality]struct{}{
	QualityPremium:  {},
	QualityStandard: {},
	QualityBasic:    {},
	QualityMixed:    {},
}

// PaymentMethod defines the supported payment channels.
type PaymentMethod string

const (
	MethodUPI          PaymentMethod = "upi"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCash         PaymentMethod = "cash"
	MethodCredit       PaymentMethod = "credit"
	MethodWallet       PaymentMethod = "wallet"
)

// ValidPaymentMethods is the closed set of supported payment methods.
var ValidPaymentMethods = map[PaymentMethod]struct{}{
	MethodUPI:          {},
	MethodBankTransfer: {},
	MethodCash:         {},
	MethodCredit:       {},
	MethodWallet:       {},
}

// PaymentSchedule defines when payment is due relative to the deal.
type PaymentSchedule string

const (
	ScheduleImmediate  PaymentSchedule = "immediate"
	ScheduleOnDelivery PaymentSchedule = "on_delivery"
	SchedulePartial    PaymentSchedule = "partial"
	ScheduleCredit     PaymentSchedule = "credit"
)

// ValidPaymentSchedules is the closed set of payment schedules.
var ValidPaymentSchedules = map[PaymentSchedule]struct{}{
	ScheduleImmediate:  {},
	ScheduleOnDelivery: {},
	SchedulePartial:    {},
	ScheduleCredit:     {},
}

// Role identifies the acting user's role on the marketplace.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleVendor Role = "vendor"
	RoleAgent  Role = "agent"
)

// Responsibility identifies which party bears the delivery cost.
type Responsibility string

const (
	ResponsibilityBuyer  Responsibility = "buyer"
	ResponsibilitySeller Responsibility = "seller"
)

// DeliveryTerms describes how and where a deal is delivered.
type DeliveryTerms struct {
	Location       string         `json:"location" dynamodbav:"location"`
	ExpectedDate   time.Time      `json:"expected_date" dynamodbav:"expected_date"`
	Method         string         `json:"method" dynamodbav:"method"`
	Cost           float64        `json:"cost" dynamodbav:"cost"`
	Responsibility Responsibility `json:"responsibility" dynamodbav:"responsibility"`
}

// PaymentTerms describes how a deal is paid for.
type PaymentTerms struct {
	Method        PaymentMethod   `json:"method" dynamodbav:"method"`
	Schedule      PaymentSchedule `json:"schedule" dynamodbav:"schedule"`
	AdvanceAmount *float64        `json:"advance_amount,omitempty" dynamodbav:"advance_amount,omitempty"`
	DueDate       *time.Time      `json:"due_date,omitempty" dynamodbav:"due_date,omitempty"`
}

// DealConfirmation records the buyer-side confirmation of an agreed deal.
type DealConfirmation struct {
	PriceValidated    bool      `json:"price_validated" dynamodbav:"price_validated"`
	TermsAccepted     bool      `json:"terms_accepted" dynamodbav:"terms_accepted"`
	DeliveryConfirmed bool      `json:"delivery_confirmed" dynamodbav:"delivery_confirmed"`
	ConfirmedBy       string    `json:"confirmed_by" dynamodbav:"confirmed_by"`
	ConfirmedAt       time.Time `json:"confirmed_at" dynamodbav:"confirmed_at"`
}

// CompletionData records the completion criteria checked when closing a deal.
type CompletionData struct {
	DeliveryConfirmed bool   `json:"delivery_confirmed" dynamodbav:"delivery_confirmed"`
	QualityAccepted   bool   `json:"quality_accepted" dynamodbav:"quality_accepted"`
	PaymentReceived   bool   `json:"payment_received" dynamodbav:"payment_received"`
	Notes             string `json:"notes,omitempty" dynamodbav:"notes,omitempty"`
}

// Deal is the central aggregate: a binding agreement between a buyer and a
// seller for a quantity of a commodity at an agreed per-unit price.
type Deal struct {
	Id          string  `json:"id" dynamodbav:"id"`
	BuyerId     string  `json:"buyer_id" dynamodbav:"buyer_id"`
	SellerId    string  `json:"seller_id" dynamodbav:"seller_id"`
	Commodity   string  `json:"commodity" dynamodbav:"commodity"`
	Quantity    float64 `json:"quantity" dynamodbav:"quantity"`
	Unit        string  `json:"unit" dynamodbav:"unit"`
	AgreedPrice float64 `json:"agreed_price" dynamodbav:"agreed_price"`
	Quality     Quality `json:"quality" dynamodbav:"quality"`

	Delivery DeliveryTerms `json:"delivery" dynamodbav:"delivery"`
	Payment  PaymentTerms  `json:"payment" dynamodbav:"payment"`

	Status DealStatus `json:"status" dynamodbav:"status"`

	Confirmation *DealConfirmation `json:"confirmation,omitempty" dynamodbav:"confirmation,omitempty"`
	Completion   *CompletionData   `json:"completion,omitempty" dynamodbav:"completion,omitempty"`

	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`

	PaymentCompletedAt *time.Time `json:"payment_completed_at,omitempty" dynamodbav:"payment_completed_at,omitempty"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty" dynamodbav:"delivered_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty" dynamodbav:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty" dynamodbav:"cancelled_at,omitempty"`
	DisputedAt         *time.Time `json:"disputed_at,omitempty" dynamodbav:"disputed_at,omitempty"`
}

// TotalValue is always computed from its inputs, never stored.
func (d *Deal) TotalValue() float64 {
	return d.AgreedPrice * d.Quantity
}

// IsParticipant reports whether userID is the deal's buyer or seller.
func (d *Deal) IsParticipant(userID string) bool {
	return userID == d.BuyerId || userID == d.SellerId
}

// Counterparty returns the other party of the deal relative to userID.
// The second return value is false when userID is not a participant.
func (d *Deal) Counterparty(userID string) (string, bool) {
	switch userID {
	case d.BuyerId:
		return d.SellerId, true
	case d.SellerId:
		return d.BuyerId, true
	}
	return "", false
}

// DisputeStatus defines the lifecycle of a dispute.
type DisputeStatus string

const (
	DisputeOpen          DisputeStatus = "open"
	DisputeInvestigating DisputeStatus = "investigating"
	DisputeResolved      DisputeStatus = "resolved"
	DisputeEscalated     DisputeStatus = "escalated"
)

// DisputeType categorises a dispute for resolution-workflow selection.
type DisputeType string

const (
	DisputeTypeQuality  DisputeType = "quality"
	DisputeTypeDelivery DisputeType = "delivery"
	DisputeTypePayment  DisputeType = "payment"
	DisputeTypeOther    DisputeType = "other"
)

// Dispute is a formal disagreement raised against a deal by one of its
// participants.
type Dispute struct {
	Id          string        `json:"id" dynamodbav:"id"`
	DealId      string        `json:"deal_id" dynamodbav:"deal_id"`
	RaisedBy    string        `json:"raised_by" dynamodbav:"raised_by"`
	Reason      string        `json:"reason" dynamodbav:"reason"`
	Description string        `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Status      DisputeStatus `json:"status" dynamodbav:"status"`
	CreatedAt   time.Time     `json:"created_at" dynamodbav:"created_at"`
	ResolvedAt  *time.Time    `json:"resolved_at,omitempty" dynamodbav:"resolved_at,omitempty"`
}

// CategoryRatings holds the four per-category scores of a rating, each 1-5.
type CategoryRatings struct {
	Communication int `json:"communication" dynamodbav:"communication"`
	Reliability   int `json:"reliability" dynamodbav:"reliability"`
	Quality       int `json:"quality" dynamodbav:"quality"`
	Timeliness    int `json:"timeliness" dynamodbav:"timeliness"`
}

// Feedback is a post-completion rating one party gives another for a deal.
type Feedback struct {
	Id         string          `json:"id" dynamodbav:"id"`
	DealId     string          `json:"deal_id" dynamodbav:"deal_id"`
	FromUserId string          `json:"from_user_id" dynamodbav:"from_user_id"`
	ToUserId   string          `json:"to_user_id" dynamodbav:"to_user_id"`
	Rating     int             `json:"rating" dynamodbav:"rating"`
	Comment    string          `json:"comment,omitempty" dynamodbav:"comment,omitempty"`
	Categories CategoryRatings `json:"categories" dynamodbav:"categories"`
	CreatedAt  time.Time       `json:"created_at" dynamodbav:"created_at"`
}

// PaymentResult is the result-typed outcome of a payment attempt. It is not
// an error: callers must check Success.
type PaymentResult struct {
	Success       bool          `json:"success"`
	Amount        float64       `json:"amount"`
	Method        PaymentMethod `json:"method"`
	Timestamp     time.Time     `json:"timestamp"`
	TransactionId string        `json:"transaction_id,omitempty"`
	Error         string        `json:"error,omitempty"`
	// Queued marks the offline soft failure: the payment was enqueued for
	// processing when connectivity returns, not rejected.
	Queued bool `json:"queued,omitempty"`
}

// PaymentRecord is the persisted transaction-log entry for an attempt.
type PaymentRecord struct {
	Id            string        `json:"id" dynamodbav:"id"`
	DealId        string        `json:"deal_id" dynamodbav:"deal_id"`
	Success       bool          `json:"success" dynamodbav:"success"`
	Amount        float64       `json:"amount" dynamodbav:"amount"`
	Method        PaymentMethod `json:"method" dynamodbav:"method"`
	TransactionId string        `json:"transaction_id,omitempty" dynamodbav:"transaction_id,omitempty"`
	Error         string        `json:"error,omitempty" dynamodbav:"error,omitempty"`
	Timestamp     time.Time     `json:"timestamp" dynamodbav:"timestamp"`
}

// DeliveryState is the coarse state reported by delivery tracking.
type DeliveryState string

const (
	DeliveryPending   DeliveryState = "pending"
	DeliveryInTransit DeliveryState = "in_transit"
	DeliveryDelayed   DeliveryState = "delayed"
	DeliveryDelivered DeliveryState = "delivered"
)

// DeliveryUpdate is a single timestamped tracking update.
type DeliveryUpdate struct {
	Status    DeliveryState `json:"status"`
	Location  string        `json:"location,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// DeliveryStatus is the tracking view of a deal's delivery.
type DeliveryStatus struct {
	DealId            string           `json:"deal_id"`
	Status            DeliveryState    `json:"status"`
	CurrentLocation   string           `json:"current_location,omitempty"`
	EstimatedDelivery *time.Time       `json:"estimated_delivery,omitempty"`
	Updates           []DeliveryUpdate `json:"updates,omitempty"`
}

// ResolutionStep is one responsibility-assigned step of a dispute
// resolution workflow.
type ResolutionStep struct {
	Step        int    `json:"step" dynamodbav:"step"`
	Description string `json:"description" dynamodbav:"description"`
	Timeframe   string `json:"timeframe" dynamodbav:"timeframe"`
	Responsible string `json:"responsible" dynamodbav:"responsible"`
}

// ResolutionWorkflow is the fixed-template step sequence generated for a
// dispute category. It is generative only: step completion tracking lives
// outside this engine.
type ResolutionWorkflow struct {
	ResolutionId            string           `json:"resolution_id" dynamodbav:"resolution_id"`
	DealId                  string           `json:"deal_id" dynamodbav:"deal_id"`
	DisputeType             DisputeType      `json:"dispute_type" dynamodbav:"dispute_type"`
	Steps                   []ResolutionStep `json:"steps" dynamodbav:"steps"`
	EstimatedResolutionTime string           `json:"estimated_resolution_time" dynamodbav:"estimated_resolution_time"`
	CreatedAt               time.Time        `json:"created_at" dynamodbav:"created_at"`
}

// PromptKind discriminates rating prompts from review prompts.
type PromptKind string

const (
	PromptRating PromptKind = "rating"
	PromptReview PromptKind = "review"
)

// Prompt is a persisted nudge asking a party to rate or review a completed
// deal. Prompts expire.
type Prompt struct {
	Id             string     `json:"id" dynamodbav:"id"`
	DealId         string     `json:"deal_id" dynamodbav:"deal_id"`
	UserId         string     `json:"user_id" dynamodbav:"user_id"`
	CounterpartyId string     `json:"counterparty_id" dynamodbav:"counterparty_id"`
	Kind           PromptKind `json:"kind" dynamodbav:"kind"`
	CreatedAt      time.Time  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt      time.Time  `json:"expires_at" dynamodbav:"expires_at"`
}
