package model

// ConditionType selects the trigger predicate of a conditional order.
type ConditionType string

const (
	CondPriceAbove         ConditionType = "price_above"
	CondPriceBelow         ConditionType = "price_below"
	CondPriceChangePercent ConditionType = "price_change_percent"
)

// ChangeDirection is the direction of a percent-change condition.
type ChangeDirection string

const (
	DirectionUp   ChangeDirection = "up"
	DirectionDown ChangeDirection = "down"
)

// TriggerCondition describes when a conditional order fires. For
// percent-change conditions, BasePrice is snapshotted once at creation
// time and never refreshed.
type TriggerCondition struct {
	Type          ConditionType   `json:"type"`
	TargetPrice   float64         `json:"targetPrice,omitempty"`
	PercentChange float64         `json:"percentChange,omitempty"`
	Direction     ChangeDirection `json:"direction,omitempty"`
	BasePrice     float64         `json:"basePrice,omitempty"`
}

// OrderType is the exchange order type placed on trigger.
type OrderType string

const (
	OrderMarket OrderType = "market"
	OrderLimit  OrderType = "limit"
)

// OrderSpec is the order submitted when the condition fires.
type OrderSpec struct {
	Side   TradeSide `json:"side"`
	Type   OrderType `json:"type"`
	Amount float64   `json:"amount"`
	Price  float64   `json:"price,omitempty"` // limit orders only
}

// ConditionalOrder is a persisted trigger rule. A trigger consumes the
// rule whether or not the order placement succeeds; OrderID or Error
// records the outcome.
type ConditionalOrder struct {
	ID        string           `json:"id"`
	Symbol    string           `json:"symbol"`
	Exchange  string           `json:"exchange"`
	Condition TriggerCondition `json:"condition"`
	Order     OrderSpec        `json:"order"`
	Enabled   bool             `json:"enabled"`
	Triggered bool             `json:"triggered"`
	OrderID   string           `json:"orderId,omitempty"`
	Error     string           `json:"error,omitempty"`
	CreatedAt int64            `json:"createdAt"`
}
