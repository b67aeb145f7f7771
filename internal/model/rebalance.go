package model

// AllocationAction is the rebalancing decision for one asset.
type AllocationAction string

const (
	ActionBuy  AllocationAction = "buy"
	ActionSell AllocationAction = "sell"
	ActionHold AllocationAction = "hold"
)

// AssetAllocation is the per-asset outcome of a rebalance plan.
type AssetAllocation struct {
	Asset          string           `json:"asset"`
	TargetPercent  float64          `json:"targetPercent"`
	CurrentPercent float64          `json:"currentPercent"`
	CurrentValue   float64          `json:"currentValue"`
	TargetValue    float64          `json:"targetValue"`
	Action         AllocationAction `json:"action"`
	TradeAmount    float64          `json:"tradeAmount"` // base-asset units
}

// PlannedTrade is one trade derived from an allocation delta.
type PlannedTrade struct {
	Symbol        string    `json:"symbol"`
	Side          TradeSide `json:"side"`
	Amount        float64   `json:"amount"`
	EstimatedCost float64   `json:"estimatedCost"`
}

// RebalancePlan is derived on demand and never persisted.
type RebalancePlan struct {
	TotalValue  float64           `json:"totalValue"`
	Allocations []AssetAllocation `json:"allocations"`
	Trades      []PlannedTrade    `json:"trades"`
}

// TradeResult reports the outcome of one executed plan trade. Failures
// are collected independently; one trade failing never rolls back its
// siblings.
type TradeResult struct {
	Symbol  string    `json:"symbol"`
	Side    TradeSide `json:"side"`
	Amount  float64   `json:"amount"`
	OrderID string    `json:"orderId,omitempty"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}
