package model

// AlertCondition is the comparison applied against the live price.
type AlertCondition string

const (
	AlertAbove AlertCondition = "above"
	AlertBelow AlertCondition = "below"
)

// Alert is a persisted price alert rule. It is created active and flips
// to Triggered exactly once; the transition is irreversible. A triggered
// alert stays in the document as history until removed by id.
type Alert struct {
	ID          string         `json:"id"`
	Symbol      string         `json:"symbol"`
	Exchange    string         `json:"exchange,omitempty"` // empty means check all configured exchanges
	Condition   AlertCondition `json:"condition"`
	TargetPrice float64        `json:"targetPrice"`
	CreatedAt   int64          `json:"createdAt"`
	Triggered   bool           `json:"triggered"`
	TriggeredAt int64          `json:"triggeredAt,omitempty"`
	// TriggeredPrice is the observed price that satisfied the condition.
	TriggeredPrice float64 `json:"triggeredPrice,omitempty"`
}
