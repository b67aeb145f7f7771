package model

// TradeSide is the direction of an executed trade.
type TradeSide string

const (
	TradeBuy  TradeSide = "buy"
	TradeSell TradeSide = "sell"
)

// Holding tracks a currently-held asset position and its cost basis.
// TotalCost is the cumulative quote-currency cost attributed to the
// currently-held amount; on partial sells it is reduced proportionally
// so AvgBuyPrice survives partial exits.
type Holding struct {
	Asset       string  `json:"asset"`
	Amount      float64 `json:"amount"`
	AvgBuyPrice float64 `json:"avgBuyPrice"`
	TotalCost   float64 `json:"totalCost"`
}

// Trade is an immutable record of one executed paper trade.
type Trade struct {
	ID           string    `json:"id"`
	Timestamp    int64     `json:"timestamp"` // unix millis
	Side         TradeSide `json:"side"`
	Asset        string    `json:"asset"`
	Symbol       string    `json:"symbol"`
	Amount       float64   `json:"amount"`
	Price        float64   `json:"price"`
	QuoteValue   float64   `json:"quoteValue"`
	Fee          float64   `json:"fee"`
	BalanceAfter float64   `json:"balanceAfter"`
}

// PaperWallet is the persisted virtual balance sheet. USDT is the cash
// balance in the quote stablecoin; it only changes through buy/sell
// execution. Holdings drop out of the map entirely once their amount
// falls below the dust epsilon.
type PaperWallet struct {
	Version   int                 `json:"version"`
	CreatedAt int64               `json:"createdAt"`
	USDT      float64             `json:"usdt"`
	Holdings  map[string]*Holding `json:"holdings"`
	Trades    []Trade             `json:"trades"`
}
