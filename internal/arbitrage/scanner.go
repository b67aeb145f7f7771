package arbitrage

import (
	"context"
	"fmt"
	"log"
	"sort"

	"omnitrade/internal/calculator"
	"omnitrade/internal/collector"
	"omnitrade/internal/exchange"
	"omnitrade/internal/model"
)

// legFeeRate is the flat estimated fee per execution leg.
const legFeeRate = 0.001

// Scanner compares best bid/ask across the configured exchanges. It is
// stateless; all spread figures are pre-fee.
type Scanner struct {
	registry    *exchange.Registry
	quote       string
	autoExecute bool
}

// NewScanner creates a Scanner.
func NewScanner(registry *exchange.Registry, quote string, autoExecute bool) *Scanner {
	return &Scanner{registry: registry, quote: quote, autoExecute: autoExecute}
}

// quotes gathers bid/ask from every exchange, skipping per-venue
// failures silently.
func (s *Scanner) quotes(ctx context.Context, symbol string) []model.ExchangeQuote {
	var out []model.ExchangeQuote
	for _, ex := range s.registry.All() {
		ticker, err := ex.FetchTicker(ctx, symbol)
		if err != nil || ticker.Bid <= 0 || ticker.Ask <= 0 {
			continue
		}
		out = append(out, model.ExchangeQuote{Exchange: ex.Name(), Bid: ticker.Bid, Ask: ticker.Ask})
	}
	return out
}

// check finds the best opportunity for one symbol, or nil. Ties on the
// best bid/ask go to the exchange encountered first.
func (s *Scanner) check(ctx context.Context, symbol string, minSpreadPct float64) *model.Opportunity {
	quotes := s.quotes(ctx, symbol)
	if len(quotes) < 2 {
		return nil
	}

	bestBuy := quotes[0]
	bestSell := quotes[0]
	for _, q := range quotes[1:] {
		if q.Ask < bestBuy.Ask {
			bestBuy = q
		}
		if q.Bid > bestSell.Bid {
			bestSell = q
		}
	}

	if bestSell.Bid <= bestBuy.Ask {
		return nil
	}
	spread := calculator.PercentChange(bestBuy.Ask, bestSell.Bid)
	if spread < minSpreadPct {
		return nil
	}
	return &model.Opportunity{
		Symbol:       symbol,
		BuyExchange:  bestBuy.Exchange,
		BuyPrice:     bestBuy.Ask,
		SellExchange: bestSell.Exchange,
		SellPrice:    bestSell.Bid,
		SpreadPct:    spread,
	}
}

// Check returns the best opportunity for one symbol, or nil when no
// spread meets the threshold.
func (s *Scanner) Check(ctx context.Context, symbol string, minSpreadPct float64) *model.Opportunity {
	return s.check(ctx, collector.NormalizeSymbol(symbol, s.quote), minSpreadPct)
}

// Scan reports every opportunity across the symbol set, sorted
// descending by spread percentage.
func (s *Scanner) Scan(ctx context.Context, symbols []string, minSpreadPct float64) []model.Opportunity {
	var opps []model.Opportunity
	for _, symbol := range symbols {
		if opp := s.Check(ctx, symbol, minSpreadPct); opp != nil {
			opps = append(opps, *opp)
		}
	}
	sort.Slice(opps, func(i, j int) bool { return opps[i].SpreadPct > opps[j].SpreadPct })
	return opps
}

// Preview computes the profitability of one arbitrage trade: gross
// spread, a flat 0.1% fee per leg, and the net. A non-positive net is
// refused before any order is considered.
func (s *Scanner) Preview(ctx context.Context, symbol string, amount float64, buyExchange, sellExchange string) (*model.ArbitragePreview, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("arbitrage amount: %w", model.ErrInvalidAmount)
	}
	pair := collector.NormalizeSymbol(symbol, s.quote)

	buyEx, err := s.registry.Get(buyExchange)
	if err != nil {
		return nil, err
	}
	sellEx, err := s.registry.Get(sellExchange)
	if err != nil {
		return nil, err
	}

	buyTicker, err := buyEx.FetchTicker(ctx, pair)
	if err != nil || buyTicker.Ask <= 0 {
		return nil, fmt.Errorf("%s on %s: %w", pair, buyExchange, model.ErrPriceUnavailable)
	}
	sellTicker, err := sellEx.FetchTicker(ctx, pair)
	if err != nil || sellTicker.Bid <= 0 {
		return nil, fmt.Errorf("%s on %s: %w", pair, sellExchange, model.ErrPriceUnavailable)
	}

	gross := (sellTicker.Bid - buyTicker.Ask) * amount
	fees := buyTicker.Ask*amount*legFeeRate + sellTicker.Bid*amount*legFeeRate
	net := gross - fees
	if net <= 0 {
		return nil, fmt.Errorf("net profit %.2f after estimated fees, refusing to trade", net)
	}
	return &model.ArbitragePreview{
		Symbol:        pair,
		Amount:        amount,
		BuyExchange:   buyExchange,
		SellExchange:  sellExchange,
		BuyPrice:      buyTicker.Ask,
		SellPrice:     sellTicker.Bid,
		GrossProfit:   gross,
		EstimatedFees: fees,
		NetProfit:     net,
	}, nil
}

// Execute places the two legs sequentially: buy, then sell. A sell
// failure after a successful buy is reported as a partial execution
// requiring manual intervention; no automatic unwind is attempted.
func (s *Scanner) Execute(ctx context.Context, preview *model.ArbitragePreview) (*model.ArbitrageResult, error) {
	if !s.autoExecute {
		return nil, model.ErrAuthorizationRequired
	}
	buyEx, err := s.registry.Get(preview.BuyExchange)
	if err != nil {
		return nil, err
	}
	sellEx, err := s.registry.Get(preview.SellExchange)
	if err != nil {
		return nil, err
	}

	result := &model.ArbitrageResult{Symbol: preview.Symbol, Amount: preview.Amount}

	buyOrder, err := buyEx.CreateMarketBuyOrder(ctx, preview.Symbol, preview.Amount)
	if err != nil {
		return nil, fmt.Errorf("buy leg on %s: %w", preview.BuyExchange, err)
	}
	result.BuyOrderID = buyOrder.ID

	sellOrder, err := sellEx.CreateMarketSellOrder(ctx, preview.Symbol, preview.Amount)
	if err != nil {
		result.Partial = true
		result.Message = fmt.Sprintf(
			"buy filled on %s but sell failed on %s: %v; %.8f %s is held unhedged on %s, manual intervention required",
			preview.BuyExchange, preview.SellExchange, err,
			preview.Amount, collector.BaseAsset(preview.Symbol), preview.BuyExchange)
		log.Printf("[ERROR] arbitrage partial execution: %s", result.Message)
		return result, nil
	}
	result.SellOrderID = sellOrder.ID
	return result, nil
}
