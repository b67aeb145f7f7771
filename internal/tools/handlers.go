package tools

import (
	"context"
	"log"
	"time"

	"omnitrade/internal/alert"
	"omnitrade/internal/arbitrage"
	"omnitrade/internal/calculator"
	"omnitrade/internal/collector"
	"omnitrade/internal/conditional"
	"omnitrade/internal/dca"
	"omnitrade/internal/model"
	"omnitrade/internal/portfolio"
	"omnitrade/internal/rebalance"
	"omnitrade/internal/recorder"
	"omnitrade/internal/scheduler"
	"omnitrade/internal/wallet"
)

// Service wires the trading core into the tool registry.
type Service struct {
	Source       *collector.PriceSource
	Wallet       *wallet.Manager
	Valuator     *portfolio.Valuator
	History      *portfolio.History
	Alerts       *alert.Manager
	Conditionals *conditional.Manager
	DCA          *dca.Manager
	Arbitrage    *arbitrage.Scanner
	Rebalancer   *rebalance.Executor
	Recorder     recorder.Recorder
	DataDir      string
}

// RegisterAll registers every tool on the registry.
func (s *Service) RegisterAll(r *Registry) {
	r.Register("get_price", s.getPrice)
	r.Register("get_ticker", s.getTicker)
	r.Register("get_prices", s.getPrices)
	r.Register("get_klines", s.getKlines)

	r.Register("paper_buy", s.paperBuy)
	r.Register("paper_sell", s.paperSell)
	r.Register("paper_reset", s.paperReset)
	r.Register("paper_history", s.paperHistory)
	r.Register("paper_summary", s.paperSummary)

	r.Register("alert_create", s.alertCreate)
	r.Register("alert_list", s.alertList)
	r.Register("alert_remove", s.alertRemove)
	r.Register("alert_check", s.alertCheck)

	r.Register("conditional_create", s.conditionalCreate)
	r.Register("conditional_list", s.conditionalList)
	r.Register("conditional_remove", s.conditionalRemove)
	r.Register("conditional_toggle", s.conditionalToggle)
	r.Register("conditional_check", s.conditionalCheck)

	r.Register("dca_create", s.dcaCreate)
	r.Register("dca_list", s.dcaList)
	r.Register("dca_remove", s.dcaRemove)
	r.Register("dca_toggle", s.dcaToggle)
	r.Register("dca_execute", s.dcaExecute)

	r.Register("rebalance_preview", s.rebalancePreview)
	r.Register("rebalance_execute", s.rebalanceExecute)

	r.Register("arbitrage_scan", s.arbitrageScan)
	r.Register("arbitrage_check", s.arbitrageCheck)
	r.Register("arbitrage_execute", s.arbitrageExecute)

	r.Register("portfolio_snapshot", s.portfolioSnapshot)
	r.Register("portfolio_history", s.portfolioHistory)
	r.Register("portfolio_clear", s.portfolioClear)

	r.Register("daemon_status", s.daemonStatus)
}

// Market data

func (s *Service) getPrice(ctx context.Context, args map[string]any) Result {
	symbol, ok := stringArg(args, "symbol")
	if !ok {
		return Fail("symbol is required")
	}
	price, err := s.Source.CurrentPrice(ctx, symbol)
	if err != nil {
		return Fail("%v", err)
	}
	return OK(map[string]any{
		"symbol": s.Source.Normalize(symbol),
		"price":  price,
	})
}

func (s *Service) getTicker(ctx context.Context, args map[string]any) Result {
	symbol, ok := stringArg(args, "symbol")
	if !ok {
		return Fail("symbol is required")
	}
	data, err := s.Source.Ticker24h(ctx, symbol)
	if err != nil {
		return Fail("%v", err)
	}
	return OK(data)
}

func (s *Service) getPrices(ctx context.Context, args map[string]any) Result {
	symbols, ok := stringSliceArg(args, "symbols")
	if !ok || len(symbols) == 0 {
		return Fail("symbols is required")
	}
	prices := make([]model.PriceData, 0, len(symbols))
	failed := make(map[string]string)
	for _, symbol := range symbols {
		data, err := s.Source.Ticker24h(ctx, symbol)
		if err != nil {
			failed[s.Source.Normalize(symbol)] = err.Error()
			continue
		}
		prices = append(prices, *data)
	}
	out := map[string]any{"prices": prices}
	if len(failed) > 0 {
		out["failed"] = failed
	}
	return OK(out)
}

func (s *Service) getKlines(ctx context.Context, args map[string]any) Result {
	symbol, ok := stringArg(args, "symbol")
	if !ok {
		return Fail("symbol is required")
	}
	interval, ok := stringArg(args, "interval")
	if !ok {
		interval = "1h"
	}
	limit, ok := intArg(args, "limit")
	if !ok {
		limit = 100
	}
	bars, err := s.Source.Klines(ctx, symbol, interval, limit)
	if err != nil {
		return Fail("%v", err)
	}
	return OK(bars)
}

// Paper trading

func (s *Service) paperBuy(ctx context.Context, args map[string]any) Result {
	asset, ok := stringArg(args, "asset")
	if !ok {
		return Fail("asset is required")
	}
	amount, ok := floatArg(args, "amount")
	if !ok {
		return Fail("amount is required")
	}
	trade, w, err := s.Wallet.ExecuteBuy(ctx, collector.BaseAsset(s.Source.Normalize(asset)), amount)
	if err != nil {
		return Fail("%v", err)
	}
	if err := s.Recorder.RecordTrade(trade); err != nil {
		log.Printf("[ERROR] record trade: %v", err)
	}
	return OK(map[string]any{
		"trade":   trade,
		"balance": calculator.Round2(w.USDT),
	})
}

func (s *Service) paperSell(ctx context.Context, args map[string]any) Result {
	asset, ok := stringArg(args, "asset")
	if !ok {
		return Fail("asset is required")
	}
	amount, ok := floatArg(args, "amount")
	if !ok {
		return Fail("amount is required")
	}
	trade, w, err := s.Wallet.ExecuteSell(ctx, collector.BaseAsset(s.Source.Normalize(asset)), amount)
	if err != nil {
		return Fail("%v", err)
	}
	if err := s.Recorder.RecordTrade(trade); err != nil {
		log.Printf("[ERROR] record trade: %v", err)
	}
	return OK(map[string]any{
		"trade":   trade,
		"balance": calculator.Round2(w.USDT),
	})
}

func (s *Service) paperReset(_ context.Context, _ map[string]any) Result {
	w, err := s.Wallet.Reset()
	if err != nil {
		return Fail("%v", err)
	}
	return OK(w)
}

func (s *Service) paperHistory(_ context.Context, args map[string]any) Result {
	limit, _ := intArg(args, "limit")
	trades, err := s.Wallet.History(limit)
	if err != nil {
		return Fail("%v", err)
	}
	return OK(trades)
}

func (s *Service) paperSummary(ctx context.Context, _ map[string]any) Result {
	summary, err := s.Valuator.Summary(ctx)
	if err != nil {
		return Fail("%v", err)
	}
	return OK(summary)
}

// Alerts

func (s *Service) alertCreate(_ context.Context, args map[string]any) Result {
	symbol, ok := stringArg(args, "symbol")
	if !ok {
		return Fail("symbol is required")
	}
	condition, ok := stringArg(args, "condition")
	if !ok {
		return Fail("condition is required")
	}
	target, ok := floatArg(args, "target_price")
	if !ok {
		return Fail("target_price is required")
	}
	exchangeName, _ := stringArg(args, "exchange")

	a, err := s.Alerts.Add(symbol, exchangeName, model.AlertCondition(condition), target)
	if err != nil {
		return Fail("%v", err)
	}
	return OK(a)
}

func (s *Service) alertList(_ context.Context, _ map[string]any) Result {
	alerts, err := s.Alerts.List()
	if err != nil {
		return Fail("%v", err)
	}
	return OK(alerts)
}

func (s *Service) alertRemove(_ context.Context, args map[string]any) Result {
	id, ok := stringArg(args, "id")
	if !ok {
		return Fail("id is required")
	}
	if err := s.Alerts.Remove(id); err != nil {
		return Fail("%v", err)
	}
	return OK(map[string]any{"removed": id})
}

func (s *Service) alertCheck(ctx context.Context, _ map[string]any) Result {
	triggered, err := s.Alerts.Check(ctx)
	if err != nil {
		return Fail("%v", err)
	}
	return OK(map[string]any{"triggered": triggered})
}

// Conditional orders

func (s *Service) conditionalCreate(ctx context.Context, args map[string]any) Result {
	symbol, ok := stringArg(args, "symbol")
	if !ok {
		return Fail("symbol is required")
	}
	exchangeName, ok := stringArg(args, "exchange")
	if !ok {
		return Fail("exchange is required")
	}
	condType, ok := stringArg(args, "condition_type")
	if !ok {
		return Fail("condition_type is required")
	}
	side, ok := stringArg(args, "side")
	if !ok {
		return Fail("side is required")
	}
	amount, ok := floatArg(args, "amount")
	if !ok {
		return Fail("amount is required")
	}

	cond := model.TriggerCondition{Type: model.ConditionType(condType)}
	cond.TargetPrice, _ = floatArg(args, "target_price")
	cond.PercentChange, _ = floatArg(args, "percent_change")
	if direction, ok := stringArg(args, "direction"); ok {
		cond.Direction = model.ChangeDirection(direction)
	}

	spec := model.OrderSpec{
		Side:   model.TradeSide(side),
		Type:   model.OrderMarket,
		Amount: amount,
	}
	if orderType, ok := stringArg(args, "order_type"); ok {
		spec.Type = model.OrderType(orderType)
	}
	spec.Price, _ = floatArg(args, "price")

	order, err := s.Conditionals.Add(ctx, symbol, exchangeName, cond, spec)
	if err != nil {
		return Fail("%v", err)
	}
	return OK(order)
}

func (s *Service) conditionalList(_ context.Context, _ map[string]any) Result {
	orders, err := s.Conditionals.List()
	if err != nil {
		return Fail("%v", err)
	}
	return OK(orders)
}

func (s *Service) conditionalRemove(_ context.Context, args map[string]any) Result {
	id, ok := stringArg(args, "id")
	if !ok {
		return Fail("id is required")
	}
	if err := s.Conditionals.Remove(id); err != nil {
		return Fail("%v", err)
	}
	return OK(map[string]any{"removed": id})
}

func (s *Service) conditionalToggle(_ context.Context, args map[string]any) Result {
	id, ok := stringArg(args, "id")
	if !ok {
		return Fail("id is required")
	}
	enabled, ok := boolArg(args, "enabled")
	if !ok {
		return Fail("enabled is required")
	}
	if err := s.Conditionals.Toggle(id, enabled); err != nil {
		return Fail("%v", err)
	}
	return OK(map[string]any{"id": id, "enabled": enabled})
}

func (s *Service) conditionalCheck(ctx context.Context, _ map[string]any) Result {
	triggered, err := s.Conditionals.Check(ctx)
	if err != nil {
		return Fail("%v", err)
	}
	return OK(map[string]any{"triggered": triggered})
}

// DCA

func (s *Service) dcaCreate(_ context.Context, args map[string]any) Result {
	symbol, ok := stringArg(args, "symbol")
	if !ok {
		return Fail("symbol is required")
	}
	exchangeName, ok := stringArg(args, "exchange")
	if !ok {
		return Fail("exchange is required")
	}
	amountUSD, ok := floatArg(args, "amount_usd")
	if !ok {
		return Fail("amount_usd is required")
	}
	freq, ok := stringArg(args, "frequency")
	if !ok {
		return Fail("frequency is required")
	}
	cfg, err := s.DCA.Add(symbol, exchangeName, amountUSD, model.Frequency(freq))
	if err != nil {
		return Fail("%v", err)
	}
	return OK(cfg)
}

func (s *Service) dcaList(_ context.Context, _ map[string]any) Result {
	configs, err := s.DCA.List()
	if err != nil {
		return Fail("%v", err)
	}
	return OK(configs)
}

func (s *Service) dcaRemove(_ context.Context, args map[string]any) Result {
	id, ok := stringArg(args, "id")
	if !ok {
		return Fail("id is required")
	}
	if err := s.DCA.Remove(id); err != nil {
		return Fail("%v", err)
	}
	return OK(map[string]any{"removed": id})
}

func (s *Service) dcaToggle(_ context.Context, args map[string]any) Result {
	id, ok := stringArg(args, "id")
	if !ok {
		return Fail("id is required")
	}
	enabled, ok := boolArg(args, "enabled")
	if !ok {
		return Fail("enabled is required")
	}
	if err := s.DCA.Toggle(id, enabled); err != nil {
		return Fail("%v", err)
	}
	return OK(map[string]any{"id": id, "enabled": enabled})
}

func (s *Service) dcaExecute(ctx context.Context, args map[string]any) Result {
	id, ok := stringArg(args, "id")
	if !ok {
		return Fail("id is required")
	}
	run, err := s.DCA.ExecuteNow(ctx, id)
	if err != nil {
		return Fail("%v", err)
	}
	if err := s.Recorder.RecordDCA(run); err != nil {
		log.Printf("[ERROR] record dca: %v", err)
	}
	return OK(run)
}

// Rebalancing. Balances and prices come from the paper wallet, so a
// preview reflects what executing against the paper portfolio would do.

func (s *Service) paperPlanInputs(ctx context.Context, targets map[string]float64) (model.Balance, map[string]float64, float64, error) {
	summary, err := s.Valuator.Summary(ctx)
	if err != nil {
		return nil, nil, 0, err
	}

	balances := model.Balance{"USDT": summary.CashUSDT}
	prices := make(map[string]float64)
	for _, h := range summary.Holdings {
		balances[h.Asset] = h.Amount
		prices[h.Asset] = h.Price
	}
	// Target assets not yet held still need a price for the buy leg.
	for asset := range targets {
		if _, ok := prices[asset]; ok {
			continue
		}
		price, err := s.Source.CurrentPrice(ctx, asset)
		if err != nil {
			return nil, nil, 0, err
		}
		prices[asset] = price
	}
	return balances, prices, summary.TotalValue, nil
}

func (s *Service) rebalancePreview(ctx context.Context, args map[string]any) Result {
	targets, ok := floatMapArg(args, "targets")
	if !ok || len(targets) == 0 {
		return Fail("targets is required")
	}
	balances, prices, totalValue, err := s.paperPlanInputs(ctx, targets)
	if err != nil {
		return Fail("%v", err)
	}
	plan, err := rebalance.CreatePlan(targets, balances, prices, totalValue)
	if err != nil {
		return Fail("%v", err)
	}
	return OK(plan)
}

func (s *Service) rebalanceExecute(ctx context.Context, args map[string]any) Result {
	targets, ok := floatMapArg(args, "targets")
	if !ok || len(targets) == 0 {
		return Fail("targets is required")
	}
	exchangeName, ok := stringArg(args, "exchange")
	if !ok {
		return Fail("exchange is required")
	}
	balances, prices, totalValue, err := s.paperPlanInputs(ctx, targets)
	if err != nil {
		return Fail("%v", err)
	}
	plan, err := rebalance.CreatePlan(targets, balances, prices, totalValue)
	if err != nil {
		return Fail("%v", err)
	}
	results, err := s.Rebalancer.Execute(ctx, exchangeName, plan)
	if err != nil {
		return Fail("%v", err)
	}
	return OK(map[string]any{"plan": plan, "results": results})
}

// Arbitrage

func (s *Service) arbitrageScan(ctx context.Context, args map[string]any) Result {
	symbols, ok := stringSliceArg(args, "symbols")
	if !ok || len(symbols) == 0 {
		return Fail("symbols is required")
	}
	minSpread, _ := floatArg(args, "min_spread_pct")
	return OK(map[string]any{
		"opportunities": s.Arbitrage.Scan(ctx, symbols, minSpread),
	})
}

func (s *Service) arbitrageCheck(ctx context.Context, args map[string]any) Result {
	symbol, ok := stringArg(args, "symbol")
	if !ok {
		return Fail("symbol is required")
	}
	minSpread, _ := floatArg(args, "min_spread_pct")
	opp := s.Arbitrage.Check(ctx, symbol, minSpread)
	return OK(map[string]any{"opportunity": opp, "found": opp != nil})
}

func (s *Service) arbitrageExecute(ctx context.Context, args map[string]any) Result {
	symbol, ok := stringArg(args, "symbol")
	if !ok {
		return Fail("symbol is required")
	}
	amount, ok := floatArg(args, "amount")
	if !ok {
		return Fail("amount is required")
	}
	buyExchange, ok := stringArg(args, "buy_exchange")
	if !ok {
		return Fail("buy_exchange is required")
	}
	sellExchange, ok := stringArg(args, "sell_exchange")
	if !ok {
		return Fail("sell_exchange is required")
	}

	preview, err := s.Arbitrage.Preview(ctx, symbol, amount, buyExchange, sellExchange)
	if err != nil {
		return Fail("%v", err)
	}
	result, err := s.Arbitrage.Execute(ctx, preview)
	if err != nil {
		return Fail("%v", err)
	}
	return OK(map[string]any{"preview": preview, "result": result})
}

// Portfolio history

func (s *Service) portfolioSnapshot(ctx context.Context, _ map[string]any) Result {
	summary, err := s.Valuator.Summary(ctx)
	if err != nil {
		return Fail("%v", err)
	}
	snap := summary.Snapshot(time.Now().UnixMilli(), "paper")
	if err := s.History.Record(snap); err != nil {
		return Fail("%v", err)
	}
	if err := s.Recorder.RecordSnapshot(&snap); err != nil {
		log.Printf("[ERROR] record snapshot: %v", err)
	}
	return OK(snap)
}

func (s *Service) portfolioHistory(_ context.Context, args map[string]any) Result {
	limit, _ := intArg(args, "limit")
	snaps, err := s.History.List(limit)
	if err != nil {
		return Fail("%v", err)
	}
	return OK(snaps)
}

func (s *Service) portfolioClear(_ context.Context, _ map[string]any) Result {
	if err := s.History.Clear(); err != nil {
		return Fail("%v", err)
	}
	return OK(map[string]any{"cleared": true})
}

// Daemon

func (s *Service) daemonStatus(_ context.Context, _ map[string]any) Result {
	return OK(scheduler.ReadStatus(s.DataDir))
}
