package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"omnitrade/internal/model"
)

// Binance implements Exchange over the Binance-compatible REST API.
// Market data uses public endpoints; balance and order placement require
// API credentials and are signed with HMAC-SHA256.
type Binance struct {
	name      string
	baseURL   string
	apiKey    string
	apiSecret string
	client    *http.Client
}

// DefaultBinanceURL is the mainnet REST endpoint.
const DefaultBinanceURL = "https://api.binance.com"

// NewBinance creates an adapter. baseURL may point at any
// Binance-compatible venue; empty means mainnet. Credentials are
// optional for public market data.
func NewBinance(name, baseURL, apiKey, apiSecret, proxyURL string) *Binance {
	if name == "" {
		name = "binance"
	}
	if baseURL == "" {
		baseURL = DefaultBinanceURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Binance{
		name:      name,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
	}
}

func (b *Binance) Name() string { return b.name }

// CanTrade reports whether trading credentials are configured.
func (b *Binance) CanTrade() bool { return b.apiKey != "" && b.apiSecret != "" }

// wireSymbol converts "BTC/USDT" to the Binance spelling "BTCUSDT".
func wireSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
}

func (b *Binance) publicGet(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := b.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s fetch: %w", b.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s read body: %w", b.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d, body: %s", b.name, resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s decode: %w", b.name, err)
	}
	return nil
}

func (b *Binance) signedCall(ctx context.Context, method, endpoint string, params url.Values, out any) error {
	if !b.CanTrade() {
		return fmt.Errorf("%s: API credentials not configured", b.name)
	}
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	query := params.Encode()
	mac := hmac.New(sha256.New, []byte(b.apiSecret))
	mac.Write([]byte(query))
	query += "&signature=" + hex.EncodeToString(mac.Sum(nil))

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+endpoint+"?"+query, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-MBX-APIKEY", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", b.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s read body: %w", b.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d, body: %s", b.name, resp.StatusCode, string(body))
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%s decode: %w", b.name, err)
		}
	}
	return nil
}

// binanceTicker is the 24hr ticker response.
type binanceTicker struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	BidPrice           string `json:"bidPrice"`
	AskPrice           string `json:"askPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	QuoteVolume        string `json:"quoteVolume"`
}

func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func (b *Binance) FetchTicker(ctx context.Context, symbol string) (*model.Ticker, error) {
	params := url.Values{}
	params.Set("symbol", wireSymbol(symbol))

	var t binanceTicker
	if err := b.publicGet(ctx, "/api/v3/ticker/24hr", params, &t); err != nil {
		return nil, err
	}
	return &model.Ticker{
		Symbol:    symbol,
		Last:      parsePrice(t.LastPrice),
		Bid:       parsePrice(t.BidPrice),
		Ask:       parsePrice(t.AskPrice),
		ChangePct: parsePrice(t.PriceChangePercent),
		Volume:    parsePrice(t.QuoteVolume),
	}, nil
}

func (b *Binance) FetchOHLCV(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error) {
	if limit <= 0 {
		limit = 100
	}
	params := url.Values{}
	params.Set("symbol", wireSymbol(symbol))
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))

	var raw [][]any
	if err := b.publicGet(ctx, "/api/v3/klines", params, &raw); err != nil {
		return nil, err
	}

	bars := make([]model.OHLCV, 0, len(raw))
	for _, k := range raw {
		if len(k) < 6 {
			continue
		}
		openTime, _ := k[0].(float64)
		bars = append(bars, model.OHLCV{
			Time:   time.UnixMilli(int64(openTime)),
			Open:   klineFloat(k[1]),
			High:   klineFloat(k[2]),
			Low:    klineFloat(k[3]),
			Close:  klineFloat(k[4]),
			Volume: klineFloat(k[5]),
		})
	}
	return bars, nil
}

// klineFloat handles Binance kline fields, which arrive as strings.
func klineFloat(v any) float64 {
	switch n := v.(type) {
	case string:
		return parsePrice(n)
	case float64:
		return n
	default:
		return 0
	}
}

func (b *Binance) FetchBalance(ctx context.Context) (model.Balance, error) {
	var acct struct {
		Balances []struct {
			Asset string `json:"asset"`
			Free  string `json:"free"`
		} `json:"balances"`
	}
	if err := b.signedCall(ctx, http.MethodGet, "/api/v3/account", url.Values{}, &acct); err != nil {
		return nil, err
	}
	balance := make(model.Balance)
	for _, entry := range acct.Balances {
		if free := parsePrice(entry.Free); free > 0 {
			balance[entry.Asset] = free
		}
	}
	return balance, nil
}

// quantity formats an order quantity to 8 decimal places, the common
// spot lot precision.
func quantity(amount float64) string {
	return decimal.NewFromFloat(amount).Round(8).String()
}

type binanceOrder struct {
	OrderID int64 `json:"orderId"`
}

func (b *Binance) placeOrder(ctx context.Context, symbol string, side model.TradeSide, typ model.OrderType, amount, price float64) (*model.Order, error) {
	params := url.Values{}
	params.Set("symbol", wireSymbol(symbol))
	params.Set("side", strings.ToUpper(string(side)))
	params.Set("type", strings.ToUpper(string(typ)))
	params.Set("quantity", quantity(amount))
	if typ == model.OrderLimit {
		params.Set("timeInForce", "GTC")
		params.Set("price", decimal.NewFromFloat(price).Round(8).String())
	}

	var placed binanceOrder
	if err := b.signedCall(ctx, http.MethodPost, "/api/v3/order", params, &placed); err != nil {
		return nil, err
	}
	return &model.Order{
		ID:     strconv.FormatInt(placed.OrderID, 10),
		Symbol: symbol,
		Side:   side,
		Type:   typ,
		Amount: amount,
		Price:  price,
	}, nil
}

func (b *Binance) CreateMarketBuyOrder(ctx context.Context, symbol string, amount float64) (*model.Order, error) {
	return b.placeOrder(ctx, symbol, model.TradeBuy, model.OrderMarket, amount, 0)
}

func (b *Binance) CreateMarketSellOrder(ctx context.Context, symbol string, amount float64) (*model.Order, error) {
	return b.placeOrder(ctx, symbol, model.TradeSell, model.OrderMarket, amount, 0)
}

func (b *Binance) CreateLimitOrder(ctx context.Context, symbol string, side model.TradeSide, amount, price float64) (*model.Order, error) {
	return b.placeOrder(ctx, symbol, side, model.OrderLimit, amount, price)
}
