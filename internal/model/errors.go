package model

import "errors"

// Sentinel errors shared across the trading core. Call sites wrap them
// with fmt.Errorf("...: %w", err) to add context.
var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInsufficientFunds     = errors.New("insufficient USDT balance")
	ErrInsufficientHolding   = errors.New("insufficient holding")
	ErrPriceUnavailable      = errors.New("price unavailable")
	ErrInvalidTargets        = errors.New("target percentages must sum to 100")
	ErrMissingPrice          = errors.New("no price available for asset")
	ErrAuthorizationRequired = errors.New("auto-execution is disabled; enable auto_execute to place real orders")
	ErrExchangeNotConfigured = errors.New("exchange not configured")
	ErrNotFound              = errors.New("not found")
)
