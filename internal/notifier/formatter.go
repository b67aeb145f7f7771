package notifier

import (
	"fmt"
	"strings"

	"omnitrade/internal/dca"
	"omnitrade/internal/model"
)

// FormatAlert formats a triggered alert for delivery.
func FormatAlert(a *model.Alert) string {
	var b strings.Builder
	b.WriteString("🔔 <b>Price alert triggered</b>\n\n")
	b.WriteString(fmt.Sprintf("%s %s %.8g\n", a.Symbol, a.Condition, a.TargetPrice))
	if a.TriggeredPrice > 0 {
		b.WriteString(fmt.Sprintf("Price: %.8g\n", a.TriggeredPrice))
	}
	if a.Exchange != "" {
		b.WriteString(fmt.Sprintf("Exchange: %s\n", a.Exchange))
	}
	return b.String()
}

// FormatConditional formats a fired conditional order for delivery.
func FormatConditional(o *model.ConditionalOrder) string {
	var b strings.Builder
	b.WriteString("⚡ <b>Conditional order fired</b>\n\n")
	b.WriteString(fmt.Sprintf("%s %s %.8g %s on %s\n",
		o.Order.Side, o.Order.Type, o.Order.Amount, o.Symbol, o.Exchange))
	if o.OrderID != "" {
		b.WriteString(fmt.Sprintf("Order id: %s\n", o.OrderID))
	}
	if o.Error != "" {
		b.WriteString(fmt.Sprintf("⚠️ Order failed: %s\n", o.Error))
	}
	return b.String()
}

// FormatDCA formats one DCA run for delivery.
func FormatDCA(run *dca.Execution) string {
	var b strings.Builder
	if run.Simulated {
		b.WriteString("💱 <b>DCA simulated</b>\n\n")
	} else {
		b.WriteString("💱 <b>DCA executed</b>\n\n")
	}
	b.WriteString(fmt.Sprintf("%.2f USD of %s on %s", run.AmountUSD, run.Symbol, run.Exchange))
	if run.Quantity > 0 {
		b.WriteString(fmt.Sprintf(" (%.8f @ %.8g)", run.Quantity, run.Price))
	}
	b.WriteString("\n")
	if run.Error != "" {
		b.WriteString(fmt.Sprintf("⚠️ %s\n", run.Error))
	}
	return b.String()
}
