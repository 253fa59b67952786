package panel

import (
	"fmt"
	"strings"
)

// TradeLine is one side of the trade as shown on the status panel.
type TradeLine struct {
	UserName  string   `json:"user_name"`
	Items     []string `json:"items"`
	Confirmed bool     `json:"confirmed"`
}

// StatusView is the snapshot the status panel renders from. It is built by
// use-cases after their transaction commits, so it never shows in-flight
// state.
type StatusView struct {
	TicketID       uint        `json:"ticket_id"`
	ChannelID      string      `json:"channel_id"`
	TicketType     string      `json:"ticket_type"`
	Status         string      `json:"status"`
	OwnerName      string      `json:"owner_name"`
	MiddlemanName  string      `json:"middleman_name,omitempty"`
	Trades         []TradeLine `json:"trades,omitempty"`
	ClosedByForce  bool        `json:"closed_by_force,omitempty"`
}

// FinalizationView lists quorum members and who has confirmed closure.
type FinalizationView struct {
	TicketID  uint
	Members   []FinalizationMember
	Satisfied bool
}

type FinalizationMember struct {
	UserName  string
	Confirmed bool
}

var statusLabels = map[string]string{
	"open":      "🟢 Open",
	"claimed":   "🟡 Claimed",
	"confirmed": "🔵 Confirmed",
	"closed":    "⚫ Closed",
}

func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

func formatStatusText(view StatusView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Ticket #%d** · %s\n", view.TicketID, view.TicketType)
	fmt.Fprintf(&b, "Status: %s", statusLabel(view.Status))
	if view.ClosedByForce {
		b.WriteString(" (forced)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Opened by: %s\n", view.OwnerName)
	if view.MiddlemanName != "" {
		fmt.Fprintf(&b, "Middleman: %s\n", view.MiddlemanName)
	}

	for _, line := range view.Trades {
		mark := "⏳"
		if line.Confirmed {
			mark = "✅"
		}
		items := "nothing listed"
		if len(line.Items) > 0 {
			items = strings.Join(line.Items, ", ")
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, line.UserName, items)
	}

	return strings.TrimRight(b.String(), "\n")
}

// statusCaption is the short text used when a rendered card carries the
// detail.
func statusCaption(view StatusView) string {
	return fmt.Sprintf("Ticket #%d · %s", view.TicketID, statusLabel(view.Status))
}

func formatFinalizationText(view FinalizationView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Closing ticket #%d**\n", view.TicketID)
	b.WriteString("Everyone involved must confirm before the ticket closes.\n")

	for _, m := range view.Members {
		mark := "⏳"
		if m.Confirmed {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s %s\n", mark, m.UserName)
	}

	if view.Satisfied {
		b.WriteString("All confirmations received.")
	}

	return strings.TrimRight(b.String(), "\n")
}
