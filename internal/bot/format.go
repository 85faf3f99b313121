package bot

import (
	"fmt"
	"strings"

	"skin_tracker/internal/model"
)

// FormatMatch formats a match event as a Telegram notification message.
func FormatMatch(ev model.MatchEvent) string {
	var b strings.Builder
	b.WriteString("New listing found!\n\n")
	b.WriteString(ev.Name)
	fmt.Fprintf(&b, "\nPrice: $%.2f", ev.Price)
	fmt.Fprintf(&b, "\nFloat: %.4f", ev.Float)
	if ev.HasKeychains {
		b.WriteString("\nKeychain: yes")
	}
	if ev.InspectLink != "" {
		b.WriteString("\n\n")
		b.WriteString(ev.InspectLink)
	}
	return b.String()
}

// FormatSubscriptionList formats a user's watches for display.
func FormatSubscriptionList(subs []model.Subscription) string {
	if len(subs) == 0 {
		return "You have no watches yet. Use /add <skin name> to add one."
	}
	var b strings.Builder
	b.WriteString("Your watches:\n")
	for _, sub := range subs {
		fmt.Fprintf(&b, "\n#%d %s", sub.ID, sub.SkinName)
		if sub.CharmRequired {
			b.WriteString(" [keychain required]")
		}
	}
	return b.String()
}
