package bot

import (
	"context"
	"errors"
	"fmt"

	"skin_tracker/internal/model"
	"skin_tracker/internal/storage"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to Skin Tracker!

Watch the marketplace for skins you care about and get notified
the moment a matching listing appears.

Quick start:
1. /add ak-47 redline — watch for a skin by name
2. /add karambit +charm — require a keychain attached
3. /list — show your watches

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Commands:
/add <skin name> — watch for listings containing the name
/add <skin name> +charm — only listings with a keychain attached
/list — show your watches
/remove <id> — stop watching

Matching ignores case, punctuation, and accents:
"ak-47" matches "AK-47 | Redline".`)
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, args string) {
	name, charm, err := ParseAddArgs(args)
	if err != nil {
		b.reply(chatID, "Usage: /add <skin name> [+charm]")
		return
	}

	sub := &model.Subscription{
		UserID:        chatID,
		SkinName:      name,
		CharmRequired: charm,
	}
	if err := b.store.CreateSubscription(ctx, sub); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			b.reply(chatID, fmt.Sprintf("You are already watching %q.", name))
			return
		}
		b.log.Error("create subscription", "chat_id", chatID, "error", err)
		b.reply(chatID, "Failed to save the watch, please try again.")
		return
	}

	suffix := ""
	if charm {
		suffix = " (keychain required)"
	}
	b.reply(chatID, fmt.Sprintf("Watch #%d added: %q%s", sub.ID, name, suffix))
}

func (b *Bot) handleList(ctx context.Context, chatID int64) {
	subs, err := b.store.ListSubscriptions(ctx, chatID)
	if err != nil {
		b.log.Error("list subscriptions", "chat_id", chatID, "error", err)
		b.reply(chatID, "Failed to load your watches, please try again.")
		return
	}
	b.reply(chatID, FormatSubscriptionList(subs))
}

func (b *Bot) handleRemove(ctx context.Context, chatID int64, args string) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /remove <id>")
		return
	}

	// Only the owner may delete a watch.
	subs, err := b.store.ListSubscriptions(ctx, chatID)
	if err != nil {
		b.log.Error("list subscriptions", "chat_id", chatID, "error", err)
		b.reply(chatID, "Failed to remove the watch, please try again.")
		return
	}
	var owned *model.Subscription
	for i := range subs {
		if subs[i].ID == id {
			owned = &subs[i]
			break
		}
	}
	if owned == nil {
		b.reply(chatID, fmt.Sprintf("Watch #%d not found.", id))
		return
	}

	if err := b.store.DeleteSubscription(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			b.reply(chatID, fmt.Sprintf("Watch #%d not found.", id))
			return
		}
		b.log.Error("delete subscription", "chat_id", chatID, "error", err)
		b.reply(chatID, "Failed to remove the watch, please try again.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Watch #%d %q removed.", id, owned.SkinName))
}
