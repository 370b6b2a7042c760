// /internal/skills/smile.go
package skills

import (
	"log"

	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/mode"
	"kebab-bot/internal/platform"
)

// Smile mode: only stickers and animations survive.

func attachSmile(d *Deps, t *dispatch.Table) error {
	return attachToggle(d, t, mode.Mode{Name: "smile_mode", PinNotice: true})
}

func attachSmileFilter(d *Deps, t *dispatch.Table) error {
	guard := d.Modes.Guard("smile_mode")
	t.BindExclusive("smile_filter", guard, dispatch.And(dispatch.Message(), func(u *platform.Update) bool {
		return !u.IsSticker && !u.IsAnimation
	}), func(u *platform.Update) error {
		log.Printf("[INFO] smile mode removes msg %d in chat %d", u.Message.MessageID, u.ChatID)
		d.deleteMessage(u.Message)
		return nil
	})
	return nil
}
