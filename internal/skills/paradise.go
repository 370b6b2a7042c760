// /internal/skills/paradise.go
package skills

import (
	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/mode"
	"kebab-bot/internal/platform"
)

// Paradise mode: every message is re-posted by the bot with a cheerful
// footer, the original goes away.

func attachParadise(d *Deps, t *dispatch.Table) error {
	return attachToggle(d, t, mode.Mode{Name: "paradise_mode", PinNotice: true})
}

func attachParadiseFilter(d *Deps, t *dispatch.Table) error {
	guard := d.Modes.Guard("paradise_mode")
	t.BindExclusive("paradise_filter", guard, dispatch.Message(), func(u *platform.Update) error {
		d.deleteMessage(u.Message)
		if u.Text == "" {
			return nil
		}
		_, err := d.M.Send(u.ChatID, u.Text+"\n\nУра, еще один день в раю!", nil)
		return err
	})
	return nil
}
