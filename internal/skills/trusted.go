// /internal/skills/trusted.go
package skills

import (
	"strings"
	"time"

	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/mode"
	"kebab-bot/internal/platform"
	"kebab-bot/internal/storage"
)

// attachTrusted lets admins maintain the trust list. Trusted users pass
// trustedOrAdmin guards elsewhere without holding admin rights.
func attachTrusted(d *Deps, t *dispatch.Table) error {
	err := attachToggle(d, t, mode.Mode{Name: "trusted_mode", Default: true})
	if err != nil {
		return err
	}
	guard := d.Modes.Guard("trusted_mode")

	withReply := func(p dispatch.Predicate) dispatch.Predicate {
		return dispatch.And(p, adminOnly(d), func(u *platform.Update) bool {
			return u.ReplyTo != nil && !u.ReplyTo.FromBot
		})
	}

	t.Bind("trust", guard, withReply(dispatch.Command("trust")), func(u *platform.Update) error {
		name := u.ReplyTo.UserName
		trusted, err := d.Store.IsTrusted(u.ReplyTo.UserID)
		if err != nil {
			return err
		}

		msg := "🪄 " + name + " теперь ты настоящий кебаб!"
		if trusted {
			msg = name + " уже настоящий кебаб 👍"
		} else {
			err = d.Store.Trust(storage.TrustRecord{
				UserID:    u.ReplyTo.UserID,
				UserName:  name,
				GrantedBy: u.UserID,
				GrantedAt: time.Now(),
			})
			if err != nil {
				return err
			}
		}
		d.reply(u, msg, nil)
		return nil
	})

	t.Bind("untrust", guard, withReply(dispatch.Command("untrust")), func(u *platform.Update) error {
		if err := d.Store.Untrust(u.ReplyTo.UserID); err != nil {
			return err
		}
		d.reply(u, u.ReplyTo.UserName+" больше не настоящий кебаб 🖕", nil)
		return nil
	})

	t.Bind("trusted_list", guard, dispatch.Command("trusted_list"), func(u *platform.Update) error {
		records, err := d.Store.TrustedList()
		if err != nil {
			return err
		}

		var b strings.Builder
		for _, rec := range records {
			b.WriteString(rec.UserName)
			b.WriteString("\n")
		}
		text := b.String()
		if text == "" {
			text = "настоящих кебабов пока нет 😢"
		}
		d.reply(u, text, &platform.SendOptions{ReplyTo: &u.Message})
		return nil
	})

	return nil
}
