// /internal/skills/kebab.go
package skills

import (
	"strings"

	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/platform"
)

// attachKebab lets trusted users speak through the bot: the command is
// deleted and its text re-sent under the bot's name.
func attachKebab(d *Deps, t *dispatch.Table) error {
	t.Bind("kebab", nil, dispatch.And(dispatch.Command("kebab"), trustedOrAdmin(d)), func(u *platform.Update) error {
		text := strings.Join(u.Args, " ")
		d.deleteMessage(u.Message)
		if text == "" {
			return nil
		}
		_, err := d.M.Send(u.ChatID, text, nil)
		return err
	})
	return nil
}
