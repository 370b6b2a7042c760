// /internal/skills/profanity.go
package skills

import (
	"fmt"
	"strings"

	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/mode"
	"kebab-bot/internal/platform"
)

// Profanity mode: messages with obscene words are deleted and re-posted
// with the bad spans masked out.

func attachProfanity(d *Deps, t *dispatch.Table) error {
	return attachToggle(d, t, mode.Mode{Name: "profanity_mode", Default: true, PinNotice: true})
}

func attachProfanityFilter(d *Deps, t *dispatch.Table) error {
	guard := d.Modes.Guard("profanity_mode")
	t.BindExclusive("profanity_filter", guard, dispatch.And(dispatch.Message(), func(u *platform.Update) bool {
		return wordsFilter.HasBadWords(u.Text)
	}), func(u *platform.Update) error {
		d.deleteMessage(u.Message)
		masked := wordsFilter.MaskBadWords(u.Text)
		text := fmt.Sprintf("%s написал(а) нехорошие слова.\n\nИзмененное сообщение:\n%s\n\nУра, еще один день в раю!", u.UserName, masked)
		_, err := d.M.Send(u.ChatID, text, nil)
		return err
	})
	return nil
}

// maskRange covers [start, stop) byte span with one '*' per rune.
func maskRange(text string, start, stop int) string {
	stars := strings.Repeat("*", len([]rune(text[start:stop])))
	return text[:start] + stars + text[stop:]
}
