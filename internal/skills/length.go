// /internal/skills/length.go
package skills

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/platform"
)

func attachLength(d *Deps, t *dispatch.Table) error {
	t.Bind("length", nil, dispatch.Command("length"), func(u *platform.Update) error {
		id := strconv.FormatInt(u.UserID, 10)
		d.replyAndClean(u, fmt.Sprintf("Длина твоего telegram id %d 🏆 (%s)", len(id), id), 120*time.Second, false)
		return d.Store.AddPeninsula(u.UserID, u.UserName)
	})

	t.Bind("longest", nil, dispatch.Command("longest"), func(u *platform.Update) error {
		best, err := d.Store.BestPeninsulas(10)
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString("🏆 самых больших 🏆: \n\n")
		for i, p := range best {
			b.WriteString(fmt.Sprintf("%d → %s\n", i+1, p.UserName))
		}
		resp := d.reply(u, b.String(), &platform.SendOptions{DisableNotification: true})
		d.Cleanup.Schedule(&u.Message, resp, 120*time.Second, true, false)
		return nil
	})

	return nil
}
