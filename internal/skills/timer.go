// /internal/skills/timer.go
package skills

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/platform"
)

// timerUnit is how long one /timer tick lasts. Tests shrink it.
var timerUnit = time.Minute

// attachTimer binds /timer N. The completion message is scheduled through
// the job registry; the handler never sleeps on a worker.
func attachTimer(d *Deps, t *dispatch.Table) error {
	t.Bind("timer", nil, dispatch.Command("timer"), func(u *platform.Update) error {
		minutes := 0
		if len(u.Args) > 0 {
			minutes, _ = strconv.Atoi(u.Args[0])
		}
		if minutes <= 0 {
			d.replyAndClean(u, "Не пиши глупости, укажи нормальное значение для таймера", 30*time.Second, true)
			return nil
		}

		d.reply(u, fmt.Sprintf("Стрелочка вращается, запустил таймер на %d мин", minutes), nil)

		chatID := u.ChatID
		d.Jobs.RunOnce("timer", time.Duration(minutes)*timerUnit, func(ctx context.Context) {
			if _, err := d.M.Send(chatID, "Стрелочка вернулась на место", nil); err != nil {
				log.Printf("[WARN] can't send timer completion to chat %d: %v", chatID, err)
			}
		})

		d.Cleanup.Schedule(&u.Message, nil, 120*time.Second, true, false)
		return nil
	})
	return nil
}
