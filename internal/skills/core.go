// /internal/skills/core.go
package skills

import (
	"fmt"
	"strings"
	"time"

	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/platform"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

func attachCore(d *Deps, t *dispatch.Table) error {
	t.Bind("start", nil, dispatch.Command("start"), func(u *platform.Update) error {
		d.reply(u, "Мирабулички всем в этом чате 🍢\n", nil)
		return nil
	})

	t.Bind("help", nil, dispatch.Command("help"), func(u *platform.Update) error {
		d.replyAndClean(u, helpText(), 120*time.Second, false)
		return nil
	})

	t.Bind("version", nil, dispatch.And(dispatch.Command("version"), adminOnly(d)), func(u *platform.Update) error {
		d.replyAndClean(u, fmt.Sprintf("version.:%s\n\n%s", Version, skillsHints()), 120*time.Second, false)
		return nil
	})

	return nil
}

func helpText() string {
	return "Бот должен быть админом со всеми разрешениями\n\n" +
		"Для админов чата:\n\n" +
		"SmileMode: позволяет только не текстовые сообщения (stickers, gif)\n" +
		"`/smile_mode_on` – smile mode ON\n" +
		"`/smile_mode_off` – smile mode OFF\n" +
		"\n" +
		"Version: просто версия\n" +
		"`/version` – показывает текущую версию бота\n" +
		"Для всех:\n\n" +
		"SinceMode: показывает как давно обсуждали тему\n" +
		"`/since TOPIC` – обновляет счетчик\n" +
		"`/since_list` – список всех обсуждений\n" +
		"Дефолтные режимы:\n" +
		"TowelMode: бросает полотенце и ждет описание от нового участника\n" +
		"TowelMode включен по умолчанию\n\n"
}

func skillsHints() string {
	var b strings.Builder
	for _, s := range All() {
		fmt.Fprintf(&b, "%s – %s\n", s.Name, s.Hint)
	}
	return b.String()
}
