// /internal/skills/since.go
package skills

import (
	"fmt"
	"log"
	"strings"
	"time"

	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/mode"
	"kebab-bot/internal/platform"
	"kebab-bot/internal/storage"
)

const sinceTopicMaxLen = 64

func attachSince(d *Deps, t *dispatch.Table) error {
	err := attachToggle(d, t, mode.Mode{Name: "since_mode", Default: true})
	if err != nil {
		return err
	}
	guard := d.Modes.Guard("since_mode")

	t.Bind("since", guard, dispatch.Command("since"), func(u *platform.Update) error {
		title := strings.Join(u.Args, " ")
		if len(title) == 0 {
			log.Println("[WARN] since topic is empty")
			d.reply(u, "топик пуст 😢", &platform.SendOptions{ReplyTo: &u.Message})
			return nil
		}
		if len(title) > sinceTopicMaxLen {
			log.Println("[WARN] since topic too long")
			d.reply(u, "топик слишком длинный 😢", &platform.SendOptions{ReplyTo: &u.Message})
			return nil
		}

		topic, err := d.Store.TouchTopic(title, time.Now())
		if err != nil {
			return err
		}
		d.reply(u, topicLine(topic, time.Now()), &platform.SendOptions{ReplyTo: &u.Message})
		return nil
	})

	t.Bind("since_list", guard, dispatch.Command("since_list"), func(u *platform.Update) error {
		topics, err := d.Store.TopTopics(20)
		if err != nil {
			return err
		}

		var b strings.Builder
		for _, topic := range topics {
			b.WriteString(topicLine(topic, time.Now()))
		}
		text := b.String()
		if text == "" {
			text = "список топиков пуст 😢"
		}
		d.reply(u, text, &platform.SendOptions{ReplyTo: &u.Message})
		return nil
	})

	return nil
}

func topicLine(topic storage.TopicRecord, now time.Time) string {
	days := int(now.Sub(topic.Since).Hours() / 24)
	return fmt.Sprintf("%d дней без «%s»! Обсуждали %d раз\n", days, topic.Topic, topic.Count)
}
