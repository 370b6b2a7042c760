// /internal/skills/prayer.go
package skills

import (
	"context"
	"fmt"
	"log"
	"time"

	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/platform"
	"kebab-bot/internal/storage"
	"kebab-bot/pkg/util"
)

const prayerNotifyThreshold = 5 * time.Minute

// attachPrayer keeps one current day schedule and warns the chat shortly
// before the next event. The warning is a single pinned message, edited in
// place while the countdown runs.
func attachPrayer(d *Deps, t *dispatch.Table) error {
	if d.Prayer == nil {
		d.Prayer = NewWebSource(d.Cfg.PrayerSourceURL)
	}

	t.Bind("namaz", nil, dispatch.Command("namaz"), func(u *platform.Update) error {
		d.replyAndClean(u, d.nextPrayerText(time.Now()), 120*time.Second, false)
		return nil
	})

	d.Jobs.RunRepeating("prayer_refresh", 60*time.Second, 10*time.Second, func(ctx context.Context) {
		d.refreshPrayer(time.Now())
	})

	d.Jobs.RunRepeating("prayer_notify", 10*time.Second, 30*time.Second, func(ctx context.Context) {
		d.notifyPrayer(time.Now())
	})

	return nil
}

// refreshPrayer drops records from past days and fetches today's schedule
// when none exists. Fetch failures are retried on the next sweep.
func (d *Deps) refreshPrayer(now time.Time) {
	todayKey := util.DateKey(now)
	tomorrowKey := util.DateKey(now.Add(24 * time.Hour))

	records, err := d.Store.AllPrayer()
	if err != nil {
		log.Printf("[ERR] can't list prayer records: %v", err)
		return
	}

	haveToday := false
	for _, rec := range records {
		if rec.DateKey == todayKey {
			haveToday = true
			continue
		}
		log.Printf("[INFO] prayer schedule for %s is gone, deleting", rec.DateKey)
		if err := d.Store.DeletePrayer(rec.DateKey); err != nil {
			log.Printf("[ERR] can't delete stale prayer record %s: %v", rec.DateKey, err)
		}
	}
	if haveToday {
		return
	}

	today, tomorrow, err := d.Prayer.Fetch(todayKey, tomorrowKey)
	if err != nil {
		log.Printf("[WARN] can't update prayer schedule: %v", err)
		return
	}
	err = d.Store.SavePrayer(storage.PrayerRecord{
		DateKey:        todayKey,
		Today:          today,
		Tomorrow:       tomorrow,
		NotifiedBucket: -1,
	})
	if err != nil {
		log.Printf("[ERR] can't save prayer schedule: %v", err)
		return
	}
	log.Printf("[INFO] prayer schedule for %s saved", todayKey)
}

// notifyPrayer sends one tracked warning inside the threshold window and
// keeps it current. A second independent warning is never sent: inside the
// window the tracked message is edited, outside it the tracking is cleared.
func (d *Deps) notifyPrayer(now time.Time) {
	todayKey := util.DateKey(now)
	rec, err := d.Store.FindPrayer(todayKey)
	if err != nil || rec == nil {
		return
	}

	delta, ok := nextPrayerDelta(rec, now)
	if !ok {
		return
	}

	if delta > prayerNotifyThreshold {
		if rec.NotifyMsgID != 0 || rec.NotifiedBucket != -1 {
			if err := d.Store.ClearPrayerNotification(todayKey); err != nil {
				log.Printf("[ERR] can't clear prayer notification: %v", err)
			}
		}
		return
	}

	bucket := int(delta.Minutes())
	text := "⚠️ !!! Внимание !!! ⚠️ \n\nДо намаза осталось менее " +
		util.PluralForm(bucket+1, [3]string{"минуты", "минут", "минут"})

	if rec.NotifyMsgID == 0 {
		ref, err := d.M.Send(d.Cfg.GroupChatID, text, nil)
		if err != nil {
			log.Printf("[WARN] can't send prayer notification: %v", err)
			return
		}
		if err := d.M.Pin(ref); err != nil {
			log.Printf("[WARN] can't pin prayer notification: %v", err)
		}
		if err := d.Store.SetPrayerNotification(todayKey, ref.ChatID, ref.MessageID, bucket); err != nil {
			log.Printf("[ERR] can't track prayer notification: %v", err)
		}

		d.Jobs.RunOnce("prayer_notice_removal", delta, func(ctx context.Context) {
			d.removePrayerNotice(ref, todayKey)
		})
		return
	}

	if bucket != rec.NotifiedBucket {
		ref := platform.MessageRef{ChatID: rec.NotifyChatID, MessageID: rec.NotifyMsgID}
		if _, err := d.M.Edit(ref, text); err != nil {
			log.Printf("[WARN] can't edit prayer notification: %v", err)
			return
		}
		if err := d.Store.SetPrayerNotification(todayKey, rec.NotifyChatID, rec.NotifyMsgID, bucket); err != nil {
			log.Printf("[ERR] can't track prayer notification: %v", err)
		}
	}
}

// removePrayerNotice unpins and deletes the tracked warning at event time
// and clears the stored tracking so the next window starts clean.
func (d *Deps) removePrayerNotice(ref platform.MessageRef, dateKey string) {
	if err := d.M.Unpin(ref.ChatID); err != nil {
		log.Printf("[WARN] can't unpin prayer notification: %v", err)
	}
	d.deleteMessage(ref)
	if err := d.Store.ClearPrayerNotification(dateKey); err != nil {
		log.Printf("[ERR] can't clear prayer notification: %v", err)
	}
}

// nextPrayerDelta picks the nearest event after now: today's remaining
// times, falling back to tomorrow's first.
func nextPrayerDelta(rec *storage.PrayerRecord, now time.Time) (time.Duration, bool) {
	var next time.Time
	for _, raw := range rec.Today {
		at, err := prayerTime(rec.DateKey, raw, now.Location())
		if err != nil {
			continue
		}
		if at.After(now) && (next.IsZero() || at.Before(next)) {
			next = at
		}
	}
	if next.IsZero() && len(rec.Tomorrow) > 0 {
		at, err := prayerTime(util.DateKey(now.Add(24*time.Hour)), rec.Tomorrow[0], now.Location())
		if err == nil && at.After(now) {
			next = at
		}
	}
	if next.IsZero() {
		return 0, false
	}
	return next.Sub(now), true
}

func prayerTime(dateKey, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("02.01.2006 15:04", dateKey+" "+clock, loc)
}

// nextPrayerText renders the countdown for /namaz.
func (d *Deps) nextPrayerText(now time.Time) string {
	rec, err := d.Store.FindPrayer(util.DateKey(now))
	if err != nil || rec == nil {
		return "Не получилось получить время намаза 😥"
	}
	delta, ok := nextPrayerDelta(rec, now)
	if !ok {
		return "Не получилось получить время намаза 😥"
	}

	total := int(delta.Seconds())
	hours := util.PluralForm(total/3600, [3]string{"час", "часа", "часов"})
	minutes := util.PluralForm(total%3600/60, [3]string{"минута", "минуты", "минут"})
	seconds := util.PluralForm(total%60, [3]string{"секунда", "секунды", "секунд"})
	return fmt.Sprintf("До следующего намаза осталось: %s %s %s", hours, minutes, seconds)
}
