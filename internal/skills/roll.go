// /internal/skills/roll.go
package skills

import (
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/platform"
	"kebab-bot/internal/storage"
)

const (
	numBullets  = 6
	muteMinutes = 16 * 60
)

// memePattern matches the command typed with lookalike letters from
// either alphabet, so /р0лл fires the same as /roll.
var memePattern = regexp.MustCompile(`(?i)/[rрp][оo0][1lл]{2}`)

// cylinders keeps one revolver per chat. The outer lock guards only the
// map; each cylinder carries its own mutex, so rolls in one chat never
// wait on another chat's trigger.
type cylinders struct {
	mu    sync.Mutex
	chats map[int64]*cylinder
}

// cylinder is a single chat's revolver. Each shot pops a chamber; a hit
// reloads it for the next player.
type cylinder struct {
	mu     sync.Mutex
	barrel []bool
}

func newCylinders() *cylinders {
	return &cylinders{chats: make(map[int64]*cylinder)}
}

func (c *cylinders) forChat(chatID int64) *cylinder {
	c.mu.Lock()
	defer c.mu.Unlock()

	cyl, ok := c.chats[chatID]
	if !ok {
		cyl = &cylinder{}
		c.chats[chatID] = cyl
	}
	return cyl
}

func (c *cylinders) shot(chatID int64) (hit bool, shotsRemain int) {
	return c.forChat(chatID).shot()
}

func (cyl *cylinder) reload() {
	barrel := make([]bool, numBullets)
	barrel[rand.Intn(numBullets)] = true
	cyl.barrel = barrel
}

// shot fires once and reports the outcome plus the chambers left.
func (cyl *cylinder) shot() (hit bool, shotsRemain int) {
	cyl.mu.Lock()
	defer cyl.mu.Unlock()

	if len(cyl.barrel) == 0 {
		cyl.reload()
	}

	hit = cyl.barrel[len(cyl.barrel)-1]
	cyl.barrel = cyl.barrel[:len(cyl.barrel)-1]
	shotsRemain = len(cyl.barrel)
	if hit {
		cyl.reload()
	}
	return hit, shotsRemain
}

func muteMinutesFor(shotsRemain int) int {
	return muteMinutes * (numBullets - shotsRemain)
}

var missFaces = []string{"😕", "😟", "😥", "😫", "😱"}

// missString draws the barrel state: fired chambers first, live ones after.
func missString(shotsRemain int) string {
	fired := strings.Repeat("🔘", numBullets-shotsRemain)
	left := strings.Repeat("⚪️", shotsRemain)
	hours := muteMinutesFor(shotsRemain-1) / 60
	return fmt.Sprintf("%s🔫 МИМО! Попытка: %s%s, %d час.", missFaces[numBullets-shotsRemain-1], fired, left, hours)
}

func attachRoll(d *Deps, t *dispatch.Table) error {
	arena := newCylinders()

	rollAction := func(u *platform.Update) error {
		now := time.Now()
		if err := d.Store.EnsureLeader(u.UserID, u.UserName, now); err != nil {
			return err
		}

		hit, shotsRemain := arena.shot(u.ChatID)
		if hit {
			log.Printf("[INFO] %s [%d] is rolling and... he is dead!", u.UserName, u.UserID)
			mute := muteMinutesFor(shotsRemain)
			resp := d.reply(u, fmt.Sprintf("💥 бум! %s 😵 [%d час. отдыха]", u.UserName, mute/60), nil)
			until := now.Add(time.Duration(mute) * time.Minute)
			if err := d.M.RestrictMember(u.ChatID, u.UserID, until); err != nil {
				log.Printf("[WARN] can't mute %s [%d]: %v", u.UserName, u.UserID, err)
			}
			if err := d.Store.RecordDeath(u.UserID, mute, now); err != nil {
				return err
			}
			d.Cleanup.Schedule(&u.Message, resp, 120*time.Second, true, false)
			return nil
		}

		log.Printf("[INFO] %s [%d] is rolling and... miss!", u.UserName, u.UserID)
		if err := d.Store.RecordMiss(u.UserID, now); err != nil {
			return err
		}
		resp := d.reply(u, u.UserName+": "+missString(shotsRemain), nil)
		d.Cleanup.Schedule(&u.Message, resp, 120*time.Second, true, false)
		return nil
	}

	t.Bind("roll", nil, dispatch.Or(dispatch.Command("roll"), func(u *platform.Update) bool {
		return u.Command == "" && memePattern.MatchString(u.Text)
	}), rollAction)

	t.Bind("wipe_me", nil, dispatch.Command("wipe_me"), func(u *platform.Update) error {
		if err := d.Store.RemoveLeader(u.UserID); err != nil {
			return err
		}
		log.Printf("[INFO] %s [%d] was wiped from the leaderboard", u.UserName, u.UserID)
		resp := d.reply(u, "ок, бумер 😒", &platform.SendOptions{DisableNotification: true})
		d.Cleanup.Schedule(&u.Message, resp, 120*time.Second, true, false)
		return nil
	})

	t.Bind("leaders", nil, dispatch.And(dispatch.Command("leaders"), adminOnly(d)), func(u *platform.Update) error {
		leaders, err := d.Store.Leaders()
		if err != nil {
			return err
		}
		resp := d.reply(u, leaderBoard(leaders), &platform.SendOptions{DisableNotification: true})
		d.Cleanup.Schedule(&u.Message, resp, 600*time.Second, true, false)
		return nil
	})

	t.Bind("top", nil, dispatch.Command("top"), func(u *platform.Update) error {
		leaders, err := d.Store.Leaders()
		if err != nil {
			return err
		}

		var restricted []storage.LeaderRecord
		for _, leader := range leaders {
			status, err := d.M.MemberStatus(u.ChatID, leader.UserID)
			if err != nil {
				log.Printf("[WARN] can't get member %d, skip: %v", leader.UserID, err)
				continue
			}
			if status == platform.StatusRestricted {
				restricted = append(restricted, leader)
			}
		}

		text := "Никто не пришёл на фан встречу 😢"
		if len(restricted) > 0 {
			var b strings.Builder
			b.WriteString("Лидеры ☠️:\n")
			for _, leader := range restricted {
				b.WriteString(fmt.Sprintf("%s %s \n", nameEmoji(leader.UserName), leader.UserName))
			}
			text = b.String()
		}
		resp := d.reply(u, text, nil)
		d.Cleanup.Schedule(&u.Message, resp, 120*time.Second, true, false)
		return nil
	})

	t.Bind("wipe_leaders", nil, dispatch.And(dispatch.Command("wipe_leaders"), adminOnly(d)), func(u *platform.Update) error {
		if err := d.Store.WipeLeaders(); err != nil {
			return err
		}
		log.Println("[INFO] the leaderboard was wiped")
		resp := d.reply(u, "👍", &platform.SendOptions{DisableNotification: true})
		d.Cleanup.Schedule(&u.Message, resp, 120*time.Second, true, false)
		return nil
	})

	return nil
}

// nameEmoji picks a stable face for a name so the list reads the same
// between refreshes.
func nameEmoji(name string) string {
	var sum int
	for _, r := range name {
		sum += int(r)
	}
	return string(rune('😀' + sum%75))
}

// leaderBoard renders the score table as monospace text.
func leaderBoard(leaders []storage.LeaderRecord) string {
	var b strings.Builder
	b.WriteString("Таблица главных кебабов\n")
	b.WriteString(strings.Repeat("=", 51) + "\n")
	b.WriteString(fmt.Sprintf("%-18s | %-8s | %-6s | %s\n", "время в клубе", "попытки", "смерти", "кебаб"))
	b.WriteString(strings.Repeat("-", 51) + "\n")
	for _, l := range leaders {
		inClub := time.Duration(l.TimeInClub) * time.Second
		b.WriteString(fmt.Sprintf("%-18s | %-8d | %-6d | %s\n", inClub.String(), l.ShotCounter, l.DeadCounter, l.UserName))
	}
	b.WriteString(strings.Repeat("-", 51))
	return b.String()
}
