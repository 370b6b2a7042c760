// /internal/skills/towel.go
package skills

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/mode"
	"kebab-bot/internal/platform"
	"kebab-bot/internal/storage"
	"kebab-bot/pkg/util"
)

const decoyData = platform.DecoyCallback

// Button labels for the decoy. All of them say the same thing.
var iAmTurkish = []string{
	"I'm turkish!",
	"Я турок!",
	"私はトルコ人です！",
	"Ја сам Турчин!",
	"men turkman!",
	"ฉันเป็นคนตุรกี!",
	"ຂ້ອຍເປັນຄົນຕຸລະກີ!",
	"Мен түрікпін!",
	"Jeg er tyrkisk!",
	"我是土耳其人！",
	"He turkish ahau!",
}

// attachTowel quarantines newcomers until they reply to the bot's challenge.
// Its message filter is exclusive and attached first, so a quarantined user
// can't reach any other handler.
func attachTowel(d *Deps, t *dispatch.Table) error {
	err := attachToggle(d, t, mode.Mode{
		Name:    "towel_mode",
		Default: true,
		OnDisable: func(chatID int64) error {
			return d.Store.DeleteAllQuarantine()
		},
	})
	if err != nil {
		return err
	}
	guard := d.Modes.Guard("towel_mode")

	t.Bind("towel_join", guard, dispatch.Joined(), func(u *platform.Update) error {
		for _, member := range u.NewMembers {
			d.quarantine(u.ChatID, member)
		}
		return nil
	})

	// Commands included: a quarantined user gets nothing but the challenge.
	t.BindExclusive("towel_quarantine", guard, func(u *platform.Update) bool {
		if !u.IsStatus && u.CallbackID == "" && u.Message.MessageID != 0 {
			rec, err := d.Store.FindQuarantine(u.UserID)
			return err == nil && rec != nil
		}
		return false
	}, func(u *platform.Update) error {
		if u.ReplyTo != nil && u.ReplyTo.FromBot {
			return d.release(u)
		}
		d.deleteMessage(u.Message)
		return nil
	})

	t.Bind("towel_button", guard, dispatch.Callback(decoyData), func(u *platform.Update) error {
		rec, err := d.Store.FindQuarantine(u.UserID)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("-5 пунктов социального рейтинга, %s", u.UserName)
		if rec != nil {
			msg = fmt.Sprintf("%s, попробуй прочитать сообщение от бота внимательней!!!", u.UserName)
		}
		return d.M.AnswerCallback(u.CallbackID, msg)
	})

	d.Jobs.RunRepeating("towel_sweep", 60*time.Second, 60*time.Second, func(ctx context.Context) {
		d.sweepQuarantine()
	})

	return nil
}

// quarantine challenges a fresh member. The bot greets itself and leaves.
func (d *Deps) quarantine(chatID int64, member platform.Member) {
	log.Printf("[INFO] put %s [%d] in quarantine", member.Name, member.ID)
	added, err := d.Store.AddQuarantine(storage.QuarantineRecord{
		UserID:   member.ID,
		ChatID:   chatID,
		UserName: member.Name,
		ExpireAt: time.Now().Add(time.Duration(d.Cfg.QuarantineMinutes) * time.Minute),
	})
	if err != nil {
		log.Printf("[ERR] can't quarantine %d: %v", member.ID, err)
		return
	}
	if !added {
		return
	}

	challenge := fmt.Sprintf(
		"%s НЕ нажимай на кнопку ниже, чтобы доказать, что ты турок.\n"+
			"Просто ответь (reply) на это сообщение, кратко написав о себе.\n"+
			"Я буду удалять твои сообщения, пока ты не сделаешь это.\n"+
			"А если не сделаешь, через %d минут выкину из чата.\n"+
			"Ничего личного, просто боты одолели.\n",
		member.Name, d.Cfg.QuarantineMinutes)

	ref, err := d.M.Send(chatID, challenge, &platform.SendOptions{
		DecoyButton: iAmTurkish[rand.Intn(len(iAmTurkish))],
	})
	if err != nil {
		log.Printf("[WARN] can't send challenge to chat %d: %v", chatID, err)
		return
	}
	if err := d.Store.AddQuarantineMessage(member.ID, ref.MessageID); err != nil {
		log.Printf("[WARN] can't record challenge msg for %d: %v", member.ID, err)
	}

	if member.ID == d.M.BotID() {
		intro, err := d.M.Send(chatID, "Я простой бот-кебаб, в-основном занимаюсь тем, что бросаю полотенца в новичков.\n",
			&platform.SendOptions{ReplyTo: &ref})
		if err != nil {
			return
		}
		if err := d.Store.DeleteQuarantine(member.ID); err != nil {
			log.Printf("[WARN] can't release the bot itself: %v", err)
		}
		_, _ = d.M.Send(chatID, "Добро пожаловать в дом на горе!", &platform.SendOptions{ReplyTo: &intro})
	}
}

// release lets a quarantined user in: the challenge and any deleted-on-sight
// leftovers go away, the user gets a welcome.
func (d *Deps) release(u *platform.Update) error {
	rec, err := d.Store.FindQuarantine(u.UserID)
	if err != nil || rec == nil {
		return err
	}

	d.deleteQuarantineMessages(rec)
	if err := d.Store.DeleteQuarantine(u.UserID); err != nil {
		return err
	}
	d.reply(u, "Добро пожаловать в дом на горе!", &platform.SendOptions{ReplyTo: &u.Message})
	return nil
}

func (d *Deps) deleteQuarantineMessages(rec *storage.QuarantineRecord) {
	err := util.Parallel(rec.RelMessages, 4, func(ctx context.Context, msgID int) error {
		d.deleteMessage(platform.MessageRef{ChatID: rec.ChatID, MessageID: msgID})
		return nil
	})
	if err != nil {
		log.Printf("[WARN] can't delete quarantine messages of %d: %v", rec.UserID, err)
	}
}

// sweepQuarantine kicks everyone whose challenge expired. The record goes
// away even when the kick fails, matching the rest of the chat's state.
func (d *Deps) sweepQuarantine() {
	records, err := d.Store.AllQuarantine()
	if err != nil {
		log.Printf("[ERR] can't list quarantine: %v", err)
		return
	}

	now := time.Now()
	for _, rec := range records {
		if rec.ExpireAt.After(now) {
			continue
		}
		if err := d.M.RemoveMember(rec.ChatID, rec.UserID); err != nil {
			log.Printf("[ERR] can't ban user %s [%d]: %v", rec.UserName, rec.UserID, err)
		} else {
			d.deleteQuarantineMessages(&rec)
		}
		if err := d.Store.DeleteQuarantine(rec.UserID); err != nil {
			log.Printf("[ERR] can't drop quarantine record of %d: %v", rec.UserID, err)
			continue
		}
		log.Printf("[INFO] user banned: %s [%d]", rec.UserName, rec.UserID)
	}
}
