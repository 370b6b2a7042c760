// Package skills holds the bot's features. Each skill binds its handlers
// into the dispatch table once at startup; togglable skills register a mode
// whose guard gates their bindings at dispatch time.
package skills

import (
	"log"
	"time"

	"kebab-bot/internal/cleanup"
	"kebab-bot/internal/config"
	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/mode"
	"kebab-bot/internal/platform"
	"kebab-bot/internal/storage"
	"kebab-bot/pkg/jobmgr"
)

// Deps is everything a skill may need. Built once in main.
type Deps struct {
	Cfg     *config.Config
	M       platform.Messenger
	Store   *storage.Storage
	Modes   *mode.Registry
	Jobs    *jobmgr.Manager
	Cleanup *cleanup.Coordinator

	// Prayer is the schedule source; attachPrayer builds the default
	// web source when nil. Tests inject a fake.
	Prayer PrayerSource
}

// Skill is one feature. Attach binds commands, jobs and joins; AttachFilter
// (optional) binds message-consuming filters, which go last in the table so
// they can never shadow command handlers.
type Skill struct {
	Name         string
	Hint         string
	Attach       func(d *Deps, t *dispatch.Table) error
	AttachFilter func(d *Deps, t *dispatch.Table) error
}

// All lists every skill in attach order. Towel goes first: its quarantine
// filter takes priority over everything else.
func All() []Skill {
	return []Skill{
		{Name: "towel_mode", Hint: "anti kebab", Attach: attachTowel},
		{Name: "core", Hint: "start, help", Attach: attachCore},
		{Name: "timer", Hint: "тик-так", Attach: attachTimer},
		{Name: "since_mode", Hint: "как давно обсуждали", Attach: attachSince},
		{Name: "trusted_mode", Hint: "настоящий ли ты кебаб?", Attach: attachTrusted},
		{Name: "kebab", Hint: "сделать кебаб?", Attach: attachKebab},
		{Name: "roll", Hint: "испытать удачу?", Attach: attachRoll},
		{Name: "length", Hint: "длина твоего инструмента", Attach: attachLength},
		{Name: "namaz", Hint: "получить время намаза", Attach: attachPrayer},
		{Name: "smile_mode", Hint: "только стикеры и картинки", Attach: attachSmile, AttachFilter: attachSmileFilter},
		{Name: "paradise_mode", Hint: "еще один день в раю", Attach: attachParadise, AttachFilter: attachParadiseFilter},
		{Name: "profanity_mode", Hint: "поаккуратнее с языком", Attach: attachProfanity, AttachFilter: attachProfanityFilter},
	}
}

// AttachAll wires every skill into the table: commands first, filters last.
func AttachAll(d *Deps, t *dispatch.Table) error {
	skills := All()
	for _, s := range skills {
		log.Printf("[INFO] registering %s handlers", s.Name)
		if err := s.Attach(d, t); err != nil {
			return err
		}
	}
	for _, s := range skills {
		if s.AttachFilter == nil {
			continue
		}
		if err := s.AttachFilter(d, t); err != nil {
			return err
		}
	}
	return nil
}

// isAdmin asks the platform for the user's member status. Errors degrade to
// "not an admin" so a slow transport can't open a permission hole.
func (d *Deps) isAdmin(chatID, userID int64) bool {
	status, err := d.M.MemberStatus(chatID, userID)
	if err != nil {
		log.Printf("[WARN] can't check member status of %d in chat %d: %v", userID, chatID, err)
		return false
	}
	return status == platform.StatusAdministrator || status == platform.StatusCreator
}

func (d *Deps) isTrusted(userID int64) bool {
	trusted, err := d.Store.IsTrusted(userID)
	if err != nil {
		log.Printf("[WARN] can't check trust of %d: %v", userID, err)
		return false
	}
	return trusted
}

// adminOnly gates a binding on chat admin status.
func adminOnly(d *Deps) dispatch.Predicate {
	return func(u *platform.Update) bool {
		return d.isAdmin(u.ChatID, u.UserID)
	}
}

// trustedOrAdmin gates a binding on the trust list or admin status.
func trustedOrAdmin(d *Deps) dispatch.Predicate {
	return func(u *platform.Update) bool {
		return d.isTrusted(u.UserID) || d.isAdmin(u.ChatID, u.UserID)
	}
}

// reply sends text to the update's chat. Send failures return a nil ref so
// downstream cleanup treats the response as absent.
func (d *Deps) reply(u *platform.Update, text string, opts *platform.SendOptions) *platform.MessageRef {
	ref, err := d.M.Send(u.ChatID, text, opts)
	if err != nil {
		log.Printf("[WARN] can't send message to chat %d: %v", u.ChatID, err)
		return nil
	}
	return &ref
}

// replyAndClean sends a response and schedules the command/response pair
// for deletion: the command goes, the response stays unless removeResponse.
func (d *Deps) replyAndClean(u *platform.Update, text string, delay time.Duration, removeResponse bool) {
	resp := d.reply(u, text, nil)
	d.Cleanup.Schedule(&u.Message, resp, delay, true, removeResponse)
}

// deleteMessage removes a message, logging instead of failing: the message
// may already be gone or the bot may lack rights.
func (d *Deps) deleteMessage(ref platform.MessageRef) {
	if err := d.M.Delete(ref); err != nil {
		log.Printf("[INFO] can't delete msg %d in chat %d: %v", ref.MessageID, ref.ChatID, err)
	}
}

// attachToggle registers a mode and binds its admin-only /<name>_on and
// /<name>_off commands. Toggle notices are pinned when the mode asks for it.
func attachToggle(d *Deps, t *dispatch.Table, m mode.Mode) error {
	if _, err := d.Modes.Register(m); err != nil {
		return err
	}

	toggle := func(enabled bool) dispatch.Action {
		return func(u *platform.Update) error {
			if err := d.Modes.SetEnabled(m.Name, u.ChatID, enabled); err != nil {
				d.replyAndClean(u, "не вышло переключить режим, попробуй позже 😥", 30*time.Second, true)
				return err
			}

			state := "ON"
			if !enabled {
				state = "OFF"
			}
			notice := d.reply(u, m.Name+" "+state, nil)
			if notice != nil && m.PinNotice {
				if err := d.M.Pin(*notice); err != nil {
					log.Printf("[WARN] can't pin %s notice in chat %d: %v", m.Name, u.ChatID, err)
				}
			}
			d.deleteMessage(u.Message)
			return nil
		}
	}

	t.Bind(m.Name+"_on", nil, dispatch.And(dispatch.Command(m.Name+"_on"), adminOnly(d)), toggle(true))
	t.Bind(m.Name+"_off", nil, dispatch.And(dispatch.Command(m.Name+"_off"), adminOnly(d)), toggle(false))
	return nil
}
