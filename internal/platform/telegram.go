// /internal/platform/telegram.go
package platform

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	tb "gopkg.in/telebot.v3"
)

const outboundTimeout = 10 * time.Second

// Telegram adapts telebot to the Messenger contract. Outbound calls go
// through a rate limiter so Telegram flood control cannot starve handlers.
type Telegram struct {
	bot     *tb.Bot
	limiter *rate.Limiter
}

func NewTelegram(token string) (*Telegram, error) {
	bot, err := tb.NewBot(tb.Settings{
		Token:  token,
		Poller: &tb.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot: bot,
		// Telegram allows ~30 msg/s overall, far less per group.
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
	}, nil
}

// Listen registers fn for every inbound update and starts long polling.
// Each update is dispatched on its own goroutine. Blocks until Stop.
func (t *Telegram) Listen(fn func(*Update)) {
	handle := func(c tb.Context) error {
		u := t.toUpdate(c)
		if u == nil {
			return nil
		}
		go fn(u)
		return nil
	}
	for _, endpoint := range []string{
		tb.OnText, tb.OnSticker, tb.OnAnimation, tb.OnPhoto, tb.OnVideo,
		tb.OnVoice, tb.OnAudio, tb.OnDocument, tb.OnDice,
		tb.OnUserJoined, tb.OnCallback,
	} {
		t.bot.Handle(endpoint, handle)
	}
	t.bot.Start()
}

func (t *Telegram) Stop() { t.bot.Stop() }

func (t *Telegram) BotID() int64 { return t.bot.Me.ID }

// toUpdate normalizes a telebot context into an Update. Returns nil for
// events the core does not consume.
func (t *Telegram) toUpdate(c tb.Context) *Update {
	if cb := c.Callback(); cb != nil {
		u := &Update{
			CallbackID:   cb.ID,
			CallbackData: strings.TrimPrefix(cb.Data, "\f"),
		}
		if cb.Sender != nil {
			u.UserID = cb.Sender.ID
			u.UserName = displayName(cb.Sender)
		}
		if cb.Message != nil {
			u.ChatID = cb.Message.Chat.ID
			u.Message = MessageRef{ChatID: cb.Message.Chat.ID, MessageID: cb.Message.ID}
		}
		return u
	}

	m := c.Message()
	if m == nil || m.Chat == nil {
		return nil
	}

	u := &Update{
		ChatID:      m.Chat.ID,
		Message:     MessageRef{ChatID: m.Chat.ID, MessageID: m.ID},
		Text:        m.Text,
		IsSticker:   m.Sticker != nil,
		IsAnimation: m.Animation != nil,
	}
	if m.Sender != nil {
		u.UserID = m.Sender.ID
		u.UserName = displayName(m.Sender)
	}
	if m.ReplyTo != nil {
		u.ReplyTo = &Reply{
			Ref: MessageRef{ChatID: m.Chat.ID, MessageID: m.ReplyTo.ID},
		}
		if m.ReplyTo.Sender != nil {
			u.ReplyTo.UserID = m.ReplyTo.Sender.ID
			u.ReplyTo.UserName = displayName(m.ReplyTo.Sender)
			u.ReplyTo.FromBot = m.ReplyTo.Sender.ID == t.bot.Me.ID
		}
	}
	if m.UserJoined != nil {
		u.IsStatus = true
		u.NewMembers = append(u.NewMembers, toMember(m.UserJoined))
	}
	for i := range m.UsersJoined {
		u.IsStatus = true
		u.NewMembers = append(u.NewMembers, toMember(&m.UsersJoined[i]))
	}
	if m.Text == "" && m.Caption != "" {
		u.Text = m.Caption
	}
	u.Command, u.Args = parseCommand(u.Text, t.bot.Me.Username)
	return u
}

func toMember(user *tb.User) Member {
	return Member{ID: user.ID, Name: displayName(user), IsBot: user.IsBot}
}

func displayName(user *tb.User) string {
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.Username
	}
	return name
}

// parseCommand splits "/since@bot foo bar" into ("since", ["foo","bar"]).
func parseCommand(text, botName string) (string, []string) {
	if !strings.HasPrefix(text, "/") {
		return "", nil
	}
	fields := strings.Fields(text)
	cmd := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(cmd, "@"); at >= 0 {
		if botName != "" && !strings.EqualFold(cmd[at+1:], botName) {
			return "", nil // addressed to another bot
		}
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), fields[1:]
}

func (t *Telegram) wait() {
	ctx, cancel := context.WithTimeout(context.Background(), outboundTimeout)
	defer cancel()
	if err := t.limiter.Wait(ctx); err != nil {
		log.Println("[WARN] outbound rate limiter:", err)
	}
}

func (t *Telegram) Send(chatID int64, text string, opts *SendOptions) (MessageRef, error) {
	t.wait()

	sendOpts := &tb.SendOptions{}
	if opts != nil {
		sendOpts.DisableNotification = opts.DisableNotification
		if opts.ReplyTo != nil {
			sendOpts.ReplyTo = &tb.Message{ID: opts.ReplyTo.MessageID, Chat: &tb.Chat{ID: opts.ReplyTo.ChatID}}
		}
		if opts.DecoyButton != "" {
			sendOpts.ReplyMarkup = &tb.ReplyMarkup{
				InlineKeyboard: [][]tb.InlineButton{{{Text: opts.DecoyButton, Data: DecoyCallback}}},
			}
		}
	}

	msg, err := t.bot.Send(tb.ChatID(chatID), text, sendOpts)
	if err != nil {
		return MessageRef{}, err
	}
	return MessageRef{ChatID: chatID, MessageID: msg.ID}, nil
}

func (t *Telegram) Edit(ref MessageRef, text string) (MessageRef, error) {
	t.wait()
	_, err := t.bot.Edit(stored(ref), text)
	return ref, err
}

func (t *Telegram) Delete(ref MessageRef) error {
	t.wait()
	return t.bot.Delete(stored(ref))
}

func (t *Telegram) Pin(ref MessageRef) error {
	t.wait()
	return t.bot.Pin(stored(ref))
}

func (t *Telegram) Unpin(chatID int64) error {
	t.wait()
	return t.bot.Unpin(tb.ChatID(chatID))
}

func (t *Telegram) AnswerCallback(callbackID, text string) error {
	t.wait()
	return t.bot.Respond(&tb.Callback{ID: callbackID}, &tb.CallbackResponse{Text: text, ShowAlert: true})
}

func (t *Telegram) RemoveMember(chatID, userID int64) error {
	t.wait()
	return t.bot.Ban(&tb.Chat{ID: chatID}, &tb.ChatMember{User: &tb.User{ID: userID}})
}

func (t *Telegram) RestrictMember(chatID, userID int64, until time.Time) error {
	t.wait()
	return t.bot.Restrict(&tb.Chat{ID: chatID}, &tb.ChatMember{
		User:            &tb.User{ID: userID},
		Rights:          tb.Rights{CanSendMessages: false},
		RestrictedUntil: until.Unix(),
	})
}

func (t *Telegram) MemberStatus(chatID, userID int64) (string, error) {
	t.wait()
	member, err := t.bot.ChatMemberOf(tb.ChatID(chatID), &tb.User{ID: userID})
	if err != nil {
		return "", err
	}
	return string(member.Role), nil
}

func stored(ref MessageRef) tb.StoredMessage {
	return tb.StoredMessage{MessageID: strconv.Itoa(ref.MessageID), ChatID: ref.ChatID}
}
