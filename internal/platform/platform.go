// Package platform is the boundary to the chat transport. Skills talk to a
// Messenger and receive Updates; nothing above this package imports the
// Telegram client directly. Every outbound call is fallible and non-fatal.
package platform

import "time"

// MessageRef identifies a single message in a chat.
type MessageRef struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int   `json:"message_id"`
}

// Member is a user joining or already present in a chat.
type Member struct {
	ID    int64
	Name  string
	IsBot bool
}

// Reply describes the message an update replies to.
type Reply struct {
	Ref      MessageRef
	UserID   int64
	UserName string
	FromBot  bool // authored by this bot
}

// Update is one inbound event, already normalized by the adapter.
type Update struct {
	ChatID  int64
	Message MessageRef

	UserID   int64
	UserName string

	Text    string
	Command string // "since" for "/since foo", empty for plain messages
	Args    []string

	ReplyTo    *Reply
	NewMembers []Member

	IsSticker   bool
	IsAnimation bool
	IsStatus    bool // join/leave/pin service message

	CallbackID   string // non-empty for button presses
	CallbackData string
}

// Member status values as reported by the transport.
const (
	StatusCreator       = "creator"
	StatusAdministrator = "administrator"
	StatusMember        = "member"
	StatusRestricted    = "restricted"
	StatusLeft          = "left"
	StatusBanned        = "kicked"
)

// SendOptions tweaks an outgoing message.
type SendOptions struct {
	ReplyTo             *MessageRef
	DisableNotification bool
	DecoyButton         string // label for a single inline button carrying DecoyCallback
}

// DecoyCallback is the callback payload attached to decoy buttons.
const DecoyCallback = "42"

// Messenger is the outbound surface the core consumes. Implementations must
// be safe for concurrent use.
type Messenger interface {
	Send(chatID int64, text string, opts *SendOptions) (MessageRef, error)
	Edit(ref MessageRef, text string) (MessageRef, error)
	Delete(ref MessageRef) error
	Pin(ref MessageRef) error
	Unpin(chatID int64) error
	AnswerCallback(callbackID, text string) error
	RemoveMember(chatID, userID int64) error
	RestrictMember(chatID, userID int64, until time.Time) error
	MemberStatus(chatID, userID int64) (string, error)
	BotID() int64
}
