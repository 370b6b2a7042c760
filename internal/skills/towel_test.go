package skills

import (
	"errors"
	"strings"
	"testing"
	"time"

	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/platform"
	"kebab-bot/internal/storage"
)

func joinUpdate(chatID, userID int64, name string) *platform.Update {
	return &platform.Update{
		ChatID:     chatID,
		Message:    platform.MessageRef{ChatID: chatID, MessageID: 1},
		IsStatus:   true,
		NewMembers: []platform.Member{{ID: userID, Name: name}},
	}
}

func towelTable(t *testing.T, d *Deps) *dispatch.Table {
	t.Helper()
	table := dispatch.NewTable()
	if err := attachTowel(d, table); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	return table
}

func TestTowel_JoinReplyRelease(t *testing.T) {
	d, m := testDeps(t)
	table := towelTable(t, d)

	// a later binding stands in for every other skill
	var passedThrough int
	table.Bind("sentinel", nil, dispatch.Message(), func(u *platform.Update) error {
		passedThrough++
		return nil
	})

	table.Dispatch(joinUpdate(1, 42, "newbie"))

	rec, err := d.Store.FindQuarantine(42)
	if err != nil || rec == nil {
		t.Fatalf("no quarantine record after join: %v", err)
	}
	if rec.ExpireAt.Before(time.Now().Add(59 * time.Minute)) {
		t.Errorf("expiry %v is sooner than the configured quarantine", rec.ExpireAt)
	}
	texts := m.sentTexts()
	if len(texts) != 1 || !strings.Contains(texts[0], "НЕ нажимай на кнопку") {
		t.Fatalf("challenge not sent: %v", texts)
	}
	if m.sent[0].Opts == nil || m.sent[0].Opts.DecoyButton == "" {
		t.Fatal("challenge carries no decoy button")
	}

	// non-reply messages are deleted on sight and reach nothing else
	msg := plainMessage(1, 42, 50, "hello?")
	table.Dispatch(msg)
	refs := m.deletedRefs()
	if len(refs) != 1 || refs[0] != msg.Message {
		t.Fatal("quarantined message was not deleted")
	}
	if passedThrough != 0 {
		t.Fatal("quarantined message leaked past the filter")
	}

	// even commands are swallowed while quarantined
	table.Dispatch(command(1, 42, "roll"))
	if len(m.deletedRefs()) != 2 {
		t.Fatal("quarantined command was not deleted")
	}

	// a reply to the bot's challenge releases
	reply := plainMessage(1, 42, 51, "I am a real person")
	reply.ReplyTo = &platform.Reply{Ref: m.sent[0].Ref, UserID: m.botID, FromBot: true}
	table.Dispatch(reply)

	if rec, _ := d.Store.FindQuarantine(42); rec != nil {
		t.Fatal("record survived the release")
	}
	texts = m.sentTexts()
	if texts[len(texts)-1] != "Добро пожаловать в дом на горе!" {
		t.Fatalf("welcome = %q", texts[len(texts)-1])
	}
	// the challenge message is cleaned up
	waitForDeletion(t, m, m.sent[0].Ref)

	// after release, messages flow to the rest of the table again
	table.Dispatch(plainMessage(1, 42, 52, "free at last"))
	if passedThrough != 1 {
		t.Fatal("released user still filtered")
	}
}

func TestTowel_DecoyButton(t *testing.T) {
	d, m := testDeps(t)
	table := towelTable(t, d)

	table.Dispatch(joinUpdate(1, 42, "newbie"))

	press := &platform.Update{
		ChatID:       1,
		UserID:       42,
		UserName:     "newbie",
		CallbackID:   "cb1",
		CallbackData: platform.DecoyCallback,
	}
	table.Dispatch(press)
	if len(m.answered) != 1 || !strings.Contains(m.answered[0], "внимательней") {
		t.Fatalf("quarantined press answered with %v", m.answered)
	}
	if rec, _ := d.Store.FindQuarantine(42); rec == nil {
		t.Fatal("pressing the decoy must never release")
	}

	// a bystander pressing the button gets mocked differently
	press2 := &platform.Update{
		ChatID:       1,
		UserID:       7,
		UserName:     "oldtimer",
		CallbackID:   "cb2",
		CallbackData: platform.DecoyCallback,
	}
	table.Dispatch(press2)
	if len(m.answered) != 2 || !strings.Contains(m.answered[1], "-5 пунктов") {
		t.Fatalf("bystander press answered with %v", m.answered)
	}
}

func TestTowel_SweepExpiresOverdue(t *testing.T) {
	d, m := testDeps(t)
	towelTable(t, d)

	d.Store.AddQuarantine(storage.QuarantineRecord{
		UserID: 42, ChatID: 1, UserName: "ghost",
		RelMessages: []int{200},
		ExpireAt:    time.Now().Add(-time.Minute),
	})
	d.Store.AddQuarantine(storage.QuarantineRecord{
		UserID: 43, ChatID: 1, UserName: "fresh",
		ExpireAt: time.Now().Add(time.Hour),
	})

	d.sweepQuarantine()

	if len(m.removed) != 1 || m.removed[0] != 42 {
		t.Fatalf("removed %v, want only the overdue user", m.removed)
	}
	if rec, _ := d.Store.FindQuarantine(42); rec != nil {
		t.Fatal("overdue record survived the sweep")
	}
	if rec, _ := d.Store.FindQuarantine(43); rec == nil {
		t.Fatal("fresh record was swept early")
	}
	refs := m.deletedRefs()
	if len(refs) != 1 || refs[0].MessageID != 200 {
		t.Fatalf("related messages not cleaned: %v", refs)
	}
}

func TestTowel_SweepDeletesRecordEvenWhenRemovalFails(t *testing.T) {
	d, m := testDeps(t)
	towelTable(t, d)

	m.removeErr = errors.New("not enough rights")
	d.Store.AddQuarantine(storage.QuarantineRecord{
		UserID: 42, ChatID: 1, UserName: "ghost",
		ExpireAt: time.Now().Add(-time.Minute),
	})

	d.sweepQuarantine()

	if len(m.removed) != 1 {
		t.Fatal("removal was never attempted")
	}
	if rec, _ := d.Store.FindQuarantine(42); rec != nil {
		t.Fatal("record must go even when the kick fails")
	}
}

func TestTowel_DisableWipesQuarantine(t *testing.T) {
	d, m := testDeps(t)
	table := towelTable(t, d)
	m.status[1] = platform.StatusAdministrator

	table.Dispatch(joinUpdate(1, 42, "newbie"))
	table.Dispatch(command(1, 1, "towel_mode_off"))

	all, err := d.Store.AllQuarantine()
	if err != nil {
		t.Fatalf("AllQuarantine failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("%d records survived the mode shutdown", len(all))
	}

	// with the mode off, joins pass unchallenged
	before := len(m.sentTexts())
	table.Dispatch(joinUpdate(1, 77, "another"))
	if len(m.sentTexts()) != before {
		t.Fatal("challenge sent while the mode is off")
	}
}

func waitForDeletion(t *testing.T, m *fakeMessenger, ref platform.MessageRef) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, got := range m.deletedRefs() {
			if got == ref {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("message %v was never deleted", ref)
}
