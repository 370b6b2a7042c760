package skills

import (
	"strings"
	"testing"

	"kebab-bot/internal/dispatch"
	"kebab-bot/internal/platform"
)

func TestTrustUntrust(t *testing.T) {
	d, m := testDeps(t)
	table := dispatch.NewTable()
	if err := attachTrusted(d, table); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	m.status[1] = platform.StatusAdministrator

	grant := command(1, 1, "trust")
	grant.ReplyTo = &platform.Reply{
		Ref:      platform.MessageRef{ChatID: 1, MessageID: 30},
		UserID:   5,
		UserName: "ali",
	}
	table.Dispatch(grant)

	if trusted, _ := d.Store.IsTrusted(5); !trusted {
		t.Fatal("user was not trusted")
	}
	texts := m.sentTexts()
	if !strings.Contains(texts[len(texts)-1], "теперь ты настоящий кебаб") {
		t.Fatalf("grant reply = %q", texts[len(texts)-1])
	}

	// a second grant reports the existing state
	table.Dispatch(grant)
	texts = m.sentTexts()
	if !strings.Contains(texts[len(texts)-1], "уже настоящий кебаб") {
		t.Fatalf("re-grant reply = %q", texts[len(texts)-1])
	}

	revoke := command(1, 1, "untrust")
	revoke.ReplyTo = grant.ReplyTo
	table.Dispatch(revoke)
	if trusted, _ := d.Store.IsTrusted(5); trusted {
		t.Fatal("user is still trusted after untrust")
	}

	// non-admins cannot grant
	outsider := command(1, 2, "trust")
	outsider.ReplyTo = grant.ReplyTo
	table.Dispatch(outsider)
	if trusted, _ := d.Store.IsTrusted(5); trusted {
		t.Fatal("non-admin granted trust")
	}

	// a trust command without a reply target is ignored
	bare := command(1, 1, "trust")
	table.Dispatch(bare)
	if trusted, _ := d.Store.IsTrusted(0); trusted {
		t.Fatal("trust without a reply did something")
	}
}

func TestTrustedList(t *testing.T) {
	d, m := testDeps(t)
	table := dispatch.NewTable()
	if err := attachTrusted(d, table); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	table.Dispatch(command(1, 2, "trusted_list"))
	texts := m.sentTexts()
	if texts[len(texts)-1] != "настоящих кебабов пока нет 😢" {
		t.Fatalf("empty list reply = %q", texts[len(texts)-1])
	}
}
