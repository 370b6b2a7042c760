package skills

import (
	"errors"
	"strings"
	"testing"
	"time"

	"kebab-bot/internal/platform"
	"kebab-bot/internal/storage"
	"kebab-bot/pkg/util"
)

func TestTimeRow(t *testing.T) {
	page := `<table>
<tr><td>30.08.2026</td><td>05:29</td><td>13:04</td><td>20:11</td></tr>
<tr><td>31.08.2026</td><td>05:30</td><td>13:05</td><td>20:10</td></tr>
</table>`

	times, err := timeRow(page, "31.08.2026")
	if err != nil {
		t.Fatalf("timeRow failed: %v", err)
	}
	want := []string{"05:30", "13:05", "20:10"}
	if len(times) != len(want) {
		t.Fatalf("times = %v, want %v", times, want)
	}
	for i := range want {
		if times[i] != want[i] {
			t.Fatalf("times = %v, want %v", times, want)
		}
	}

	if _, err := timeRow(page, "01.09.2026"); err == nil {
		t.Error("missing row should be an error")
	}
	if _, err := timeRow("<tr><td>31.08.2026</td></tr>", "31.08.2026"); err == nil {
		t.Error("row without times should be an error")
	}
}

func TestNextPrayerDelta(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	rec := &storage.PrayerRecord{
		DateKey:  "31.08.2026",
		Today:    []string{"05:30", "13:05", "20:10"},
		Tomorrow: []string{"05:31"},
	}

	delta, ok := nextPrayerDelta(rec, now)
	if !ok {
		t.Fatal("no delta found")
	}
	if delta != 65*time.Minute {
		t.Fatalf("delta = %v, want 65m to 13:05", delta)
	}

	// today exhausted: fall back to tomorrow's first event
	late := time.Date(2026, 8, 31, 21, 0, 0, 0, time.UTC)
	delta, ok = nextPrayerDelta(rec, late)
	if !ok {
		t.Fatal("no delta after the last event of the day")
	}
	if delta != 8*time.Hour+31*time.Minute {
		t.Fatalf("delta = %v, want 8h31m to tomorrow 05:31", delta)
	}

	// nothing ahead at all
	empty := &storage.PrayerRecord{DateKey: "31.08.2026"}
	if _, ok := nextPrayerDelta(empty, now); ok {
		t.Error("empty schedule should yield no delta")
	}
}

// fakeSource serves a fixed schedule and counts fetches.
type fakeSource struct {
	today    []string
	tomorrow []string
	err      error
	fetches  int
}

func (f *fakeSource) Fetch(todayKey, tomorrowKey string) ([]string, []string, error) {
	f.fetches++
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.today, f.tomorrow, nil
}

func TestRefreshPrayer_FetchesOnceAndPurgesStale(t *testing.T) {
	d, _ := testDeps(t)
	src := &fakeSource{today: []string{"05:30", "13:05"}, tomorrow: []string{"05:31"}}
	d.Prayer = src

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	d.Store.SavePrayer(storage.PrayerRecord{DateKey: "30.08.2026", NotifiedBucket: -1})

	d.refreshPrayer(now)
	if src.fetches != 1 {
		t.Fatalf("fetched %d times, want 1", src.fetches)
	}
	if rec, _ := d.Store.FindPrayer("30.08.2026"); rec != nil {
		t.Error("stale record survived the sweep")
	}
	rec, err := d.Store.FindPrayer(util.DateKey(now))
	if err != nil || rec == nil {
		t.Fatalf("today's record missing: %v", err)
	}
	if len(rec.Today) != 2 || rec.NotifiedBucket != -1 {
		t.Fatalf("record = %+v", rec)
	}

	// fresh record present: no refetch
	d.refreshPrayer(now)
	if src.fetches != 1 {
		t.Fatalf("refetched a fresh schedule: %d fetches", src.fetches)
	}
}

func TestRefreshPrayer_FetchFailureIsRetriable(t *testing.T) {
	d, _ := testDeps(t)
	src := &fakeSource{err: errors.New("origin down")}
	d.Prayer = src

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	d.refreshPrayer(now)
	if rec, _ := d.Store.FindPrayer(util.DateKey(now)); rec != nil {
		t.Fatal("a record was saved despite the fetch failure")
	}

	src.err = nil
	src.today = []string{"13:05"}
	src.tomorrow = []string{"05:31"}
	d.refreshPrayer(now)
	if rec, _ := d.Store.FindPrayer(util.DateKey(now)); rec == nil {
		t.Fatal("recovered fetch did not save a record")
	}
}

func TestNotifyPrayer_SingleTrackedNotification(t *testing.T) {
	d, m := testDeps(t)
	now := time.Date(2026, 8, 31, 13, 0, 30, 0, time.Local)
	d.Store.SavePrayer(storage.PrayerRecord{
		DateKey:        "31.08.2026",
		Today:          []string{"13:05"},
		NotifiedBucket: -1,
	})

	// four and a half minutes out: inside the window, one notification, pinned
	d.notifyPrayer(now)
	if len(m.sentTexts()) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(m.sentTexts()))
	}
	if !strings.Contains(m.sentTexts()[0], "Внимание") {
		t.Errorf("notification text = %q", m.sentTexts()[0])
	}
	if len(m.pinned) != 1 {
		t.Errorf("pinned %d messages, want 1", len(m.pinned))
	}

	// same bucket ten seconds later: nothing new, no edit
	d.notifyPrayer(now.Add(10 * time.Second))
	if len(m.sentTexts()) != 1 {
		t.Fatal("a second independent notification went out")
	}
	if len(m.edited) != 0 {
		t.Fatal("edited without a bucket change")
	}

	// next minute bucket: the same message is edited in place
	d.notifyPrayer(now.Add(70 * time.Second))
	if len(m.sentTexts()) != 1 {
		t.Fatal("bucket change sent a new message instead of editing")
	}
	if len(m.edited) != 1 {
		t.Fatalf("edited %d messages, want 1", len(m.edited))
	}

	// an exact removal job is scheduled for the event itself
	var tracked bool
	for _, name := range d.Jobs.Active() {
		if name == "prayer_notice_removal" {
			tracked = true
		}
	}
	if !tracked {
		t.Error("no removal job scheduled")
	}
}

func TestRemovePrayerNotice_UnpinsDeletesAndClears(t *testing.T) {
	d, m := testDeps(t)
	d.Store.SavePrayer(storage.PrayerRecord{
		DateKey:        "31.08.2026",
		Today:          []string{"13:05"},
		NotifyChatID:   1,
		NotifyMsgID:    77,
		NotifiedBucket: 4,
	})

	ref := platform.MessageRef{ChatID: 1, MessageID: 77}
	d.removePrayerNotice(ref, "31.08.2026")

	if len(m.unpinned) != 1 || m.unpinned[0] != 1 {
		t.Fatalf("unpinned chats %v, want [1]", m.unpinned)
	}
	if refs := m.deletedRefs(); len(refs) != 1 || refs[0] != ref {
		t.Fatalf("deleted %v, want the tracked warning", refs)
	}

	rec, err := d.Store.FindPrayer("31.08.2026")
	if err != nil || rec == nil {
		t.Fatalf("record gone: %v", err)
	}
	if rec.NotifyMsgID != 0 || rec.NotifiedBucket != -1 {
		t.Fatalf("tracking not cleared: msg %d bucket %d", rec.NotifyMsgID, rec.NotifiedBucket)
	}
}

func TestNotifyPrayer_OutsideWindowClearsTracking(t *testing.T) {
	d, m := testDeps(t)
	d.Store.SavePrayer(storage.PrayerRecord{
		DateKey:        "31.08.2026",
		Today:          []string{"13:05", "20:10"},
		NotifyChatID:   1,
		NotifyMsgID:    555,
		NotifiedBucket: 2,
	})

	// hours before the next event: stale tracking from a past event is reset
	now := time.Date(2026, 8, 31, 14, 0, 0, 0, time.Local)
	d.notifyPrayer(now)
	if len(m.sentTexts()) != 0 {
		t.Fatal("notification sent outside the window")
	}
	rec, _ := d.Store.FindPrayer("31.08.2026")
	if rec.NotifyMsgID != 0 || rec.NotifiedBucket != -1 {
		t.Fatalf("tracking not cleared: %+v", rec)
	}
}

func TestNextPrayerText(t *testing.T) {
	d, _ := testDeps(t)
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	d.Store.SavePrayer(storage.PrayerRecord{
		DateKey:        "31.08.2026",
		Today:          []string{"13:05"},
		NotifiedBucket: -1,
	})

	got := d.nextPrayerText(now)
	want := "До следующего намаза осталось: 1 час 5 минут 0 секунд"
	if got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}

	if got := d.nextPrayerText(now.Add(48 * time.Hour)); got != "Не получилось получить время намаза 😥" {
		t.Fatalf("no-schedule text = %q", got)
	}
}
