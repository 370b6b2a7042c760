// /internal/skills/prayer_source.go
package skills

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// PrayerSource yields the event times for two consecutive day keys.
type PrayerSource interface {
	Fetch(todayKey, tomorrowKey string) (today, tomorrow []string, err error)
}

// WebSource scrapes the published schedule page. Each day sits in a table
// row keyed by its DD.MM.YYYY date; the cells after it are HH:MM times.
type WebSource struct {
	url    string
	client *http.Client
}

func NewWebSource(url string) *WebSource {
	return &WebSource{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

var clockRe = regexp.MustCompile(`\d{1,2}:\d{2}`)

func (s *WebSource) Fetch(todayKey, tomorrowKey string) ([]string, []string, error) {
	resp, err := s.client.Get(s.url)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch schedule: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetch schedule: status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, nil, fmt.Errorf("read schedule page: %w", err)
	}

	page := string(body)
	today, err := timeRow(page, todayKey)
	if err != nil {
		return nil, nil, err
	}
	tomorrow, err := timeRow(page, tomorrowKey)
	if err != nil {
		return nil, nil, err
	}
	return today, tomorrow, nil
}

// timeRow cuts the table row holding dateKey and collects its HH:MM cells.
func timeRow(page, dateKey string) ([]string, error) {
	i := strings.Index(page, dateKey)
	if i < 0 {
		return nil, fmt.Errorf("no schedule row for %s", dateKey)
	}
	row := page[i:]
	if end := strings.Index(row, "</tr>"); end >= 0 {
		row = row[:end]
	}
	times := clockRe.FindAllString(row, -1)
	if len(times) == 0 {
		return nil, fmt.Errorf("no event times in row for %s", dateKey)
	}
	return times, nil
}
