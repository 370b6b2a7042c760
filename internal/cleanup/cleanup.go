// Package cleanup schedules deferred deletion of command/response message
// pairs so the chat stays readable. Scheduling again for the same logical
// exchange replaces the pending job instead of stacking a second one.
package cleanup

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"kebab-bot/internal/platform"
	"kebab-bot/pkg/jobmgr"
)

// Deleter is the slice of the platform boundary the coordinator needs.
type Deleter interface {
	Delete(ref platform.MessageRef) error
}

type Coordinator struct {
	jobs *jobmgr.Manager
	del  Deleter

	mu      sync.Mutex
	pending map[string]*jobmgr.Job
}

func New(jobs *jobmgr.Manager, del Deleter) *Coordinator {
	return &Coordinator{
		jobs:    jobs,
		del:     del,
		pending: make(map[string]*jobmgr.Job),
	}
}

// Schedule arranges deletion of the trigger and/or response message after
// delay. Nil targets are no-ops, not errors: the response may be nil when
// the upstream send failed. Targets are captured by value at schedule time.
func (c *Coordinator) Schedule(trigger, response *platform.MessageRef, delay time.Duration, removeTrigger, removeResponse bool) {
	var targets []platform.MessageRef
	if removeTrigger && trigger != nil {
		targets = append(targets, *trigger)
	}
	if removeResponse && response != nil {
		targets = append(targets, *response)
	}
	if len(targets) == 0 {
		return
	}

	key := exchangeKey(trigger, response)

	// The lock is held across RunOnce and the publish: the callback takes
	// the same lock before reading job, so even a zero-delay fire sees the
	// assigned handle.
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.pending[key]; ok {
		c.jobs.Cancel(prev)
	}

	var job *jobmgr.Job
	job = c.jobs.RunOnce("cleanup", delay, func(ctx context.Context) {
		for _, ref := range targets {
			if err := c.del.Delete(ref); err != nil {
				log.Printf("[INFO] can't delete msg %d in chat %d: %v", ref.MessageID, ref.ChatID, err)
			}
		}
		// unregister ourselves unless a replacement took the slot
		c.mu.Lock()
		if c.pending[key] == job {
			delete(c.pending, key)
		}
		c.mu.Unlock()
	})
	c.pending[key] = job
}

// exchangeKey identifies the logical exchange: the trigger message when
// present, otherwise the response.
func exchangeKey(trigger, response *platform.MessageRef) string {
	ref := trigger
	if ref == nil {
		ref = response
	}
	return fmt.Sprintf("%d:%d", ref.ChatID, ref.MessageID)
}
