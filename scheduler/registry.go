package scheduler

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Registry owns the process's cron triggers, keyed by a stable name such as "reminder:<teamId>".
// Installing a key replaces its previous trigger. Each Registry is independent; nothing is global.
type Registry struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
}

func NewRegistry() *Registry {
	return &Registry{
		cron: cron.New(
			cron.WithChain(cron.Recover(cron.PrintfLogger(log.Default()))),
		),
		entries: make(map[string]cron.EntryID),
	}
}

// Install registers job under key with a standard 5-field spec (CRON_TZ= prefix allowed),
// removing any trigger previously installed under the same key first
func (r *Registry) Install(key, spec string, job func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.entries[key]; ok {
		r.cron.Remove(id)
		delete(r.entries, key)
	}

	id, err := r.cron.AddFunc(spec, job)
	if err != nil {
		return fmt.Errorf("failed to install trigger %s with spec %q: %w", key, spec, err)
	}
	r.entries[key] = id
	return nil
}

// Remove stops the trigger under key. Returns false if none was installed.
func (r *Registry) Remove(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.entries[key]
	if !ok {
		return false
	}
	r.cron.Remove(id)
	delete(r.entries, key)
	return true
}

// Keys returns the installed keys in sorted order
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Entry returns the cron entry installed under key
func (r *Registry) Entry(key string) (cron.Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.entries[key]
	if !ok {
		return cron.Entry{}, false
	}
	return r.cron.Entry(id), true
}

// NextRun is the first activation of key strictly after t
func (r *Registry) NextRun(key string, t time.Time) (time.Time, bool) {
	entry, ok := r.Entry(key)
	if !ok || entry.Schedule == nil {
		return time.Time{}, false
	}
	return entry.Schedule.Next(t), true
}

func (r *Registry) Start() {
	log.Printf("✅ Starting scheduler with %d triggers", len(r.Keys()))
	r.cron.Start()
}

// Stop prevents further activations and waits for running jobs until ctx is done
func (r *Registry) Stop(ctx context.Context) {
	log.Printf("📋 Starting to stop scheduler")

	done := r.cron.Stop()
	select {
	case <-done.Done():
		log.Printf("📋 Completed successfully - scheduler stopped")
	case <-ctx.Done():
		log.Printf("⚠️ Scheduler stop timed out with jobs still running")
	}
}
