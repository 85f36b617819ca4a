// Package scheduler runs the periodic cache census: record counts and
// artwork size are pushed to connected clients so dashboards stay current
// without polling.
package scheduler

import (
	"log"
	"time"

	"github.com/mediashelf/mediashelf/internal/artwork"
	"github.com/mediashelf/mediashelf/internal/resolver"
)

// EventNotifier matches the broadcast surface of the websocket hub.
type EventNotifier interface {
	Broadcast(event string, data interface{})
}

// Scheduler emits cache statistics on a regular interval.
type Scheduler struct {
	resolver *resolver.Resolver
	notifier EventNotifier
	interval time.Duration
	stop     chan struct{}
}

// New creates a stats ticker over the resolver's caches.
func New(res *resolver.Resolver, notifier EventNotifier, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Scheduler{
		resolver: res,
		notifier: notifier,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the ticker loop.
func (s *Scheduler) Start() {
	go s.run()
	log.Printf("[scheduler] cache stats ticker started (%s interval)", s.interval)
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) run() {
	// Initial census after a short delay so startup loads settle first.
	select {
	case <-time.After(10 * time.Second):
		s.publish()
	case <-s.stop:
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.publish()
		case <-s.stop:
			log.Println("[scheduler] scheduler stopped")
			return
		}
	}
}

func (s *Scheduler) publish() {
	stats := s.resolver.Stats()
	log.Printf("[scheduler] cache: %d movies, %d episodes, %d shows, artwork %s",
		stats.Movies, stats.Episodes, stats.Shows, artwork.FormatBytes(stats.ArtworkBytes))

	if s.notifier != nil {
		s.notifier.Broadcast("cache:stats", stats)
	}
}
