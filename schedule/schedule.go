// Package schedule fires automatic article generation twice a day.
//
// Each slot fires at most once per local calendar day. The day's marker is
// written before the generation starts, so a slot never fires twice even when
// a previous generation is still in flight.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"psychology_station/markers"
)

const (
	DefaultPrefix   = "psych_update"
	DefaultInterval = time.Minute
	markerValue     = "true"
)

// Slot is a daily window that becomes eligible once the local hour reaches Hour.
type Slot struct {
	Name  string
	Hour  int
	Topic string
}

// Slots returns the morning and evening slots, in check order.
func Slots() []Slot {
	return []Slot{
		{Name: "morning", Hour: 6, Topic: "朝に読むと1日が前向きになるポジティブ心理学"},
		{Name: "evening", Hour: 18, Topic: "1日の疲れを癒やすリラックス心理学"},
	}
}

// Trigger starts one generation. It runs on its own goroutine.
type Trigger func(ctx context.Context, topic string)

// Options configures a Scheduler. Zero values fall back to defaults.
type Options struct {
	Prefix   string
	Interval time.Duration
	Location *time.Location
	Logger   *slog.Logger
}

type Scheduler struct {
	store    markers.Store
	trigger  Trigger
	slots    []Slot
	prefix   string
	interval time.Duration
	loc      *time.Location
	log      *slog.Logger
	now      func() time.Time

	mu sync.Mutex
	wg sync.WaitGroup
}

func New(store markers.Store, trigger Trigger, opts Options) (*Scheduler, error) {
	if store == nil {
		return nil, errors.New("marker store is required")
	}
	if trigger == nil {
		return nil, errors.New("trigger is required")
	}
	s := &Scheduler{
		store:    store,
		trigger:  trigger,
		slots:    Slots(),
		prefix:   opts.Prefix,
		interval: opts.Interval,
		loc:      opts.Location,
		log:      opts.Logger,
		now:      time.Now,
	}
	if s.prefix == "" {
		s.prefix = DefaultPrefix
	}
	if s.interval <= 0 {
		s.interval = DefaultInterval
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s, nil
}

// DateKey formats t like the ja-JP locale date, e.g. "2024/5/23".
func DateKey(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
}

// MarkerKey is "<prefix>_<date>_<slot>".
func MarkerKey(prefix string, t time.Time, slot string) string {
	return prefix + "_" + DateKey(t) + "_" + slot
}

// Check fires at most one slot per call. Slots are tested in order and the
// first eligible, unfired slot wins, so a first check at 19:00 fires morning
// and leaves evening for a later pass.
func (s *Scheduler) Check(ctx context.Context, now time.Time) (Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	local := now.In(s.loc)
	for _, slot := range s.slots {
		if local.Hour() < slot.Hour {
			continue
		}
		key := MarkerKey(s.prefix, local, slot.Name)
		_, done, err := s.store.Get(ctx, key)
		if err != nil {
			s.log.Warn("read schedule marker", slog.String("key", key), slog.Any("err", err))
			return Slot{}, false
		}
		if done {
			continue
		}
		if err := s.store.Set(ctx, key, markerValue); err != nil {
			s.log.Warn("write schedule marker", slog.String("key", key), slog.Any("err", err))
			return Slot{}, false
		}

		s.log.Info("auto-generating scheduled article",
			slog.String("slot", slot.Name),
			slog.String("topic", slot.Topic),
		)
		s.fire(ctx, slot)
		return slot, true
	}
	return Slot{}, false
}

// fire does not wait for the generation; Wait does.
func (s *Scheduler) fire(ctx context.Context, slot Slot) {
	genCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.trigger(genCtx, slot.Topic)
	}()
}

// Run checks once immediately and then on every interval until ctx ends.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("scheduler running", slog.Duration("interval", s.interval))
	s.Check(ctx, s.now())

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			s.Check(ctx, s.now())
		}
	}
}

// Wait blocks until every fired generation has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
