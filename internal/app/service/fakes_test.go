package service

import (
	"sync"
	"time"

	"github.com/chengtian/temple-backend/internal/notify"
)

type recordingSink struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (s *recordingSink) Enqueue(msg notify.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return true
}

func (s *recordingSink) kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]string, 0, len(s.messages))
	for _, m := range s.messages {
		kinds = append(kinds, m.Kind)
	}
	return kinds
}

func (s *recordingSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(event string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

var testLocation = time.FixedZone("Asia/Taipei", 8*60*60)

func testComposer() *notify.Composer {
	return notify.NewComposer(notify.SiteInfo{
		Name:        "承天禪寺",
		BankName:    "郵局",
		BankCode:    "700",
		BankAccount: "00012345678901",
	}, testLocation)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
