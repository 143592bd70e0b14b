package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostelhub/hostel/internal/guard"
)

// navigateMsg asks the app to show dest. It is how goroutines outside the
// event loop (the 401 interceptor, logout) move the UI.
type navigateMsg struct {
	dest guard.Destination
}

// noticeMsg puts a one-line message in the notice bar.
type noticeMsg struct {
	text string
}

// Bridge lets code outside the bubbletea loop drive navigation and notices.
// It implements guard.Navigator and guard.Notifier.
type Bridge struct {
	mu      sync.RWMutex
	send    func(tea.Msg)
	current guard.Destination
}

// NewBridge returns a bridge whose messages are dropped until Attach.
func NewBridge() *Bridge {
	return &Bridge{current: guard.Login}
}

// Attach routes messages into p.
func (b *Bridge) Attach(p *tea.Program) {
	b.attach(p.Send)
}

func (b *Bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

// Current returns the destination the app last rendered.
func (b *Bridge) Current() guard.Destination {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Navigate schedules a move to dest on the event loop.
func (b *Bridge) Navigate(dest guard.Destination) {
	b.post(navigateMsg{dest: dest})
}

// Notify schedules a notice on the event loop.
func (b *Bridge) Notify(text string) {
	b.post(noticeMsg{text: text})
}

// setCurrent is called by the app once dest is showing.
func (b *Bridge) setCurrent(dest guard.Destination) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = dest
}

func (b *Bridge) post(msg tea.Msg) {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}
