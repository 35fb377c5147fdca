package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/legends/internal/auth"
	"github.com/naveenspark/legends/internal/events"
)

// sessionChangedMsg is delivered after every provider state change.
type sessionChangedMsg struct{}

// sessionStartedMsg is delivered once the initial session lookup is done.
type sessionStartedMsg struct{}

// loginRequestMsg carries one request taken off the login bus.
type loginRequestMsg struct {
	req events.Request
}

// sessionWatcher turns provider change callbacks into Bubbletea messages.
// Changes that arrive while a message is still pending are coalesced; the
// app always re-reads the latest snapshot.
type sessionWatcher struct {
	ch     chan struct{}
	cancel func()
}

func watchSession(p *auth.Provider) *sessionWatcher {
	w := &sessionWatcher{ch: make(chan struct{}, 1)}
	w.cancel = p.Watch(func(auth.Snapshot) {
		select {
		case w.ch <- struct{}{}:
		default:
		}
	})
	return w
}

func (w *sessionWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		<-w.ch
		return sessionChangedMsg{}
	}
}

func (w *sessionWatcher) stop() {
	if w != nil && w.cancel != nil {
		w.cancel()
	}
}

func startSession(ctx context.Context, p *auth.Provider) tea.Cmd {
	return func() tea.Msg {
		p.Start(ctx)
		return sessionStartedMsg{}
	}
}

func waitLoginRequest(ctx context.Context, bus *events.Bus) tea.Cmd {
	return func() tea.Msg {
		req, err := bus.Next(ctx)
		if err != nil {
			return nil
		}
		return loginRequestMsg{req: req}
	}
}

// openLogin posts a login request on the bus.
func openLogin(bus *events.Bus, returnTo events.Target) tea.Cmd {
	return func() tea.Msg {
		bus.OpenLogin(events.Request{ReturnTo: returnTo})
		return nil
	}
}

type signedOutMsg struct{}

func signOut(ctx context.Context, p *auth.Provider) tea.Cmd {
	return func() tea.Msg {
		p.SignOut(ctx)
		return signedOutMsg{}
	}
}
