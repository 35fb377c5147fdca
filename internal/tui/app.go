package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/naveenspark/legends/internal/auth"
	"github.com/naveenspark/legends/internal/brief"
	"github.com/naveenspark/legends/internal/browser"
	"github.com/naveenspark/legends/internal/events"
	"github.com/naveenspark/legends/internal/logging"
)

type view int

const (
	viewLanding view = iota
	viewDashboard
	viewGenerator
)

// Deps are the services the TUI runs against.
type Deps struct {
	Provider  *auth.Provider
	Bus       *events.Bus
	Generator *brief.Generator
	Download  brief.Sink
	SiteURL   string
	Version   string
	Log       *zap.Logger
}

// App is the root Bubbletea model.
type App struct {
	ctx     context.Context
	deps    Deps
	watcher *sessionWatcher
	log     *zap.Logger

	view       view
	landing    landingModel
	dashboard  dashboardModel
	generator  generatorModel
	login      loginModel
	loginOpen  bool
	helpOpen   bool
	helpCursor int

	session auth.Snapshot
	width   int
	height  int
	frame   int // logo shimmer animation frame
}

// NewApp creates a new TUI application. The session watcher it registers is
// released by Close.
func NewApp(ctx context.Context, deps Deps) App {
	if deps.Bus == nil {
		deps.Bus = events.NewBus()
	}
	if deps.Download == nil {
		deps.Download = brief.Download{}
	}
	if deps.Generator == nil {
		deps.Generator = brief.NewGenerator(nil, brief.NewClipboard(), deps.Download)
	}
	return App{
		ctx:       ctx,
		deps:      deps,
		watcher:   watchSession(deps.Provider),
		log:       logging.OrNop(deps.Log),
		landing:   newLandingModel(),
		dashboard: newDashboardModel(deps.Download),
		generator: newGeneratorModel(deps.Generator),
		login:     newLoginModel(ctx, deps.Provider),
		session:   deps.Provider.Snapshot(),
		width:     80,
		height:    24,
	}
}

// Close stops watching the provider.
func (a App) Close() {
	a.watcher.stop()
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		shimmerTickCmd(),
		startSession(a.ctx, a.deps.Provider),
		a.watcher.wait(),
		waitLoginRequest(a.ctx, a.deps.Bus),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + nav(1) + status(1) + help(1) = 5 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 5}
		a.landing, _ = a.landing.Update(bodyMsg)
		a.dashboard, _ = a.dashboard.Update(bodyMsg)
		a.generator, _ = a.generator.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionStartedMsg:
		a.refreshSession()
		return a, nil

	case sessionChangedMsg:
		a.refreshSession()
		return a, a.watcher.wait()

	case signedOutMsg:
		a.refreshSession()
		return a, nil

	case loginRequestMsg:
		a.loginOpen = true
		var cmd tea.Cmd
		a.login, cmd = a.login.open(msg.req)
		return a, tea.Batch(cmd, waitLoginRequest(a.ctx, a.deps.Bus))

	case loginResultMsg, resetSentMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a.afterLogin(), cmd

	case promptDownloadedMsg:
		a.dashboard, _ = a.dashboard.Update(msg)
		return a, nil

	case briefGeneratedMsg:
		a.generator, _ = a.generator.Update(msg)
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	// Cursor blink and other component messages.
	var cmd tea.Cmd
	switch {
	case a.loginOpen:
		a.login, cmd = a.login.Update(msg)
	case a.view == viewGenerator:
		a.generator, cmd = a.generator.Update(msg)
	}
	return a, cmd
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// Help overlay captures all keys when open
	if a.helpOpen {
		items := helpItems(a.deps.SiteURL)
		switch msg.String() {
		case "h", "esc":
			a.helpOpen = false
		case "q":
			return a, tea.Quit
		case "j", "down":
			if a.helpCursor < len(items)-1 {
				a.helpCursor++
			}
		case "k", "up":
			if a.helpCursor > 0 {
				a.helpCursor--
			}
		case "enter":
			if item := items[a.helpCursor]; item.url != "" {
				browser.Open(item.url) //nolint:errcheck // best-effort browser open
			}
		}
		return a, nil
	}

	// Login dialog captures all keys when open
	if a.loginOpen {
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a.afterLogin(), cmd
	}

	if !a.isEditing() {
		switch msg.String() {
		case "q":
			return a, tea.Quit
		case "h", "?":
			a.helpOpen = true
			a.helpCursor = 0
			return a, nil
		}
	}

	switch a.view {
	case viewLanding:
		return a.updateLanding(msg)
	case viewDashboard:
		return a.updateDashboard(msg)
	case viewGenerator:
		var cmd tea.Cmd
		a.generator, cmd = a.generator.Update(msg)
		if a.generator.closed {
			a.generator.closed = false
			a.view = viewDashboard
		}
		return a, cmd
	}
	return a, nil
}

func (a App) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	signedIn := a.session.Session != nil
	switch msg.String() {
	case "t":
		if signedIn {
			return a.navigate(viewDashboard)
		}
		return a, openLogin(a.deps.Bus, events.TargetNone)
	case "g":
		if signedIn {
			return a.navigate(viewDashboard)
		}
		return a, openLogin(a.deps.Bus, events.TargetDashboard)
	case "d":
		if signedIn || a.session.Loading {
			return a.navigate(viewDashboard)
		}
		return a, openLogin(a.deps.Bus, events.TargetDashboard)
	case "s":
		if signedIn {
			return a, signOut(a.ctx, a.deps.Provider)
		}
		if !a.session.Loading {
			return a, openLogin(a.deps.Bus, events.TargetNone)
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.landing, cmd = a.landing.Update(msg)
	return a, cmd
}

func (a App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !a.dashboard.editing() && a.session.Session != nil {
		switch msg.String() {
		case "g":
			return a.navigate(viewGenerator)
		case "o":
			return a, signOut(a.ctx, a.deps.Provider)
		case "esc":
			return a.navigate(viewLanding)
		}
	} else if !a.dashboard.editing() && msg.String() == "esc" {
		return a.navigate(viewLanding)
	}
	var cmd tea.Cmd
	a.dashboard, cmd = a.dashboard.Update(msg)
	return a, cmd
}

// afterLogin closes the dialog once it is done and follows the redirect
// target of a successful sign-in.
func (a App) afterLogin() App {
	if !a.login.closed {
		return a
	}
	a.loginOpen = false
	a.login.closed = false
	if a.login.succeeded {
		a.login.succeeded = false
		a.session = a.deps.Provider.Snapshot()
		switch a.login.target {
		case events.TargetGenerator:
			a.view = viewGenerator
		default:
			a.view = viewDashboard
		}
		a.log.Debug("login complete", zap.String("target", string(a.login.target)))
	}
	return a
}

func (a App) navigate(v view) (tea.Model, tea.Cmd) {
	a.view = v
	a.helpOpen = false
	if v == viewGenerator {
		var cmd tea.Cmd
		a.generator, cmd = a.generator.focusField()
		return a, cmd
	}
	return a, nil
}

// refreshSession re-reads the provider and leaves screens that need a
// session once the session is gone.
func (a *App) refreshSession() {
	a.session = a.deps.Provider.Snapshot()
	if a.session.State() == auth.StateAnonymous && a.view != viewLanding {
		a.view = viewLanding
	}
}

func (a App) isEditing() bool {
	switch {
	case a.loginOpen:
		return true
	case a.view == viewGenerator:
		return true
	case a.view == viewDashboard:
		return a.dashboard.editing()
	}
	return false
}

func (a App) navbar() string {
	item := func(key, label string, active bool) string {
		if active {
			return accentStyle.Render(key) + " " + selectedStyle.Underline(true).Render(label)
		}
		return metaStyle.Render(key) + " " + dimStyle.Render(label)
	}
	left := strings.Join([]string{
		item("f", "Features", false),
		item("a", "About", false),
		item("d", "Dashboard", a.view != viewLanding),
	}, "   ")

	var right string
	switch a.session.State() {
	case auth.StateInitializing:
		right = dimStyle.Render("Loading...")
	case auth.StateAuthenticated:
		right = normalStyle.Render(a.session.Identity.Email) + "  " + item("s", "Sign Out", false)
	default:
		right = item("s", "Sign In", false)
	}
	if a.deps.Provider.Mode() == auth.ModeDemo {
		right = metaStyle.Render("demo") + "  " + right
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 2 {
		gap = 2
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

func (a App) View() string {
	header := center(renderShimmerLogo(a.frame), a.width) + "\n"

	var body, help string
	switch a.view {
	case viewLanding:
		body = a.landing.View()
		help = a.landing.helpKeys(a.session.Session != nil)
	case viewDashboard:
		body = a.dashboard.View(a.session)
		help = a.dashboard.helpKeys()
	case viewGenerator:
		body = a.generator.View()
		help = a.generator.helpKeys()
	}

	if a.loginOpen {
		body = lipgloss.Place(a.width, a.height-5, lipgloss.Center, lipgloss.Center, a.login.View())
		help = helpBar("tab", "field", "enter", "submit", "ctrl+t", "sign in/up", "esc", "close")
	}

	if a.helpOpen {
		body = helpView(helpItems(a.deps.SiteURL), a.helpCursor)
		help = helpBar("j/k", "nav", "enter", "open", "esc", "close")
	}

	status := ""
	if a.deps.Version != "" {
		status = metaStyle.Render(fmt.Sprintf(" legends %s", a.deps.Version))
	}

	chrome := 5
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, a.navbar(), body, status, help)
}
