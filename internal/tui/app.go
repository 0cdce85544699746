// Package tui is the terminal front-end: the pages of the web client
// rendered as bubbletea models. Access to every page flows through the
// route guard, and all action availability flows through the
// capability gate.
package tui

import (
	"context"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pontodeaula/pontoaula/internal/localstate"
	"github.com/pontodeaula/pontoaula/internal/nav"
	"github.com/pontodeaula/pontoaula/internal/policy"
	"github.com/pontodeaula/pontoaula/internal/posts"
	"github.com/pontodeaula/pontoaula/internal/session"
	"github.com/pontodeaula/pontoaula/internal/users"
)

// Deps aggregates the collaborators the terminal UI is built from.
// Everything is injected; the UI owns no ambient state.
type Deps struct {
	Logger   *slog.Logger
	Session  *session.Store
	Posts    *posts.Service
	Users    *users.Service
	Guard    *nav.Guard
	Policies *policy.Engine
	State    *localstate.Store
}

// checker returns a capability checker bound to the current user. Safe
// to call with no session: the gate fails closed.
func (d Deps) checker() policy.Checker {
	return d.Policies.CheckerFor(d.Session.Current())
}

// pageModel is one navigable page.
type pageModel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (pageModel, tea.Cmd)
	View(width, height int) string
}

// App is the root model: session lifecycle, guard-driven navigation
// and the status bar.
type App struct {
	deps Deps

	path      string
	page      pageModel
	width     int
	height    int
	notice    string
	noticeErr bool
}

// NewApp builds the root model. The first render shows the loading
// affordance until the session bootstrap settles.
func NewApp(deps Deps) *App {
	return &App{
		deps:  deps,
		path:  "/",
		page:  loadingPage{},
		width: 80,
	}
}

// Init kicks off the session bootstrap.
func (a *App) Init() tea.Cmd {
	return func() tea.Msg {
		a.deps.Session.Bootstrap(context.Background())
		return bootstrapDoneMsg{}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case bootstrapDoneMsg:
		if a.deps.Session.Authenticated() {
			return a, a.navigate(navigateMsg{path: "/dashboard"})
		}
		return a, a.navigate(navigateMsg{path: "/"})

	case navigateMsg:
		return a, a.navigate(msg)

	case loggedOutMsg:
		a.deps.Session.Logout()
		a.setNotice("Sessão encerrada", false)
		return a, a.navigate(navigateMsg{path: "/"})

	case noticeMsg:
		a.setNotice(msg.text, msg.isErr)
		return a, nil
	}

	var cmd tea.Cmd
	a.page, cmd = a.page.Update(msg)

	// A 401 on any in-flight request clears the session; the guard
	// reacts by falling back to the login page.
	if a.path != "/" && !a.deps.Session.Initializing() && !a.deps.Session.Authenticated() {
		return a, tea.Batch(cmd, a.navigate(navigateMsg{path: "/"}))
	}
	return a, cmd
}

// navigate resolves the guard for the target path and installs the
// page its decision calls for.
func (a *App) navigate(msg navigateMsg) tea.Cmd {
	route, known := a.deps.Guard.Lookup(msg.path)
	state := nav.State{
		Initializing: a.deps.Session.Initializing(),
		User:         a.deps.Session.Current(),
	}
	if !known {
		a.page = newDeniedPage(msg.path)
		return nil
	}

	switch a.deps.Guard.Resolve(route, state) {
	case nav.DecisionLoading:
		a.page = loadingPage{}
		return nil
	case nav.DecisionRedirectLogin:
		// Replace the location: no back-navigation loop.
		a.path = "/"
		a.page = newLoginPage(a.deps)
		return a.page.Init()
	case nav.DecisionDenied:
		a.path = msg.path
		a.page = newDeniedPage(msg.path)
		return nil
	}

	a.path = msg.path
	a.notice = ""
	switch route.Path {
	case "/":
		a.page = newLoginPage(a.deps)
	case "/dashboard":
		a.page = newPostsPage(a.deps, allPosts)
	case "/posts/mine":
		a.page = newPostsPage(a.deps, minePosts)
	case "/posts/new":
		a.page = newPostFormPage(a.deps, nil)
	case "/posts/edit/:id":
		a.page = newPostFormPage(a.deps, msg.post)
	case "/posts/:id":
		a.page = newDetailPage(a.deps, lastPathSegment(msg.path), msg.post)
	case "/profile":
		a.page = newProfilePage(a.deps)
	case "/users":
		a.page = newUsersPage(a.deps)
	case "/users/new":
		a.page = newUserFormPage(a.deps, nil)
	case "/users/edit/:id":
		a.page = newUserFormPage(a.deps, msg.user)
	default:
		a.page = newDeniedPage(msg.path)
	}
	return a.page.Init()
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.header())
	b.WriteString("\n\n")
	b.WriteString(a.page.View(a.width, a.contentHeight()))
	b.WriteString("\n")
	b.WriteString(a.statusBar())
	return b.String()
}

func (a *App) header() string {
	title := titleStyle.Render("Ponto de Aula")
	if user := a.deps.Session.Current(); user != nil {
		who := subtitleStyle.Render(user.Name + " · " + user.Role.Label())
		return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", who)
	}
	return title
}

func (a *App) statusBar() string {
	if a.notice == "" {
		return ""
	}
	if a.noticeErr {
		return errorStyle.Render(a.notice)
	}
	return noticeStyle.Render(a.notice)
}

func (a *App) contentHeight() int {
	h := a.height - 4
	if h < 6 {
		h = 6
	}
	return h
}

func (a *App) setNotice(text string, isErr bool) {
	a.notice = text
	a.noticeErr = isErr
}

func lastPathSegment(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// loadingPage renders the boot affordance while the token check and
// profile fetch are in flight.
type loadingPage struct{}

func (loadingPage) Init() tea.Cmd { return nil }

func (p loadingPage) Update(tea.Msg) (pageModel, tea.Cmd) { return p, nil }

func (loadingPage) View(width, height int) string {
	return subtitleStyle.Render("Carregando...")
}
