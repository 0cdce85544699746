package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pontodeaula/pontoaula/internal/localstate"
	"github.com/pontodeaula/pontoaula/internal/policy"
	"github.com/pontodeaula/pontoaula/internal/posts"
	"github.com/pontodeaula/pontoaula/internal/users"
)

// postsVariant selects which collection a posts page browses.
type postsVariant int

const (
	allPosts postsVariant = iota
	minePosts
)

func (v postsVariant) title() string {
	if v == minePosts {
		return "Meus Posts"
	}
	return "Dashboard"
}

func (v postsVariant) storageKey() string {
	if v == minePosts {
		return localstate.ViewModeKey("mine")
	}
	return localstate.ViewModeKey("dashboard")
}

// viewMode is the grid/table rendering preference, persisted per list.
type viewMode string

const (
	viewGrid  viewMode = "grid"
	viewTable viewMode = "table"
)

// postsPage browses a paginated, filterable post collection.
type postsPage struct {
	deps      Deps
	variant   postsVariant
	paginator *posts.Paginator

	search    textinput.Model
	searching bool
	cursor    int
	mode      viewMode

	// Filter cycling state; -1 means no selection.
	tagIndex    int
	authorIndex int
	sortByTitle bool
	sortAsc     bool
}

func newPostsPage(deps Deps, variant postsVariant) *postsPage {
	source := deps.Posts.AllSource()
	if variant == minePosts {
		source = deps.Posts.MineSource()
	}
	search := textinput.New()
	search.Placeholder = "buscar..."
	search.CharLimit = 120

	mode := viewGrid
	if saved := deps.State.Get(variant.storageKey()); saved == string(viewTable) {
		mode = viewTable
	}
	return &postsPage{
		deps:        deps,
		variant:     variant,
		paginator:   posts.NewPaginator(source),
		search:      search,
		mode:        mode,
		tagIndex:    -1,
		authorIndex: -1,
	}
}

func (p *postsPage) Init() tea.Cmd {
	return func() tea.Msg {
		p.paginator.Initialize(context.Background())
		return pageRefreshedMsg{}
	}
}

func (p *postsPage) Update(msg tea.Msg) (pageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pageRefreshedMsg:
		p.clampCursor()
		return p, nil

	case tea.KeyMsg:
		if p.searching {
			return p.updateSearch(msg)
		}
		return p.updateBrowse(msg)
	}
	return p, nil
}

func (p *postsPage) updateSearch(msg tea.KeyMsg) (pageModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		p.searching = false
		p.search.Blur()
		return p, p.applyFilters()
	case "esc":
		p.searching = false
		p.search.Blur()
		return p, nil
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	return p, cmd
}

func (p *postsPage) updateBrowse(msg tea.KeyMsg) (pageModel, tea.Cmd) {
	can := p.deps.checker()
	switch msg.String() {
	case "q":
		return p, tea.Quit
	case "l":
		return p, func() tea.Msg { return loggedOutMsg{} }
	case "j", "down":
		p.cursor++
		p.clampCursor()
		return p, nil
	case "k", "up":
		p.cursor--
		p.clampCursor()
		return p, nil
	case "enter":
		items := p.paginator.Posts()
		if p.cursor < len(items) {
			post := items[p.cursor]
			return p, func() tea.Msg { return navigateMsg{path: "/posts/" + post.ID, post: &post} }
		}
		return p, nil
	case "/":
		p.searching = true
		return p, p.search.Focus()
	case "n":
		return p, p.pageCmd(p.paginator.NextPage)
	case "p":
		return p, p.pageCmd(p.paginator.PrevPage)
	case "t":
		p.tagIndex = cycleIndex(p.tagIndex, len(p.options().Tags))
		return p, p.applyFilters()
	case "a":
		p.authorIndex = cycleIndex(p.authorIndex, len(p.options().Authors))
		return p, p.applyFilters()
	case "s":
		p.sortByTitle = !p.sortByTitle
		return p, p.applyFilters()
	case "o":
		p.sortAsc = !p.sortAsc
		return p, p.applyFilters()
	case "x":
		p.search.SetValue("")
		p.tagIndex, p.authorIndex = -1, -1
		p.sortByTitle, p.sortAsc = false, false
		return p, p.applyFilters()
	case "v":
		p.toggleViewMode()
		return p, nil
	case "c":
		if can(policy.ActionCreate, policy.SubjectPost, nil) {
			return p, func() tea.Msg { return navigateMsg{path: "/posts/new"} }
		}
		return p, nil
	case "m":
		if p.variant == minePosts {
			return p, func() tea.Msg { return navigateMsg{path: "/dashboard"} }
		}
		return p, func() tea.Msg { return navigateMsg{path: "/posts/mine"} }
	case "u":
		if policy.CanViewUsers(p.currentRole()) {
			return p, func() tea.Msg { return navigateMsg{path: "/users"} }
		}
		return p, nil
	case "i":
		return p, func() tea.Msg { return navigateMsg{path: "/profile"} }
	}
	return p, nil
}

func (p *postsPage) currentRole() users.Role {
	if user := p.deps.Session.Current(); user != nil {
		return user.Role
	}
	return ""
}

func (p *postsPage) options() posts.Options {
	return p.paginator.Options()
}

// filters assembles the search params from the page's cycling state.
// Page and limit never appear here: they belong to the paginator.
func (p *postsPage) filters() posts.SearchParams {
	params := posts.SearchParams{Search: strings.TrimSpace(p.search.Value())}
	opts := p.options()
	if p.tagIndex >= 0 && p.tagIndex < len(opts.Tags) {
		params.Tag = opts.Tags[p.tagIndex]
	}
	if p.authorIndex >= 0 && p.authorIndex < len(opts.Authors) {
		params.AuthorID = opts.Authors[p.authorIndex].ID
	}
	if p.sortByTitle {
		params.SortBy = "title"
	}
	if p.sortAsc {
		params.SortOrder = "asc"
	}
	return params
}

func (p *postsPage) applyFilters() tea.Cmd {
	params := p.filters()
	return func() tea.Msg {
		p.paginator.Search(context.Background(), params)
		return pageRefreshedMsg{}
	}
}

func (p *postsPage) pageCmd(op func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		op(context.Background())
		return pageRefreshedMsg{}
	}
}

func (p *postsPage) toggleViewMode() {
	if p.mode == viewGrid {
		p.mode = viewTable
	} else {
		p.mode = viewGrid
	}
	if err := p.deps.State.Set(p.variant.storageKey(), string(p.mode)); err != nil {
		p.deps.Logger.Error("persist view mode", "error", err)
	}
}

func (p *postsPage) clampCursor() {
	count := len(p.paginator.Posts())
	if count == 0 {
		p.cursor = 0
		return
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= count {
		p.cursor = count - 1
	}
}

func (p *postsPage) View(width, height int) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(p.variant.title()))
	b.WriteString("  ")
	b.WriteString(p.filterSummary())
	b.WriteString("\n\n")

	if p.searching {
		b.WriteString(p.search.View())
		b.WriteString("\n\n")
	}

	items := p.paginator.Posts()
	switch {
	case p.paginator.Loading():
		b.WriteString(subtitleStyle.Render("Carregando posts..."))
	case len(items) == 0:
		b.WriteString(subtitleStyle.Render("Nenhum post encontrado"))
	case p.mode == viewTable:
		b.WriteString(p.renderTable(items))
	default:
		b.WriteString(p.renderGrid(items, width))
	}
	b.WriteString("\n\n")

	b.WriteString(p.pagination())
	if errText := p.paginator.Err(); errText != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(errText))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: mover · enter: abrir · /: buscar · t/a/s/o: filtros · x: limpar · n/p: páginas · v: exibição · c: novo · m: meus/dashboard · u: usuários · i: perfil · l: sair"))
	return b.String()
}

func (p *postsPage) filterSummary() string {
	params := p.paginator.Filters()
	var parts []string
	if params.Search != "" {
		parts = append(parts, "busca: "+params.Search)
	}
	if params.Tag != "" {
		parts = append(parts, "tag: "+params.Tag)
	}
	if params.AuthorID != "" {
		for _, author := range p.options().Authors {
			if author.ID == params.AuthorID {
				parts = append(parts, "autor: "+author.Name)
				break
			}
		}
	}
	sortBy := "data"
	if params.SortBy == "title" {
		sortBy = "título"
	}
	order := "↓"
	if params.SortOrder == "asc" {
		order = "↑"
	}
	parts = append(parts, "ordem: "+sortBy+" "+order)
	return subtitleStyle.Render(strings.Join(parts, " · "))
}

func (p *postsPage) renderTable(items []posts.Post) string {
	var rows []string
	for i, post := range items {
		line := fmt.Sprintf("%-40s  %-20s  %s", truncate(post.Title, 40), truncate(post.Author, 20), post.CreatedAt.Format("02/01/2006"))
		if post.Edited() {
			line += "  (editado)"
		}
		if i == p.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

func (p *postsPage) renderGrid(items []posts.Post, width int) string {
	columns := width / 30
	if columns < 1 {
		columns = 1
	}
	if columns > 3 {
		columns = 3
	}
	var rows []string
	for start := 0; start < len(items); start += columns {
		end := start + columns
		if end > len(items) {
			end = len(items)
		}
		var cards []string
		for i := start; i < end; i++ {
			cards = append(cards, p.renderCard(items[i], i == p.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}

func (p *postsPage) renderCard(post posts.Post, selected bool) string {
	title := truncate(post.Title, 24)
	if selected {
		title = selectedStyle.Render(title)
	}
	meta := subtitleStyle.Render(truncate(post.Author, 24))
	date := post.CreatedAt.Format("02/01/2006")
	if post.Edited() {
		date += " (editado)"
	}
	body := title + "\n" + meta + "\n" + subtitleStyle.Render(date)
	if len(post.Tags) > 0 {
		body += "\n" + tagStyle.Render(truncate(strings.Join(post.Tags, ", "), 24))
	}
	return cardStyle.Render(body)
}

func (p *postsPage) pagination() string {
	label := fmt.Sprintf("Página %d", p.paginator.Page())
	if p.paginator.HasNextPage() {
		label += " · há próxima página"
	}
	if p.paginator.HasActiveFilters() {
		label += " · filtros ativos"
	}
	return subtitleStyle.Render(label)
}

func cycleIndex(current, length int) int {
	if length == 0 {
		return -1
	}
	current++
	if current >= length {
		return -1
	}
	return current
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
