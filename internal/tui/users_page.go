package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pontodeaula/pontoaula/internal/api"
	"github.com/pontodeaula/pontoaula/internal/policy"
	"github.com/pontodeaula/pontoaula/internal/users"
)

// usersPage lists accounts for administrators and secretaries. The
// listing hides the caller's own row, and every mutation is gated on
// the target's role so a secretary never touches an admin account.
type usersPage struct {
	deps Deps

	all      []users.User
	visible  []users.User
	cursor   int
	loading  bool
	errText  string
	notice   string
	roleIdx  int // index into AllRoles(), -1 means every role
	search   textinput.Model
	typing   bool
	confirm  *users.User
}

func newUsersPage(deps Deps) *usersPage {
	search := textinput.New()
	search.Placeholder = "buscar por nome ou e-mail..."
	return &usersPage{deps: deps, loading: true, roleIdx: -1, search: search}
}

func (p *usersPage) Init() tea.Cmd {
	deps := p.deps
	return func() tea.Msg {
		list, err := deps.Users.List(context.Background())
		return usersLoadedMsg{users: list, err: err}
	}
}

func (p *usersPage) Update(msg tea.Msg) (pageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		p.loading = false
		if msg.err != nil {
			p.errText = api.ErrorMessage(msg.err, "Erro ao buscar usuários")
			return p, nil
		}
		p.all = msg.users
		p.refilter()
		return p, nil

	case userDeletedMsg:
		if msg.err != nil {
			p.errText = api.ErrorMessage(msg.err, "Erro ao excluir usuário")
			return p, nil
		}
		p.notice = "Usuário excluído"
		p.removeByID(msg.id)
		return p, nil

	case tea.KeyMsg:
		if p.typing {
			return p.updateSearch(msg)
		}
		return p.updateBrowse(msg)
	}
	return p, nil
}

func (p *usersPage) updateSearch(msg tea.KeyMsg) (pageModel, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		p.typing = false
		p.search.Blur()
		p.refilter()
		return p, nil
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	p.refilter()
	return p, cmd
}

func (p *usersPage) updateBrowse(msg tea.KeyMsg) (pageModel, tea.Cmd) {
	if p.confirm != nil {
		target := *p.confirm
		p.confirm = nil
		if s := msg.String(); s == "y" || s == "s" {
			return p, p.deleteCmd(target)
		}
		return p, nil
	}

	switch msg.String() {
	case "q":
		return p, tea.Quit
	case "esc":
		return p, func() tea.Msg { return navigateMsg{path: "/dashboard"} }
	case "j", "down":
		p.cursor++
		p.clampCursor()
		return p, nil
	case "k", "up":
		p.cursor--
		p.clampCursor()
		return p, nil
	case "/":
		p.typing = true
		return p, p.search.Focus()
	case "r":
		p.cycleRole()
		return p, nil
	case "c":
		return p, func() tea.Msg { return navigateMsg{path: "/users/new"} }
	case "enter", "e":
		if target := p.selected(); target != nil && p.canManage(*target) {
			user := *target
			return p, func() tea.Msg { return navigateMsg{path: "/users/edit/" + user.ID, user: &user} }
		}
		return p, nil
	case "x":
		if target := p.selected(); target != nil && p.canManage(*target) {
			p.confirm = target
		}
		return p, nil
	}
	return p, nil
}

func (p *usersPage) canManage(target users.User) bool {
	current := p.deps.Session.Current()
	if current == nil {
		return false
	}
	return policy.CanManageUserRole(current.Role, target.Role)
}

func (p *usersPage) selected() *users.User {
	if p.cursor < 0 || p.cursor >= len(p.visible) {
		return nil
	}
	user := p.visible[p.cursor]
	return &user
}

func (p *usersPage) cycleRole() {
	roles := users.AllRoles()
	p.roleIdx++
	if p.roleIdx >= len(roles) {
		p.roleIdx = -1
	}
	p.refilter()
}

func (p *usersPage) refilter() {
	current := p.deps.Session.Current()
	roles := users.AllRoles()
	needle := strings.ToLower(strings.TrimSpace(p.search.Value()))

	p.visible = p.visible[:0]
	for _, user := range p.all {
		if policy.ShouldHideSelf(current, user) {
			continue
		}
		if p.roleIdx >= 0 && user.Role != roles[p.roleIdx] {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(user.Name), needle) &&
			!strings.Contains(strings.ToLower(user.Email), needle) {
			continue
		}
		p.visible = append(p.visible, user)
	}
	p.clampCursor()
}

func (p *usersPage) removeByID(id string) {
	for i, user := range p.all {
		if user.ID == id {
			p.all = append(p.all[:i], p.all[i+1:]...)
			break
		}
	}
	p.refilter()
}

func (p *usersPage) clampCursor() {
	if len(p.visible) == 0 {
		p.cursor = 0
		return
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.visible) {
		p.cursor = len(p.visible) - 1
	}
}

func (p *usersPage) deleteCmd(target users.User) tea.Cmd {
	deps := p.deps
	return func() tea.Msg {
		err := deps.Users.Delete(context.Background(), target.ID)
		return userDeletedMsg{id: target.ID, err: err}
	}
}

func (p *usersPage) View(width, height int) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Usuários"))
	b.WriteString("  ")
	b.WriteString(subtitleStyle.Render(p.filterSummary()))
	b.WriteString("\n\n")

	if p.typing {
		b.WriteString(p.search.View())
		b.WriteString("\n\n")
	}

	switch {
	case p.loading:
		b.WriteString(subtitleStyle.Render("Carregando usuários..."))
	case len(p.visible) == 0:
		b.WriteString(subtitleStyle.Render("Nenhum usuário encontrado"))
	default:
		for i, user := range p.visible {
			line := fmt.Sprintf("%-30s  %-30s  %s", truncate(user.Name, 30), truncate(user.Email, 30), user.Role.Label())
			if !p.canManage(user) {
				line += "  (somente leitura)"
			}
			if i == p.cursor {
				line = selectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if p.errText != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(p.errText))
	}
	if p.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(p.notice))
	}

	b.WriteString("\n")
	if p.confirm != nil {
		b.WriteString(errorStyle.Render("Excluir " + p.confirm.Name + "? (s/n)"))
	} else {
		b.WriteString(helpStyle.Render("j/k: mover · enter: editar · c: novo · x: excluir · r: papel · /: buscar · esc: voltar"))
	}
	return b.String()
}

func (p *usersPage) filterSummary() string {
	roles := users.AllRoles()
	role := "todos os papéis"
	if p.roleIdx >= 0 {
		role = roles[p.roleIdx].Label()
	}
	if needle := strings.TrimSpace(p.search.Value()); needle != "" {
		return role + " · busca: " + needle
	}
	return role
}
