package tui

import (
	"context"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pontodeaula/pontoaula/internal/api"
	"github.com/pontodeaula/pontoaula/internal/media"
	"github.com/pontodeaula/pontoaula/internal/policy"
	"github.com/pontodeaula/pontoaula/internal/posts"
)

// detailPage shows a single post with capability-gated edit and delete
// actions. It renders whatever post it was handed immediately and
// refreshes from the backend in the background.
type detailPage struct {
	deps Deps
	id   string
	post *posts.Post

	confirmDelete bool
	loading       bool
	errText       string
}

func newDetailPage(deps Deps, id string, post *posts.Post) *detailPage {
	return &detailPage{deps: deps, id: id, post: post, loading: post == nil}
}

func (p *detailPage) Init() tea.Cmd {
	deps, id := p.deps, p.id
	return func() tea.Msg {
		post, err := deps.Posts.Get(context.Background(), id)
		return postLoadedMsg{post: post, err: err}
	}
}

func (p *detailPage) Update(msg tea.Msg) (pageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case postLoadedMsg:
		p.loading = false
		if msg.err != nil {
			p.errText = api.ErrorMessage(msg.err, "Erro ao buscar post")
			return p, nil
		}
		p.post = msg.post
		p.errText = ""
		return p, nil

	case postDeletedMsg:
		if msg.err != nil {
			p.errText = api.ErrorMessage(msg.err, "Erro ao excluir post")
			return p, nil
		}
		return p, func() tea.Msg { return navigateMsg{path: "/dashboard"} }

	case tea.KeyMsg:
		return p.updateKeys(msg)
	}
	return p, nil
}

func (p *detailPage) updateKeys(msg tea.KeyMsg) (pageModel, tea.Cmd) {
	if p.confirmDelete {
		switch msg.String() {
		case "y", "s":
			p.confirmDelete = false
			return p, p.deleteCmd()
		default:
			p.confirmDelete = false
			return p, nil
		}
	}

	can := p.deps.checker()
	switch msg.String() {
	case "esc", "backspace":
		return p, func() tea.Msg { return navigateMsg{path: "/dashboard"} }
	case "e":
		if p.post != nil && can(policy.ActionUpdate, policy.SubjectPost, *p.post) {
			post := p.post
			return p, func() tea.Msg { return navigateMsg{path: "/posts/edit/" + post.ID, post: post} }
		}
		return p, nil
	case "x":
		if p.post != nil && can(policy.ActionDelete, policy.SubjectPost, *p.post) {
			p.confirmDelete = true
		}
		return p, nil
	case "q":
		return p, tea.Quit
	}
	return p, nil
}

func (p *detailPage) deleteCmd() tea.Cmd {
	deps, id := p.deps, p.id
	return func() tea.Msg {
		return postDeletedMsg{err: deps.Posts.Delete(context.Background(), id)}
	}
}

func (p *detailPage) View(width, height int) string {
	if p.post == nil {
		if p.errText != "" {
			return errorStyle.Render(p.errText)
		}
		return subtitleStyle.Render("Carregando post...")
	}

	post := p.post
	var b strings.Builder
	b.WriteString(titleStyle.Render(post.Title))
	b.WriteString("\n")

	meta := post.Author + " · " + post.CreatedAt.Format("02/01/2006 15:04")
	if post.Edited() {
		meta += " · editado em " + post.UpdatedAt.Format("02/01/2006 15:04")
	}
	b.WriteString(subtitleStyle.Render(meta))
	b.WriteString("\n")

	if len(post.Tags) > 0 {
		b.WriteString(tagStyle.Render(strings.Join(post.Tags, " · ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(wrap(stripHTML(post.Content), width))
	b.WriteString("\n")

	if post.ImageURL != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Imagem: ") + post.ImageURL)
	}
	if embed := media.YouTubeEmbedURL(post.VideoURL); embed != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Vídeo: ") + embed)
	}

	if p.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(p.errText))
	}

	b.WriteString("\n\n")
	if p.confirmDelete {
		b.WriteString(errorStyle.Render("Excluir este post? (s/n)"))
	} else {
		b.WriteString(helpStyle.Render(p.helpLine()))
	}
	return b.String()
}

func (p *detailPage) helpLine() string {
	can := p.deps.checker()
	parts := []string{"esc: voltar"}
	if p.post != nil && can(policy.ActionUpdate, policy.SubjectPost, *p.post) {
		parts = append(parts, "e: editar")
	}
	if p.post != nil && can(policy.ActionDelete, policy.SubjectPost, *p.post) {
		parts = append(parts, "x: excluir")
	}
	parts = append(parts, "q: sair")
	return strings.Join(parts, " · ")
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML flattens the editor's rich-text markup into plain terminal
// text. Block-level tags become line breaks; everything else is
// dropped.
func stripHTML(s string) string {
	s = strings.ReplaceAll(s, "</p>", "\n\n")
	s = strings.ReplaceAll(s, "<br>", "\n")
	s = strings.ReplaceAll(s, "<br/>", "\n")
	s = strings.ReplaceAll(s, "<br />", "\n")
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	return strings.TrimSpace(s)
}

// wrap soft-wraps text to the given width, preserving paragraph
// breaks.
func wrap(s string, width int) string {
	if width < 20 {
		width = 20
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if len([]rune(line)) <= width {
			out = append(out, line)
			continue
		}
		var current string
		for _, word := range strings.Fields(line) {
			if current == "" {
				current = word
				continue
			}
			if len([]rune(current))+1+len([]rune(word)) > width {
				out = append(out, current)
				current = word
				continue
			}
			current += " " + word
		}
		if current != "" {
			out = append(out, current)
		}
	}
	return strings.Join(out, "\n")
}
