package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pontodeaula/pontoaula/internal/api"
	"github.com/pontodeaula/pontoaula/internal/posts"
)

const (
	formFieldTitle = iota
	formFieldTags
	formFieldImage
	formFieldVideo
	formFieldContent
	formFieldCount
)

// postFormPage creates a new post or edits an existing one. A non-nil
// post means edit mode.
type postFormPage struct {
	deps Deps
	post *posts.Post

	title   textinput.Model
	tags    textinput.Model
	image   textinput.Model
	video   textinput.Model
	content textarea.Model

	focus   int
	saving  bool
	errText string
}

func newPostFormPage(deps Deps, post *posts.Post) *postFormPage {
	title := textinput.New()
	title.Placeholder = "Título"
	title.CharLimit = 200

	tags := textinput.New()
	tags.Placeholder = "Tags separadas por vírgula"

	image := textinput.New()
	image.Placeholder = "URL da imagem (opcional)"

	video := textinput.New()
	video.Placeholder = "URL do vídeo no YouTube (opcional)"

	content := textarea.New()
	content.Placeholder = "Conteúdo"
	content.SetHeight(10)

	if post != nil {
		title.SetValue(post.Title)
		tags.SetValue(strings.Join(post.Tags, ", "))
		image.SetValue(post.ImageURL)
		video.SetValue(post.VideoURL)
		content.SetValue(post.Content)
	}

	p := &postFormPage{
		deps:    deps,
		post:    post,
		title:   title,
		tags:    tags,
		image:   image,
		video:   video,
		content: content,
	}
	p.setFocus(formFieldTitle)
	return p
}

func (p *postFormPage) Init() tea.Cmd { return textinput.Blink }

func (p *postFormPage) setFocus(field int) {
	p.focus = field
	p.title.Blur()
	p.tags.Blur()
	p.image.Blur()
	p.video.Blur()
	p.content.Blur()
	switch field {
	case formFieldTitle:
		p.title.Focus()
	case formFieldTags:
		p.tags.Focus()
	case formFieldImage:
		p.image.Focus()
	case formFieldVideo:
		p.video.Focus()
	case formFieldContent:
		p.content.Focus()
	}
}

func (p *postFormPage) Update(msg tea.Msg) (pageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case postSavedMsg:
		p.saving = false
		if msg.err != nil {
			p.errText = api.ErrorMessage(msg.err, "Erro ao salvar post")
			return p, nil
		}
		saved := msg.post
		return p, func() tea.Msg { return navigateMsg{path: "/posts/" + saved.ID, post: saved} }

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return p, func() tea.Msg { return p.cancelTarget() }
		case "tab":
			p.setFocus((p.focus + 1) % formFieldCount)
			return p, nil
		case "shift+tab":
			p.setFocus((p.focus + formFieldCount - 1) % formFieldCount)
			return p, nil
		case "ctrl+s":
			if p.saving {
				return p, nil
			}
			p.saving = true
			p.errText = ""
			return p, p.saveCmd()
		case "enter":
			// Enter advances through single-line fields; inside the
			// content area it inserts a newline as usual.
			if p.focus != formFieldContent {
				p.setFocus((p.focus + 1) % formFieldCount)
				return p, nil
			}
		}
		return p, p.forwardKey(msg)
	}
	return p, nil
}

func (p *postFormPage) forwardKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch p.focus {
	case formFieldTitle:
		p.title, cmd = p.title.Update(msg)
	case formFieldTags:
		p.tags, cmd = p.tags.Update(msg)
	case formFieldImage:
		p.image, cmd = p.image.Update(msg)
	case formFieldVideo:
		p.video, cmd = p.video.Update(msg)
	case formFieldContent:
		p.content, cmd = p.content.Update(msg)
	}
	return cmd
}

func (p *postFormPage) cancelTarget() tea.Msg {
	if p.post != nil {
		return navigateMsg{path: "/posts/" + p.post.ID, post: p.post}
	}
	return navigateMsg{path: "/dashboard"}
}

func (p *postFormPage) saveCmd() tea.Cmd {
	deps := p.deps
	title := strings.TrimSpace(p.title.Value())
	content := strings.TrimSpace(p.content.Value())
	tags := splitTags(p.tags.Value())
	imageURL := strings.TrimSpace(p.image.Value())
	videoURL := strings.TrimSpace(p.video.Value())
	editing := p.post

	return func() tea.Msg {
		ctx := context.Background()
		if editing != nil {
			post, err := deps.Posts.Update(ctx, editing.ID, posts.UpdatePayload{
				Title:    title,
				Content:  content,
				Tags:     tags,
				ImageURL: imageURL,
				VideoURL: videoURL,
			})
			return postSavedMsg{post: post, err: err}
		}
		post, err := deps.Posts.Create(ctx, posts.CreatePayload{
			Title:    title,
			Content:  content,
			Tags:     tags,
			ImageURL: imageURL,
			VideoURL: videoURL,
		})
		return postSavedMsg{post: post, err: err}
	}
}

func (p *postFormPage) View(width, height int) string {
	heading := "Novo Post"
	if p.post != nil {
		heading = "Editar Post"
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(heading))
	b.WriteString("\n\n")
	b.WriteString(formLine("Título", p.title.View()))
	b.WriteString(formLine("Tags", p.tags.View()))
	b.WriteString(formLine("Imagem", p.image.View()))
	b.WriteString(formLine("Vídeo", p.video.View()))
	b.WriteString(labelStyle.Render("Conteúdo"))
	b.WriteString("\n")
	b.WriteString(p.content.View())
	b.WriteString("\n")

	if p.saving {
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Salvando..."))
	}
	if p.errText != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(p.errText))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: próximo campo · ctrl+s: salvar · esc: cancelar"))
	return b.String()
}

func formLine(label, field string) string {
	return labelStyle.Render(label) + "\n" + field + "\n"
}

// splitTags parses a comma-separated tag list, dropping empties.
func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
