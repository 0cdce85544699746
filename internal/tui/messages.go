package tui

import (
	"github.com/pontodeaula/pontoaula/internal/posts"
	"github.com/pontodeaula/pontoaula/internal/users"
)

// navigateMsg asks the root model to switch to another route. Pages
// never switch themselves; the route guard decides what renders.
type navigateMsg struct {
	path string
	// post carries the subject into detail/edit pages so they render
	// without a refetch.
	post *posts.Post
	// user carries the subject into the account edit page.
	user *users.User
}

// noticeMsg shows a transient message in the status bar.
type noticeMsg struct {
	text  string
	isErr bool
}

// bootstrapDoneMsg reports that the session bootstrap settled.
type bootstrapDoneMsg struct{}

// loginDoneMsg reports the outcome of a login attempt.
type loginDoneMsg struct {
	err error
}

// loggedOutMsg reports an explicit logout.
type loggedOutMsg struct{}

// pageRefreshedMsg reports that a paginator operation settled; the
// page re-reads the paginator state.
type pageRefreshedMsg struct{}

// postLoadedMsg delivers a single post to the detail page.
type postLoadedMsg struct {
	post *posts.Post
	err  error
}

// postSavedMsg reports the outcome of a create or update.
type postSavedMsg struct {
	post *posts.Post
	err  error
}

// postDeletedMsg reports the outcome of a post deletion.
type postDeletedMsg struct {
	err error
}

// usersLoadedMsg delivers the account listing.
type usersLoadedMsg struct {
	users []users.User
	err   error
}

// userSavedMsg reports the outcome of an account create or update.
type userSavedMsg struct {
	err error
}

// userDeletedMsg reports the outcome of an account deletion.
type userDeletedMsg struct {
	id  string
	err error
}

// profileSavedMsg reports the outcome of a self-profile update.
type profileSavedMsg struct {
	user *users.User
	err  error
}

// passwordChangedMsg reports the outcome of a password rotation.
type passwordChangedMsg struct {
	err error
}
