package stub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pontodeaula/pontoaula/internal/posts"
	"github.com/pontodeaula/pontoaula/internal/users"
)

func TestCreateAccountAndAuthenticate(t *testing.T) {
	store := NewStore()

	created, err := store.CreateAccount("Ana", "ana@escola.dev", "ana.silva", "s3nha!", users.RoleTeacher)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, users.RoleTeacher, created.Role)

	byEmail, err := store.Authenticate("ana@escola.dev", "", "s3nha!")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	byUsername, err := store.Authenticate("", "ana.silva", "s3nha!")
	require.NoError(t, err)
	require.Equal(t, created.ID, byUsername.ID)

	_, err = store.Authenticate("ana@escola.dev", "", "errada")
	require.ErrorIs(t, err, ErrBadCredentials)

	_, err = store.Authenticate("ninguem@escola.dev", "", "s3nha!")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestCreateAccountRejectsDuplicates(t *testing.T) {
	store := NewStore()

	_, err := store.CreateAccount("Ana", "ana@escola.dev", "ana.silva", "s3nha!", users.RoleTeacher)
	require.NoError(t, err)

	_, err = store.CreateAccount("Outra", "ana@escola.dev", "outra", "s3nha!", users.RoleTeacher)
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = store.CreateAccount("Outra", "outra@escola.dev", "ana.silva", "s3nha!", users.RoleTeacher)
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestUpdateUserKeepsEmptyFieldsAndRole(t *testing.T) {
	store := NewStore()
	created, err := store.CreateAccount("Ana", "ana@escola.dev", "ana.silva", "s3nha!", users.RoleTeacher)
	require.NoError(t, err)

	updated, err := store.UpdateUser(created.ID, "Ana Maria", "", "")
	require.NoError(t, err)
	require.Equal(t, "Ana Maria", updated.Name)
	require.Equal(t, "ana@escola.dev", updated.Email)
	require.Equal(t, "ana.silva", updated.Username)
	require.Equal(t, users.RoleTeacher, updated.Role)

	_, err = store.UpdateUser("missing", "X", "", "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	store := NewStore()
	created, err := store.CreateAccount("Ana", "ana@escola.dev", "", "antiga!", users.RoleTeacher)
	require.NoError(t, err)

	require.ErrorIs(t, store.ChangePassword(created.ID, "errada", "n0va-s3nha"), ErrBadCredentials)
	require.NoError(t, store.ChangePassword(created.ID, "antiga!", "n0va-s3nha"))

	_, err = store.Authenticate("ana@escola.dev", "", "antiga!")
	require.ErrorIs(t, err, ErrBadCredentials)
	_, err = store.Authenticate("ana@escola.dev", "", "n0va-s3nha")
	require.NoError(t, err)
}

func TestPostLifecycle(t *testing.T) {
	store := NewStore()
	author, err := store.CreateAccount("Ana", "ana@escola.dev", "", "s3nha!", users.RoleTeacher)
	require.NoError(t, err)

	created := store.CreatePost(author, posts.CreatePayload{Title: "Aula 01", Content: "<p>oi</p>", Tags: []string{"matemática"}})
	require.Equal(t, author.ID, created.AuthorID)
	require.Equal(t, "Ana", created.Author)
	require.True(t, created.UpdatedAt.Equal(created.CreatedAt))

	got, err := store.GetPost(created.ID)
	require.NoError(t, err)
	require.Equal(t, "Aula 01", got.Title)

	updated, err := store.UpdatePost(created.ID, posts.UpdatePayload{Title: "Aula 01 (rev)", Content: "<p>oi</p>"})
	require.NoError(t, err)
	require.Equal(t, "Aula 01 (rev)", updated.Title)

	require.NoError(t, store.DeletePost(created.ID))
	_, err = store.GetPost(created.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, store.DeletePost(created.ID), ErrNotFound)
}

func TestUpdatePostBumpsUpdatedAt(t *testing.T) {
	store := NewStore()
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	author, err := store.CreateAccount("Ana", "ana@escola.dev", "", "s3nha!", users.RoleTeacher)
	require.NoError(t, err)
	created := store.CreatePost(author, posts.CreatePayload{Title: "Aula", Content: "<p>oi</p>"})
	require.False(t, created.Edited())

	clock = clock.Add(time.Hour)
	updated, err := store.UpdatePost(created.ID, posts.UpdatePayload{Title: "Aula", Content: "<p>oi</p>"})
	require.NoError(t, err)
	require.True(t, updated.Edited())
}

func TestListPostsNewestFirstAndByAuthor(t *testing.T) {
	store := NewStore()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	ana, err := store.CreateAccount("Ana", "ana@escola.dev", "", "s3nha!", users.RoleTeacher)
	require.NoError(t, err)
	carlos, err := store.CreateAccount("Carlos", "carlos@escola.dev", "", "s3nha!", users.RoleTeacher)
	require.NoError(t, err)

	store.CreatePostAt(ana, posts.CreatePayload{Title: "Antiga", Content: "<p>a</p>"}, base)
	store.CreatePostAt(carlos, posts.CreatePayload{Title: "Meio", Content: "<p>b</p>"}, base.Add(time.Hour))
	store.CreatePostAt(ana, posts.CreatePayload{Title: "Recente", Content: "<p>c</p>"}, base.Add(2*time.Hour))

	all := store.ListPosts()
	require.Len(t, all, 3)
	require.Equal(t, "Recente", all[0].Title)
	require.Equal(t, "Antiga", all[2].Title)

	mine := store.ListPostsByAuthor(ana.ID)
	require.Len(t, mine, 2)
	require.Equal(t, "Recente", mine[0].Title)
}

func TestListUsersSortedByName(t *testing.T) {
	store := NewStore()
	_, err := store.CreateAccount("Carlos", "carlos@escola.dev", "", "s3nha!", users.RoleTeacher)
	require.NoError(t, err)
	_, err = store.CreateAccount("Ana", "ana@escola.dev", "", "s3nha!", users.RoleAdmin)
	require.NoError(t, err)

	list := store.ListUsers()
	require.Len(t, list, 2)
	require.Equal(t, "Ana", list[0].Name)
	require.Equal(t, "Carlos", list[1].Name)
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("segredo", time.Hour)
	user := &users.User{ID: "u-1", Role: users.RoleTeacher}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	subject, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "u-1", subject)

	_, err = issuer.Verify("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenIssuer("outro-segredo", time.Hour)
	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiry(t *testing.T) {
	issuer := NewTokenIssuer("segredo", time.Minute)
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return clock }

	token, err := issuer.Issue(&users.User{ID: "u-1", Role: users.RoleTeacher})
	require.NoError(t, err)

	clock = clock.Add(2 * time.Minute)
	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
