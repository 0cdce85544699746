package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pontodeaula/pontoaula/internal/users"
)

type ownedResource struct {
	owner string
}

func (r ownedResource) OwnerID() string { return r.owner }

func userWith(role users.Role) *users.User {
	return &users.User{ID: "u-1", Name: "Ana", Role: role}
}

func TestCanPerformNilUser(t *testing.T) {
	engine := NewEngine()
	require.False(t, engine.CanPerform(nil, ActionRead, SubjectPost, nil))
}

func TestCanPerformUnknownRole(t *testing.T) {
	engine := NewEngine()
	require.False(t, engine.CanPerform(userWith("INTERN"), ActionRead, SubjectPost, nil))
}

func TestAdminManageAllBypassesDynamicRules(t *testing.T) {
	engine := NewEngine()
	admin := userWith(users.RoleAdmin)

	// The admin owns nothing here; manage on all must still win.
	other := ownedResource{owner: "someone-else"}
	require.True(t, engine.CanPerform(admin, ActionUpdate, SubjectPost, other))
	require.True(t, engine.CanPerform(admin, ActionDelete, SubjectUser, other))
	require.True(t, engine.CanPerform(admin, ActionCreate, SubjectPost, nil))
}

func TestTeacherOwnershipRules(t *testing.T) {
	engine := NewEngine()
	teacher := userWith(users.RoleTeacher)

	mine := ownedResource{owner: teacher.ID}
	theirs := ownedResource{owner: "u-2"}

	require.True(t, engine.CanPerform(teacher, ActionCreate, SubjectPost, nil))
	require.True(t, engine.CanPerform(teacher, ActionRead, SubjectPost, theirs))
	require.True(t, engine.CanPerform(teacher, ActionUpdate, SubjectPost, mine))
	require.True(t, engine.CanPerform(teacher, ActionDelete, SubjectPost, mine))
	require.False(t, engine.CanPerform(teacher, ActionUpdate, SubjectPost, theirs))
	require.False(t, engine.CanPerform(teacher, ActionDelete, SubjectPost, theirs))
}

func TestOwnershipFailsClosedWithoutAuthor(t *testing.T) {
	engine := NewEngine()
	teacher := userWith(users.RoleTeacher)

	// No resource and an empty owner both deny instead of allowing.
	require.False(t, engine.CanPerform(teacher, ActionUpdate, SubjectPost, nil))
	require.False(t, engine.CanPerform(teacher, ActionUpdate, SubjectPost, ownedResource{}))
}

func TestStudentIsReadOnly(t *testing.T) {
	engine := NewEngine()
	student := userWith(users.RoleStudent)

	require.True(t, engine.CanPerform(student, ActionRead, SubjectPost, nil))
	require.False(t, engine.CanPerform(student, ActionCreate, SubjectPost, nil))
	require.False(t, engine.CanPerform(student, ActionUpdate, SubjectPost, ownedResource{owner: student.ID}))
	require.False(t, engine.CanPerform(student, ActionDelete, SubjectPost, ownedResource{owner: student.ID}))
}

func TestSecretaryMatchesTeacherOnPosts(t *testing.T) {
	engine := NewEngine()
	secretary := userWith(users.RoleSecretary)

	mine := ownedResource{owner: secretary.ID}
	theirs := ownedResource{owner: "u-2"}

	require.True(t, engine.CanPerform(secretary, ActionCreate, SubjectPost, nil))
	require.True(t, engine.CanPerform(secretary, ActionUpdate, SubjectPost, mine))
	require.False(t, engine.CanPerform(secretary, ActionUpdate, SubjectPost, theirs))
}

func TestCheckerForNilUserIsNeverNil(t *testing.T) {
	engine := NewEngine()

	can := engine.CheckerFor(nil)
	require.NotNil(t, can)
	require.False(t, can(ActionRead, SubjectPost, nil))
	require.False(t, can(ActionManage, SubjectAll, nil))
}

func TestCheckerForBoundUser(t *testing.T) {
	engine := NewEngine()
	teacher := userWith(users.RoleTeacher)

	can := engine.CheckerFor(teacher)
	require.True(t, can(ActionCreate, SubjectPost, nil))
	require.False(t, can(ActionDelete, SubjectPost, ownedResource{owner: "u-2"}))
}

func TestUserManagementHelpers(t *testing.T) {
	require.True(t, CanManageAllUsers(users.RoleAdmin))
	require.False(t, CanManageAllUsers(users.RoleSecretary))

	require.True(t, CanManageLimitedUsers(users.RoleSecretary))
	require.False(t, CanManageLimitedUsers(users.RoleAdmin))

	require.True(t, CanViewUsers(users.RoleAdmin))
	require.True(t, CanViewUsers(users.RoleSecretary))
	require.False(t, CanViewUsers(users.RoleTeacher))
	require.False(t, CanViewUsers(users.RoleStudent))
}

func TestCanManageUserRole(t *testing.T) {
	require.True(t, CanManageUserRole(users.RoleAdmin, users.RoleAdmin))
	require.True(t, CanManageUserRole(users.RoleAdmin, users.RoleSecretary))

	require.True(t, CanManageUserRole(users.RoleSecretary, users.RoleTeacher))
	require.True(t, CanManageUserRole(users.RoleSecretary, users.RoleStudent))
	require.False(t, CanManageUserRole(users.RoleSecretary, users.RoleAdmin))
	require.False(t, CanManageUserRole(users.RoleSecretary, users.RoleSecretary))

	require.False(t, CanManageUserRole(users.RoleTeacher, users.RoleStudent))
}

func TestShouldHideSelf(t *testing.T) {
	me := userWith(users.RoleAdmin)

	require.True(t, ShouldHideSelf(me, users.User{ID: me.ID}))
	require.False(t, ShouldHideSelf(me, users.User{ID: "u-2"}))
	require.False(t, ShouldHideSelf(nil, users.User{ID: "u-2"}))
}
