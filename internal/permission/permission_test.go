package permission

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permgate/permgate/internal/cache"
)

func route(path string, methods ...string) *Route {
	return &Route{Path: path, Methods: methods}
}

func userDefinition() Definition {
	return Definition{
		ID:          "UserController",
		Alias:       "users",
		Description: "Users",
		Access: &Access{
			Read:  []string{"getUsers", "getUserDetails"},
			Write: []string{"createUser", "deleteUser"},
		},
		Actions: []ActionDefinition{
			{Name: "getUsers", Alias: "usersList", Description: "List users", Route: route("/api/users", "GET")},
			{Name: "getUserDetails", Alias: "userDetails", Description: "User details", Route: route("/api/users/:id", "GET")},
			{Name: "createUser", Alias: "newUser", Description: "Create user", Route: route("/api/users", "POST")},
			{Name: "deleteUser", Alias: "removeUser", Description: "Delete user", Route: route("/api/users/:id", "DELETE")},
			{Name: "exportUsers", Alias: "usersExport", Description: "Export", Route: route("/api/users/export", "GET")},
			{Name: "helper", Alias: "helper"},
		},
	}
}

func testDefinitions() []Definition {
	return []Definition{
		userDefinition(),
		{
			ID:    "ProfileController",
			Alias: "profile",
			Actions: []ActionDefinition{
				{Name: "getProfile", Alias: "profile", Route: route("/api/profile", "GET")},
			},
		},
		{
			ID:          "ReportController",
			Alias:       "reports",
			Description: "Reports",
			Actions: []ActionDefinition{
				{Name: "getReports", Alias: "reportsList", Route: route("/api/reports", "GET")},
			},
		},
		{
			ID:          "BrokenController",
			Alias:       "broken",
			Description: "Broken",
			Actions: []ActionDefinition{
				{Name: "a", Alias: "same", Route: route("/a", "GET")},
				{Name: "b", Alias: "same", Route: route("/b", "GET")},
			},
		},
		{ID: "EmptyController", Alias: "empty", Description: "Empty"},
	}
}

func discover(t *testing.T, mode Mode) *Catalog {
	t.Helper()

	view, err := NewView(mode)
	require.NoError(t, err)

	registry := NewRegistry(view, cache.New(cache.NewMemory(16, time.Minute)))
	registry.Register(testDefinitions()...)

	catalog, err := registry.Discover(context.Background())
	require.NoError(t, err)

	return catalog
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeActions},
		{in: "actions", want: ModeActions},
		{in: "read-write", want: ModeReadWrite},
		{in: "readwrite", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownMode)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscoverActions(t *testing.T) {
	catalog := discover(t, ModeActions)

	assert.Equal(t, []string{"ReportController", "UserController"}, catalog.IDs())

	users, ok := catalog.Controller("UserController")
	require.True(t, ok)
	assert.Len(t, users.Actions, 5, "actions without route are not guarded")

	_, ok = users.Action("helper")
	assert.False(t, ok)

	_, ok = catalog.Controller("ProfileController")
	assert.False(t, ok, "undescribed controllers are excluded")

	_, ok = catalog.Controller("BrokenController")
	assert.False(t, ok, "controllers with duplicate aliases are excluded")
}

func TestDiscoverReadWrite(t *testing.T) {
	catalog := discover(t, ModeReadWrite)

	assert.Equal(t, []string{"UserController"}, catalog.IDs(), "controllers without partition are skipped")

	users, _ := catalog.Controller("UserController")

	read := users.Bucket(BucketRead)
	write := users.Bucket(BucketWrite)

	require.Len(t, read, 2)
	require.Len(t, write, 2)
	assert.Equal(t, "getUsers", read[0].Name)
	assert.Equal(t, "deleteUser", write[1].Name)

	_, ok := users.Action("exportUsers")
	assert.False(t, ok, "unclassified actions are skipped")
}

func TestWriteBucketWins(t *testing.T) {
	def := userDefinition()
	def.Access.Read = append(def.Access.Read, "deleteUser")

	ctl, ok := coarseView{}.Classify(def)
	require.True(t, ok)

	a, ok := ctl.Action("deleteUser")
	require.True(t, ok)
	assert.Equal(t, BucketWrite, a.Bucket)
}

func TestDuplicateControllerAlias(t *testing.T) {
	registry := NewRegistry(fineView{}, nil)

	other := userDefinition()
	other.ID = "OtherController"

	registry.Register(userDefinition(), other)

	catalog, err := registry.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"UserController"}, catalog.IDs())
}

func TestGrantAndPresent(t *testing.T) {
	t.Run("actions", func(t *testing.T) {
		users, _ := discover(t, ModeActions).Controller("UserController")

		perms := fineView{}.Grant(users, []string{"getUsers"})
		assert.Equal(t, []string{"getUsers"}, perms.Permissions)

		out := fineView{}.Present(users, perms)
		assert.Equal(t, "Users", out.Description)
		assert.True(t, out.Actions["usersList"].IsAuthorized)
		assert.False(t, out.Actions["removeUser"].IsAuthorized)
		assert.Equal(t, "Delete user", out.Actions["removeUser"].Description)
	})

	t.Run("read-write", func(t *testing.T) {
		users, _ := discover(t, ModeReadWrite).Controller("UserController")

		perms := coarseView{}.Grant(users, []string{"getUserDetails"})
		assert.True(t, perms.Read.IsAuthorized, "one authorized action authorizes the bucket")
		assert.False(t, perms.Write.IsAuthorized)

		out := coarseView{}.Present(users, perms)
		assert.Equal(t, map[string]AliasedAction{
			"read":  {IsAuthorized: true},
			"write": {IsAuthorized: false},
		}, out.Actions)
	})
}

func TestExpand(t *testing.T) {
	fine, _ := discover(t, ModeActions).Controller("UserController")

	assert.Equal(t,
		map[string]bool{"getUsers": true, "deleteUser": false},
		fineView{}.Expand(fine, map[string]bool{"usersList": true, "removeUser": false, "nope": true}),
	)

	coarse, _ := discover(t, ModeReadWrite).Controller("UserController")

	assert.Equal(t,
		map[string]bool{"getUsers": true, "getUserDetails": true, "createUser": false, "deleteUser": false},
		coarseView{}.Expand(coarse, map[string]bool{"read": true, "write": false}),
	)
}

func TestTranslatorRoundTrip(t *testing.T) {
	for _, mode := range []Mode{ModeActions, ModeReadWrite} {
		t.Run(mode.String(), func(t *testing.T) {
			view, _ := NewView(mode)
			catalog := discover(t, mode)
			tr := NewTranslator(catalog, view)

			for _, id := range catalog.IDs() {
				assert.Equal(t, id, tr.ControllerID(tr.ControllerAlias(id)))

				ctl, _ := catalog.Controller(id)
				for _, a := range ctl.Actions {
					assert.Contains(t, tr.ActionNames(id, tr.ActionAlias(id, a.Name)), a.Name)
				}
			}

			assert.Empty(t, tr.ControllerAlias("UnknownController"))
			assert.Empty(t, tr.ControllerID("unknown"))
			assert.Empty(t, tr.ActionAlias("UserController", "unknown"))
		})
	}
}

func TestActionName(t *testing.T) {
	tr := NewTranslator(discover(t, ModeActions), fineView{})
	assert.Equal(t, "getUsers", tr.ActionName("UserController", "usersList"))
	assert.Empty(t, tr.ActionName("UserController", "unknown"))

	tr = NewTranslator(discover(t, ModeReadWrite), coarseView{})
	assert.Empty(t, tr.ActionName("UserController", "read"), "buckets stand for several actions")
}

func TestTranslatePermissions(t *testing.T) {
	perms := map[string][]string{
		"UserController":    {"getUsers", "getUserDetails", "deleteUser"},
		"UnknownController": {"anything"},
	}

	tr := NewTranslator(discover(t, ModeActions), fineView{})
	assert.Equal(t,
		map[string][]string{"users": {"removeUser", "userDetails", "usersList"}},
		tr.TranslatePermissions(perms),
	)

	tr = NewTranslator(discover(t, ModeReadWrite), coarseView{})
	assert.Equal(t,
		map[string][]string{"users": {"read", "write"}},
		tr.TranslatePermissions(perms),
	)
}
