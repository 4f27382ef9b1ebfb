package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/rentdash-go/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func seededDirectory(t *testing.T, api *fakeAPI, users ...domain.User) *UserDirectory {
	t.Helper()
	api.ListRet = users
	d := NewUserDirectory(api)
	require.NoError(t, d.FetchUsers(context.Background()))
	return d
}

func userIDs(users []domain.User) []int64 {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestUserDirectory_FetchUsers(t *testing.T) {
	api := &fakeAPI{}
	d := seededDirectory(t, api, testUser(2, "Bo"), testUser(1, "Ann"))

	snap := d.Snapshot()
	require.Equal(t, []int64{2, 1}, userIDs(snap.Users), "server order is kept")
	require.False(t, snap.Loading)
	require.Empty(t, snap.LastError)

	t.Run("replaces wholesale", func(t *testing.T) {
		api.ListRet = []domain.User{testUser(3, "Cid")}
		require.NoError(t, d.FetchUsers(context.Background()))
		require.Equal(t, []int64{3}, userIDs(d.Snapshot().Users))
	})

	t.Run("failure keeps cache", func(t *testing.T) {
		api.ListErr = &fakeError{Status: 500, Message: ""}
		err := d.FetchUsers(context.Background())
		require.Error(t, err)

		snap := d.Snapshot()
		require.Equal(t, []int64{3}, userIDs(snap.Users))
		require.Equal(t, MsgFetchUsersFailed, snap.LastError)
		require.False(t, snap.Loading)
	})
}

func TestUserDirectory_FetchUserByID(t *testing.T) {
	api := &fakeAPI{}
	d := seededDirectory(t, api, testUser(1, "Ann"))

	api.GetRet = userPtr(testUser(7, "Gus"))
	require.NoError(t, d.FetchUserByID(context.Background(), 7))

	snap := d.Snapshot()
	require.NotNil(t, snap.Selected)
	require.Equal(t, int64(7), snap.Selected.ID)
	require.Equal(t, []int64{1}, userIDs(snap.Users), "users is not touched")

	api.GetErr = &fakeError{Status: 404}
	err := d.FetchUserByID(context.Background(), 8)
	require.Error(t, err)
	require.Equal(t, "Error fetching user 8", d.Snapshot().LastError)
	require.Equal(t, int64(7), d.Snapshot().Selected.ID)

	d.ClearSelectedUser()
	d.ClearError()
	require.Nil(t, d.Snapshot().Selected)
	require.Empty(t, d.Snapshot().LastError)
}

func TestUserDirectory_AddUser(t *testing.T) {
	api := &fakeAPI{}
	d := seededDirectory(t, api, testUser(1, "Ann"), testUser(2, "Bo"))

	api.CreateRet = userPtr(testUser(3, "Cid"))
	created, err := d.AddUser(context.Background(), domain.UserInput{Name: "Cid", Email: "cid@example.com", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, int64(3), created.ID)

	snap := d.Snapshot()
	require.Len(t, snap.Users, 3)
	require.Equal(t, int64(3), snap.Users[2].ID)
	require.Equal(t, testTime, snap.Users[2].CreatedAt, "server timestamps are kept")

	api.CreateErr = &fakeError{Status: 409, Message: "Email already exists"}
	_, err = d.AddUser(context.Background(), domain.UserInput{Name: "Dup", Email: "cid@example.com", Password: "secret"})
	require.Error(t, err)

	snap = d.Snapshot()
	require.Len(t, snap.Users, 3)
	require.Equal(t, "Email already exists", snap.LastError)
}

func TestUserDirectory_UpdateUserData(t *testing.T) {
	api := &fakeAPI{}
	d := seededDirectory(t, api, testUser(1, "Ann"), testUser(2, "Bo"))
	api.GetRet = userPtr(testUser(2, "Bo"))
	require.NoError(t, d.FetchUserByID(context.Background(), 2))

	t.Run("strips server-owned fields", func(t *testing.T) {
		id := int64(2)
		patch := domain.UserPatch{ID: &id, Password: strPtr("newpass"), CreatedAt: &testTime, UpdatedAt: &testTime}
		api.UpdateRet = userPtr(testUser(2, "Bo"))

		_, err := d.UpdateUserData(context.Background(), 2, patch)
		require.NoError(t, err)

		body, err := json.Marshal(api.LastUpdate)
		require.NoError(t, err)
		require.JSONEq(t, `{"password":"newpass"}`, string(body))
	})

	t.Run("replaces matching record and selection", func(t *testing.T) {
		updated := testUser(2, "Bob")
		api.UpdateRet = &updated

		_, err := d.UpdateUserData(context.Background(), 2, domain.UserPatch{Name: strPtr("Bob")})
		require.NoError(t, err)

		snap := d.Snapshot()
		require.Equal(t, "Ann", snap.Users[0].Name)
		require.Equal(t, "Bob", snap.Users[1].Name)
		require.Equal(t, "Bob", snap.Selected.Name)
	})

	t.Run("no local match leaves collection", func(t *testing.T) {
		api.UpdateRet = userPtr(testUser(99, "Ghost"))

		_, err := d.UpdateUserData(context.Background(), 99, domain.UserPatch{Name: strPtr("Ghost")})
		require.NoError(t, err)
		require.Equal(t, int64(99), api.LastUpdated)
		require.Equal(t, []int64{1, 2}, userIDs(d.Snapshot().Users))
	})

	t.Run("failure keeps cache", func(t *testing.T) {
		api.UpdateErr = &fakeError{Status: 400, Message: ""}

		_, err := d.UpdateUserData(context.Background(), 1, domain.UserPatch{Name: strPtr("Zed")})
		require.Error(t, err)

		snap := d.Snapshot()
		require.Equal(t, "Ann", snap.Users[0].Name)
		require.Equal(t, "Error updating user 1", snap.LastError)
	})
}

func TestUserDirectory_RemoveUser(t *testing.T) {
	api := &fakeAPI{}
	d := seededDirectory(t, api, testUser(1, "Ann"), testUser(2, "Bo"))
	api.GetRet = userPtr(testUser(1, "Ann"))
	require.NoError(t, d.FetchUserByID(context.Background(), 1))

	require.NoError(t, d.RemoveUser(context.Background(), 1))

	snap := d.Snapshot()
	require.Equal(t, []int64{2}, userIDs(snap.Users))
	require.Nil(t, snap.Selected)

	api.DeleteErr = &fakeError{Status: 404, Message: "User not found"}
	err := d.RemoveUser(context.Background(), 1)
	require.Error(t, err)
	var fe *fakeError
	require.True(t, errors.As(err, &fe))

	snap = d.Snapshot()
	require.Equal(t, []int64{2}, userIDs(snap.Users))
	require.Equal(t, "User not found", snap.LastError)
	require.False(t, snap.Loading)
}

func TestUserDirectory_RemoveKeepsOtherSelection(t *testing.T) {
	api := &fakeAPI{}
	d := seededDirectory(t, api, testUser(1, "Ann"), testUser(2, "Bo"))
	api.GetRet = userPtr(testUser(2, "Bo"))
	require.NoError(t, d.FetchUserByID(context.Background(), 2))

	require.NoError(t, d.RemoveUser(context.Background(), 1))
	require.Equal(t, int64(2), d.Snapshot().Selected.ID)
}

func TestUserDirectory_Filter(t *testing.T) {
	api := &fakeAPI{}
	d := seededDirectory(t, api,
		domain.User{ID: 1, Name: "John Doe", Email: "john.doe@example.com"},
		domain.User{ID: 2, Name: "Jane Smith", Email: "jane.smith@example.com"},
	)

	snap := d.Snapshot()
	require.Equal(t, []int64{1, 2}, userIDs(snap.Filter("")))
	require.Equal(t, []int64{2}, userIDs(snap.Filter("SMITH")))
	require.Equal(t, []int64{1}, userIDs(snap.Filter("john.doe@")))
	require.Empty(t, snap.Filter("nobody"))
}

func TestUserDirectory_SnapshotIsCopy(t *testing.T) {
	api := &fakeAPI{}
	d := seededDirectory(t, api, testUser(1, "Ann"))

	snap := d.Snapshot()
	snap.Users[0].Name = "mutated"
	require.Equal(t, "Ann", d.Snapshot().Users[0].Name)
}

func TestUserDirectory_EmptyWriteResponse(t *testing.T) {
	api := &fakeAPI{}
	d := seededDirectory(t, api, testUser(1, "Ann"))

	created, err := d.AddUser(context.Background(), domain.UserInput{Name: "Cid", Email: "cid@example.com", Password: "secret"})
	require.Nil(t, created)
	require.True(t, errors.Is(err, domain.ErrEmptyUserResponse), "got %v", err)
	require.Equal(t, MsgCreateUserFailed, d.Snapshot().LastError)
	require.Len(t, d.Snapshot().Users, 1)
	require.False(t, d.Snapshot().Loading)

	d.ClearError()
	updated, err := d.UpdateUserData(context.Background(), 1, domain.UserPatch{Name: strPtr("Annie")})
	require.Nil(t, updated)
	require.True(t, errors.Is(err, domain.ErrEmptyUserResponse), "got %v", err)
	require.Equal(t, "Error updating user 1", d.Snapshot().LastError)
	require.Equal(t, "Ann", d.Snapshot().Users[0].Name)
}
