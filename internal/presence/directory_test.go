package presence

import (
	"fmt"
	"testing"

	"github.com/npezzotti/roomchat/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestAdd(t *testing.T) {
	d := NewDirectory()

	u := d.Add("c1", "alice", "lobby")
	assert.Equal(t, User{ConnId: "c1", Username: "alice", Room: "lobby"}, u, "expected returned user to match input")
	assert.Equal(t, 1, d.Len(), "expected directory size to be 1")

	got, ok := d.Get("c1")
	assert.True(t, ok, "expected user to be found")
	assert.Equal(t, u, got, "expected stored user to match returned user")
}

func TestAdd_overwrite(t *testing.T) {
	d := NewDirectory()

	d.Add("c1", "alice", "lobby")
	d.Add("c2", "bob", "lobby")
	d.Add("c1", "alice2", "games")

	assert.Equal(t, 2, d.Len(), "expected overwrite not to grow the directory")

	got, ok := d.Get("c1")
	assert.True(t, ok)
	assert.Equal(t, "alice2", got.Username, "expected username to be overwritten")
	assert.Equal(t, "games", got.Room, "expected room to be overwritten")

	assert.Equal(t, []types.User{{Username: "bob", Room: "lobby"}}, d.ListByRoom("lobby"), "expected overwritten entry to leave its old room")
	assert.Equal(t, []types.User{{Username: "alice2", Room: "games"}}, d.ListByRoom("games"))
}

func TestAdd_noValidation(t *testing.T) {
	d := NewDirectory()

	d.Add("c1", "", "")
	d.Add("c2", "", "")

	assert.Equal(t, 2, d.Len(), "expected empty and duplicate names to be accepted")
	assert.Len(t, d.ListByRoom(""), 2)
}

func TestRemove(t *testing.T) {
	d := NewDirectory()
	d.Add("c1", "alice", "lobby")

	u, ok := d.Remove("c1")
	assert.True(t, ok, "expected remove to report a present entry")
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, 0, d.Len())

	u, ok = d.Remove("c1")
	assert.False(t, ok, "expected second remove to report absence")
	assert.Equal(t, User{}, u, "expected zero user on absence")

	_, ok = d.Remove("never-joined")
	assert.False(t, ok)
}

func TestGet_absent(t *testing.T) {
	d := NewDirectory()

	u, ok := d.Get("c1")
	assert.False(t, ok)
	assert.Equal(t, User{}, u)
	assert.Equal(t, 0, d.Len(), "expected lookup not to mutate the directory")
}

func TestListByRoom(t *testing.T) {
	tcases := []struct {
		name  string
		joins [][3]string
		room  string
		want  []types.User
	}{
		{
			name: "unknown room",
			room: "lobby",
			want: []types.User{},
		},
		{
			name: "filters by exact room name",
			joins: [][3]string{
				{"c1", "alice", "lobby"},
				{"c2", "bob", "Lobby"},
				{"c3", "carol", "lobby"},
			},
			room: "lobby",
			want: []types.User{
				{Username: "alice", Room: "lobby"},
				{Username: "carol", Room: "lobby"},
			},
		},
		{
			name: "duplicate usernames",
			joins: [][3]string{
				{"c1", "alice", "lobby"},
				{"c2", "alice", "lobby"},
			},
			room: "lobby",
			want: []types.User{
				{Username: "alice", Room: "lobby"},
				{Username: "alice", Room: "lobby"},
			},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDirectory()
			for _, j := range tc.joins {
				d.Add(j[0], j[1], j[2])
			}

			got := d.ListByRoom(tc.room)
			assert.NotNil(t, got, "expected non-nil roster")
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestListByRoom_orderAfterRemove(t *testing.T) {
	d := NewDirectory()
	for i := range 5 {
		d.Add(fmt.Sprintf("c%d", i), fmt.Sprintf("user%d", i), "lobby")
	}

	d.Remove("c2")

	got := d.ListByRoom("lobby")
	names := make([]string, 0, len(got))
	for _, u := range got {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"user0", "user1", "user3", "user4"}, names)
}

func TestJoinLeaveRoundTrip(t *testing.T) {
	d := NewDirectory()
	d.Add("c1", "alice", "lobby")
	before := d.Len()

	d.Add("c2", "bob", "lobby")
	d.Remove("c2")

	assert.Equal(t, before, d.Len(), "expected size to return to its previous value")
}
