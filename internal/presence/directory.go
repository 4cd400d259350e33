// Package presence tracks which connection belongs to which user and room.
package presence

import (
	"slices"

	"github.com/npezzotti/roomchat/internal/types"
)

type User struct {
	ConnId   string
	Username string
	Room     string
}

// Directory maps connection ids to joined users. It is not safe for
// concurrent use; the engine goroutine owns it.
type Directory struct {
	users map[string]User
	// order holds connection ids in insertion order
	order []string
}

func NewDirectory() *Directory {
	return &Directory{
		users: make(map[string]User),
	}
}

// Add stores a user for connId, replacing any previous entry.
func (d *Directory) Add(connId, username, room string) User {
	u := User{
		ConnId:   connId,
		Username: username,
		Room:     room,
	}

	if _, ok := d.users[connId]; ok {
		d.removeOrder(connId)
	}

	d.users[connId] = u
	d.order = append(d.order, connId)

	return u
}

// Remove deletes and returns the entry for connId. The second result is
// false if no entry existed.
func (d *Directory) Remove(connId string) (User, bool) {
	u, ok := d.users[connId]
	if !ok {
		return User{}, false
	}

	delete(d.users, connId)
	d.removeOrder(connId)

	return u, true
}

func (d *Directory) Get(connId string) (User, bool) {
	u, ok := d.users[connId]
	return u, ok
}

// ListByRoom returns the users whose room equals room, in join order.
func (d *Directory) ListByRoom(room string) []types.User {
	users := make([]types.User, 0)
	for _, id := range d.order {
		u := d.users[id]
		if u.Room == room {
			users = append(users, types.User{
				Username: u.Username,
				Room:     u.Room,
			})
		}
	}

	return users
}

func (d *Directory) Len() int {
	return len(d.users)
}

func (d *Directory) removeOrder(connId string) {
	if i := slices.Index(d.order, connId); i >= 0 {
		d.order = slices.Delete(d.order, i, i+1)
	}
}
