package types

// User is the roster view of a joined connection.
type User struct {
	Username string `json:"username"`
	Room     string `json:"room"`
}

type RoomUsers struct {
	Room  string `json:"room"`
	Users []User `json:"users"`
}
