// Package protocol defines the wire types exchanged with the chat server over
// both the HTTP endpoints and the socket channel.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a user or a chat. The server sends ids as strings in some
// replies and as numbers in others; both decode to the decimal string.
type ID string

// UnmarshalJSON accepts a JSON string or a JSON integer.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("id %s is neither a string nor an integer", b)
	}
	*id = ID(strconv.FormatInt(n, 10))
	return nil
}

func (id ID) String() string { return string(id) }

// User is an entry in the platform user list.
type User struct {
	UserID   ID     `json:"user_id"`
	Username string `json:"username"`
}

// Chat is an entry in the current user's chat list.
type Chat struct {
	ChatID      ID     `json:"chat_id"`
	ChatName    string `json:"chat_name"`
	UnreadCount int    `json:"unread_messages_count,omitempty"`
}

// Message is one line of a chat transcript.
type Message struct {
	Text           string `json:"text"`
	DateCreated    string `json:"date_created"`
	SenderUsername string `json:"sender_username"`
}
