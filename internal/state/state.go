// Package state holds the client-side view-models: which users and chats are
// tracked, what is selected, and the open transcript. Nothing here renders
// or talks to the network.
package state

import "github.com/rivo/uniseg"

// PerPage is the server's page size for both users and chats.
const PerPage = 10

// SearchThreshold is the query length (in characters) a search must exceed
// before it replaces the plain list.
const SearchThreshold = 2

// IsSearch reports whether query is long enough to run as a search.
func IsSearch(query string) bool {
	return uniseg.GraphemeClusterCount(query) > SearchThreshold
}

// ClearForUserSearch reports whether a page of user search results replaces
// the list instead of extending it.
func ClearForUserSearch(found, tracked, page int) bool {
	return found > tracked || page < 2
}

// ClearForUserLoad reports whether a plain user page replaces the list: the
// caller asked for it, or the page holds more users than are shown.
func ClearForUserLoad(requested bool, added, tracked int) bool {
	return requested || added > tracked
}

// ClearForChats reports whether a chat page (search or plain) replaces the
// list. Only the first page does.
func ClearForChats(page int) bool {
	return page < 2
}
