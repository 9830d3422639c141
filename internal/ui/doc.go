// Package ui renders the simplechat terminal client.
//
// # Layout
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├─────────────────┬───────────────────────────────────┤
//	│   Users         │                                   │
//	│   (1/3 width)   │         Messages                  │
//	├─────────────────┤         (2/3 width)               │
//	│   Chats         │                                   │
//	│                 ├───────────────────────────────────┤
//	│                 │ Input                             │
//	├─────────────────┴───────────────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// UserPanel, ChatPanel and MessagePanel draw the view-models from package
// state. They own only presentation state: the highlighted row, the scroll
// offset, the search field and the message input. Which users are tracked,
// which are selected and which chat is open lives in state and is mutated by
// the controllers in package app.
//
// Every list row has an element id (user-<id>, chat-<id>). ElementIDs on a
// panel returns the ids it renders, which always equals the tracked set of
// the underlying list.
//
// Modal shows blocking dialogs. AlertState is the one used for failures; it
// swallows input until dismissed.
//
// # Styles
//
// Styles are package variables regenerated by SetTheme. Themes also pick the
// chroma style used for fenced code blocks in messages.
package ui
