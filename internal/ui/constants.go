// Package ui provides constants for layout calculations and configuration.
package ui

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// ListWidthRatio is the denominator for the list column width (1/3 of total width)
	ListWidthRatio = 3

	// TextareaHeight is the number of lines for the message input textarea
	TextareaHeight = 3

	// TextareaBorderHeight is the border size around the textarea
	TextareaBorderHeight = 2

	// InputPaddingWidth is the horizontal padding inside the input area (Padding(0, 1) = 1 left + 1 right)
	InputPaddingWidth = 2

	// InputTotalHeight is the total height of the input area (textarea + borders)
	InputTotalHeight = TextareaHeight + TextareaBorderHeight

	// TitleHeight is the height of panel titles
	TitleHeight = 1

	// SearchHeight is the line taken by a list's search field
	SearchHeight = 1

	// DefaultWrapWidth is the default width for text wrapping when viewport width is unknown
	DefaultWrapWidth = 80

	// MinTerminalWidth and MinTerminalHeight keep layout math positive
	MinTerminalWidth  = 60
	MinTerminalHeight = 16
)

// Input limits
const (
	// SearchCharLimit matches the server's cap on user and chat names
	SearchCharLimit = 64

	// MessageCharLimit is the longest message the input accepts
	MessageCharLimit = 4000
)

// Modal dimensions
const (
	// ModalWidth is the default width of modals
	ModalWidth = 60
)
