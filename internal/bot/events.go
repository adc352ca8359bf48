package bot

import "context"

// Identity tags every inbound event. Username may be empty when the Telegram
// account has no public handle; the router refuses such events.
type Identity struct {
	ChatID     int64
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

// Upload references a file on the transport side; the router fetches its bytes
// through a FileSource after the size check passes.
type Upload struct {
	FileID string
	Size   int64
}

// Callback is an inline-keyboard selection event.
type Callback struct {
	ID        string
	MessageID int
	Data      string
}

// Button is one inline-keyboard choice; Data is returned in a Callback.
type Button struct {
	Text string
	Data string
}

// Sink is the outbound message side of the transport.
type Sink interface {
	SendMessage(chatID int64, text string) error
	SendKeyboard(chatID int64, text string, rows [][]Button) error
	EditMessage(chatID int64, messageID int, text string) error
	AnswerCallback(callbackID, text string) error
}

// FileSource resolves an upload's file reference to its bytes.
type FileSource interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// PageGenerator is the artifact-producing collaborator of the router.
type PageGenerator interface {
	Generate(username, templateID, occasionID string) error
	GenerateDefault(username string) error
	PageURL(username string) string
}
