package messages

import "time"

const (
	// BotName is the default sender of system generated messages.
	BotName = "Local Time"

	timeLayout = "3:04 PM"
)

type Clock func() time.Time

type Envelope struct {
	Username string `json:"username"`
	Text     string `json:"text"`
	Time     string `json:"time"`
}

type Formatter struct {
	clock Clock
}

// NewFormatter returns a Formatter stamping envelopes with clock. A nil clock
// falls back to time.Now.
func NewFormatter(clock Clock) *Formatter {
	if clock == nil {
		clock = time.Now
	}

	return &Formatter{clock: clock}
}

func (f *Formatter) Format(sender, text string) Envelope {
	return Envelope{
		Username: sender,
		Text:     text,
		Time:     f.clock().Format(timeLayout),
	}
}
