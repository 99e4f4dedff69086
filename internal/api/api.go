package api

// Notifier delivers messages to the user.
type Notifier interface {
	Send(message *Message) error
}

// Void is a notifier which drops all messages.
type Void struct {
}

// NewVoid creates a new noop notifier.
func NewVoid() Void {
	return Void{}
}

func (v Void) Send(message *Message) error {
	return nil
}
