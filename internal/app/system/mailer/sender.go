package mailer

// Sender is the outbound-mail seam. *Mailer satisfies it; tests swap
// in a recording fake.
type Sender interface {
	Send(msg *Email) error
}

var _ Sender = (*Mailer)(nil)
