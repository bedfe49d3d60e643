package sms

import "context"

// Service sends text messages from the fixed sender number.
type Service interface {
	Send(ctx context.Context, to, body string) error
}
