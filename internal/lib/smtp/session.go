package smtp

import "io"

// Session — одно открытое соединение с почтовым сервером после STARTTLS и AUTH.
// Письмо отправляется последовательностью Mail, Rcpt, Data; Quit закрывает сессию.
type Session interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
