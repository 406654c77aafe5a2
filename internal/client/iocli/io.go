package iocli

import "errors"

// ErrNotInteractive stdin не является терминалом, подтверждение запросить нельзя
var ErrNotInteractive = errors.New("stdin is not a terminal")

//go:generate moq -out io_mock.go . IO

// IO ввод и вывод команд зеркала
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	// Confirm задает вопрос да/нет; ErrNotInteractive без терминала
	Confirm(prompt string) (bool, error)
	Write(p []byte) (n int, err error)
}
