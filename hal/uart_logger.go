package hal

import (
	"io"

	"tinygo.org/x/drivers"
)

var crlf = []byte{'\r', '\n'}

// UARTLogger writes CRLF-terminated lines to a UART.
type UARTLogger struct {
	uart drivers.UART
}

func NewUARTLogger(uart drivers.UART) *UARTLogger {
	return &UARTLogger{uart: uart}
}

func (l *UARTLogger) WriteLineString(s string) {
	_, _ = io.WriteString(l.uart, s)
	_, _ = l.uart.Write(crlf)
}

func (l *UARTLogger) WriteLineBytes(b []byte) {
	_, _ = l.uart.Write(b)
	_, _ = l.uart.Write(crlf)
}
