// Package logx is the node's structured logging wrapper over zerolog.
//
// Output goes to any io.Writer; on the node that is the UART line sink,
// adapted with LineWriter so every event is one CRLF-terminated line.
package logx
