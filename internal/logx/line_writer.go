package logx

import "bytes"

// LineSink receives one log line at a time, without its terminator.
type LineSink interface {
	WriteLineBytes(b []byte)
}

// LineWriter adapts a LineSink to io.Writer. Each write is split on '\n'
// and every complete line goes to the sink.
type LineWriter struct {
	Sink LineSink
}

func (w LineWriter) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			w.Sink.WriteLineBytes(p)
			break
		}
		w.Sink.WriteLineBytes(p[:i])
		p = p[i+1:]
	}
	return n, nil
}
