package app

import (
	"plcnode/internal/logx"
	"plcnode/kernel"
)

// installFatalHandler routes fatal startup faults to the log and then to
// halt. halt must not return on the device.
func installFatalHandler(log logx.Logger, halt func(kernel.Fault)) {
	if halt == nil {
		halt = haltForever
	}
	kernel.SetFatalHandler(func(f kernel.Fault) {
		fields := []logx.Field{
			logx.String("kind", f.Kind.String()),
			logx.Int("msg", int(f.Msg)),
			logx.Int("to", int(f.To)),
		}
		if f.Task != "" {
			fields = append(fields, logx.String("task", f.Task))
		}
		if f.Err != nil {
			fields = append(fields, logx.Err(f.Err))
		}
		log.Error("fatal fault", fields...)
		halt(f)
	})
}

func haltForever(kernel.Fault) {
	select {}
}
