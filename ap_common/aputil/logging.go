package aputil

import (
	"flag"
	"log"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	levelFlag = zapcore.InfoLevel
)

func zapTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006/01/02 15:04:05"))
}

// NewLogger returns a 'sugared' zap logger.  Each logged line will include a
// timestamp, the log level, and 2 levels of caller name before the message.
// e.g.:
//	2020/03/12 10:23:27     INFO    ap-roguescan/roguescan.go:121   loaded ...
func NewLogger() *zap.SugaredLogger {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(levelFlag)
	zapConfig.DisableStacktrace = true
	zapConfig.EncoderConfig.EncodeTime = zapTimeEncoder

	logger, err := zapConfig.Build()
	if err != nil {
		log.Panicf("can't zap: %s", err)
	}
	_ = zap.RedirectStdLog(logger)

	return logger.Sugar()
}

func init() {
	flag.Var(&levelFlag, "log-level",
		"Log level [debug,info,warn,error,panic,fatal]")
}
