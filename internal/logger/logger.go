package logger

import (
	"io"
	"os"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sangkips/cafepos-api/internal/config"
)

const timestampFormat = "2006-01-02 15:04:05.000"

var (
	std  = logrus.New()
	once sync.Once
)

// Init configures the process-wide logger. Only the first call has effect.
func Init(cfg config.LogConfig) {
	once.Do(func() {
		configure(std, cfg)
	})
}

func configure(l *logrus.Logger, cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: timestampFormat,
		})
	}

	writers := []io.Writer{os.Stdout}
	if cfg.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}
	l.SetOutput(io.MultiWriter(writers...))
}

// L returns the process-wide logger.
func L() *logrus.Logger {
	return std
}

// WithRequest returns an entry tagged with the request ID and, when authenticated, the user.
func WithRequest(c *gin.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if id, ok := c.Get("request_id"); ok {
		fields["request_id"] = id
	}
	if uid, ok := c.Get("user_id"); ok {
		fields["user_id"] = uid
	}
	return std.WithFields(fields)
}
