package logger

import (
	"Influence/internal/api/config"
	"io"
	log "log/slog"
	"net"
	"os"
	"time"
)

// LogWriter gin 访问日志的输出，连上 Logstash 时为远程连接
var LogWriter io.Writer = os.Stdout

// InitLogger 初始化默认 slog，Logstash 不可用时只输出到标准输出
func InitLogger(cfg config.LogstashConfig) io.Closer {
	hStdout := log.NewJSONHandler(os.Stdout, &log.HandlerOptions{Level: log.LevelInfo})

	var finalHandler log.Handler = hStdout
	var closer io.Closer = nopCloser{}

	if cfg.Address != "" {
		conn, err := net.DialTimeout("tcp", cfg.Address, 3*time.Second)
		if err == nil {
			hRemote := log.NewJSONHandler(conn, &log.HandlerOptions{Level: log.LevelInfo}).
				WithAttrs(remoteAttrs(cfg))

			finalHandler = &TeeHandler{
				handlers: []log.Handler{hStdout, &RemoteFilterHandler{next: hRemote}},
			}
			LogWriter = conn
			closer = conn
		} else {
			log.Warn("Failed to connect to Logstash, logging to stdout only", "err", err)
		}
	}

	log.SetDefault(log.New(&ContextHandler{finalHandler}))
	return closer
}

func remoteAttrs(cfg config.LogstashConfig) []log.Attr {
	attrs := []log.Attr{log.String("target_index", cfg.Index)}
	if cfg.Token != "" {
		attrs = append(attrs, log.String("log_token", cfg.Token))
	}
	return attrs
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
