package logger

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the package logger. Outside production it uses the
// human-readable console writer.
func Init(level string, production bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	l := zerolog.New(os.Stdout)
	if !production {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	log = l.Level(lvl).With().Timestamp().Logger()
}

func DebugLog(ctx context.Context, format string, args ...any) {
	log.Debug().Msg(fmt.Sprintf(format, args...))
}

func InfoLog(ctx context.Context, format string, args ...any) {
	log.Info().Msg(fmt.Sprintf(format, args...))
}

func WarnLog(ctx context.Context, format string, args ...any) {
	log.Warn().Msg(fmt.Sprintf(format, args...))
}

func ErrorLog(ctx context.Context, format string, args ...any) {
	log.Error().Msg(fmt.Sprintf(format, args...))
}

func FatalLog(ctx context.Context, format string, args ...any) {
	log.Fatal().Msg(fmt.Sprintf(format, args...))
}

// RequestLogger logs one line per request with method, path, status and
// duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("dur", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
