package alloc

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/RDFacendola/Syntropy-sub008/internal/logger"
)

// SetLogger routes allocator lifecycle logs (chunk and page traffic) to l.
// A nil logger discards them, which is the default.
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}

func debugEnabled() bool {
	return logger.L.Enabled(context.Background(), slog.LevelDebug)
}

func sizeAttr(key string, n int) slog.Attr {
	return slog.String(key, humanize.IBytes(uint64(n)))
}
