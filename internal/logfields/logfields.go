package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeySource     = "source"
	KeyRole       = "role"
	KeyPattern    = "pattern"
	KeyBoard      = "board"
	KeyCount      = "count"
	KeyRunner     = "runner"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr       { return slog.String(KeySource, p) }
func Role(r string) slog.Attr         { return slog.String(KeyRole, r) }
func Pattern(p string) slog.Attr      { return slog.String(KeyPattern, p) }
func Boards(ids []string) slog.Attr   { return slog.Any(KeyBoard, ids) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Runner(bin string) slog.Attr     { return slog.String(KeyRunner, bin) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
