// Package attr provides typed slog attribute constructors so call sites stay
// consistent about key naming across modules.
package attr

import (
	"log/slog"

	"github.com/barberscore/scoring-api/app/shared/types"
)

func String(key, value string) slog.Attr { return slog.String(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }

func Float64(key string, value float64) slog.Attr { return slog.Float64(key, value) }

func Any(key string, value any) slog.Attr { return slog.Any(key, value) }

func Error(err error) slog.Attr { return slog.Any("error", err) }

func RoundID(id types.RoundID) slog.Attr { return slog.String("round_id", id.String()) }

func SessionID(id types.SessionID) slog.Attr { return slog.String("session_id", id.String()) }

func AppearanceID(id types.AppearanceID) slog.Attr {
	return slog.String("appearance_id", id.String())
}

func CompetitorID(id types.CompetitorID) slog.Attr {
	return slog.String("competitor_id", id.String())
}
