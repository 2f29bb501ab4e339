// Package logging configures structured logging on top of log/slog.
//
// New builds a Logger from Config (level, json or text format, optional
// source locations). Its handler copies request scoped fields stored in the
// context (request_id, grid_id) onto every record logged with a *Context
// method, so components can keep using slog.Default() after the Logger is
// installed with SetDefault:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	logger.SetDefault()
//	ctx = logging.WithRequestID(ctx, id)
//	slog.InfoContext(ctx, "export sent") // includes request_id
package logging
