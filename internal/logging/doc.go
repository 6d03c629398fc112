// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

// Package logging provides centralized zerolog-based logging for Forkrank.
//
// One global zerolog logger backs every log line in the process. Two
// adapters route third-party loggers into it:
//
//   - SlogHandler / NewSlogLogger: for libraries that take *slog.Logger
//     (the suture supervisor tree via sutureslog)
//   - WatermillAdapter: for the watermill router and pub/sub
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Snapshot invalidation failed")
//
// # Context Fields
//
// Ctx(ctx) adds correlation_id, request_id and user_id when the context
// carries them. The HTTP layer stores the request id, and the comparison
// event carries the correlation id into the reconciler.
//
// # Configuration
//
// Level, format and caller come from the logging section of the config file
// or the LOG_LEVEL, LOG_FORMAT and LOG_CALLER environment variables.
//
// Always terminate log chains with .Msg() or .Send():
//
//	logging.Info().Str("key", "value").Msg("message")  // Correct
//	logging.Info().Str("key", "value")                 // WRONG - log not emitted
package logging
