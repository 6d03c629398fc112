// Forkrank - Pairwise Restaurant Rankings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forkrank

/*
Package supervisor provides process supervision for the ranking server using
suture v4.

The tree groups long-running services into layers that restart
independently:

	RootSupervisor ("forkrank")
	├── DataSupervisor ("data-layer")
	│   ├── ReconcileService      periodic global replay
	│   └── SnapshotGCService     BadgerDB value log GC (if snapshots enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocketHubService
	│   └── EventPipelineService  (if events enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (service start, failure, backoff) are logged through
sutureslog onto the zerolog-backed slog logger from internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

Service wrappers live in the services subpackage.
*/
package supervisor
