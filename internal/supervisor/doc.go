// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

/*
Package supervisor runs the long-lived parts of the rent service under a
suture v4 supervisor tree.

	RootSupervisor ("rentpredict")
	├── DataSupervisor ("data-layer")
	│   └── FeedbackGCService (if FEEDBACK_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crash in the data layer is restarted with backoff and never takes the
prediction endpoint down with it. Artifacts are loaded before the tree
starts; nothing in the tree reloads them.

Supervisor events are logged through sutureslog into the zerolog-backed
slog handler from internal/logging.
*/
package supervisor
