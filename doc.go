// Package dinit implements a minimal dinit-style service supervisor: it reads
// a directory of service definitions, resolves inter-service dependencies, and
// brings up a named target by starting services in dependency order.
//
// The three moving parts are the Loader, the Resolver, and the Engine:
//
//	registry, err := dinit.LoadAll("/etc/dinit.d")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine := dinit.NewEngine(registry)
//	result, err := engine.Start(context.Background(), "boot")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Success {
//	    fmt.Printf("boot incomplete: failed=%v skipped=%v\n",
//	        result.Failed(), result.Skipped())
//	}
//
// Definitions use dinit's line-oriented format, one file per service:
//
//	type = process
//	command = redis-server --port 6379
//	logfile = /var/log/redis.log
//	depends-on = postgres
//
// Structural problems (malformed definitions, references to missing services,
// dependency cycles, unknown targets) fail before any process is launched.
// Per-service launch failures are isolated: the failed service is recorded as
// Failed, everything depending on it becomes Skipped, and unrelated services
// keep starting. The aggregate outcome is reported as a BootResult covering
// every service in the target's closure.
//
// # Design Philosophy
//
// This library prioritizes:
//
//   - Fail-fast validation: nothing runs against an invalid graph
//   - Deterministic start order for reproducible failure diagnostics
//   - Bounded concurrency within each dependency layer
//   - Argv-style commands (no shell interpretation at launch time)
//   - Context-aware waiting with explicit readiness timeouts
//
// It is deliberately not a full init system: there is no restart policy, no
// socket activation, no post-boot health monitoring, and no rollback of
// services that started before a sibling failed. Those simplifications suit
// disposable sandbox environments where a partial boot is still useful.
package dinit
