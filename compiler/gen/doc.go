// Package gen implements the oneshot generation engine: grouping,
// validation, configuration resolution, synthesis and artifact writing
// for fields discovered by compiler/scan.
//
// # Architecture
//
// One generation round follows this flow:
//
//	Marked fields (compiler/scan)
//	        ↓
//	   BuildGroups (bucket by owning record identity)
//	        ↓
//	   per group: Validate → ResolveConfigs → claim generated names
//	        ↓
//	   per group: Synthesize → Writer
//	        ↓
//	   Generated code (<owner>_consume.go, <owner>_dispatch.go)
//
// Validation and configuration resolution run sequentially in deterministic
// group order: every group claims its generated top-level names and
// artifact files, and a group colliding with an earlier claim is rejected,
// since all groups emit into one generated package. Synthesis and writing
// then run in parallel and in isolation: a failed group is reported through
// the diagnostics Sink and produces no artifacts, while its siblings
// generate normally. Fields the scanner could not resolve are
// deferred to the next round; generated artifacts often resolve them, so
// the Generator loops until nothing is deferred, a round makes no
// progress, or the round budget runs out.
//
// # Key Types
//
//   - Group: marked fields sharing one owner record, plus validity
//   - FieldConfig: resolved consume-operation name and ordering policy
//   - Artifact: one rendered file with its dependency edges
//   - Writer: formats, writes, and maintains the dependency manifest
//   - Collector: the default diagnostics Sink
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ScanError: snapshot failures (the only round-fatal class)
//   - OwnerError: ineligible owners and field contradictions
//   - ConfigError: generator configuration errors
//   - GenerationError: synthesis and write failures
//
// All carry sentinel identities usable with errors.Is, and IsXError
// helpers for quick classification.
package gen
