// Package markflow provides a workflow manager over an embedded
// Petri net / state machine engine.
//
// The manager keeps per workflow configuration (workflows ordered by
// priority, place metadata, global actions) and drives marking operations
// against the engine:
//
//   - config stores – workflows, place configs and global actions
//   - registry      – resolves which workflows apply to a subject
//   - executor      – applies transitions and global actions with additional data
//   - bootstrapper  – puts never initialised subjects into initial places
//
// Markings are kept either on the subject (single or multiple state) or in a
// SQLite state table. Audit notes are recorded for every completed transition
// and global action.
//
//	srv, _ := markflow.New(ctx, markflow.WithConfig(config))
//	defer srv.Close()
//	_, _ = srv.LoadWorkflows(ctx, "workflows.yaml")
//	mgr := srv.Manager()
//	wf, _ := mgr.WorkflowIfExists(article, "review")
//	_, _ = mgr.EnsureInitialPlace(ctx, "review", article)
//	marking, err := mgr.ApplyWithAdditionalData(ctx, wf, article, "submit", map[string]interface{}{"notes": "ready"})
package markflow
