// Package tasks implements the setup steps forage-dev applies to
// repositories and scratchpads.
//
// Every Task has one method per target variant. Tasks that only make sense
// for repositories (the git tasks) succeed without side effects on a
// scratchpad.
//
// A Sequence composes tasks and is itself a Task:
//
//	seq := tasks.NewSequence(
//	    tasks.CreateDirectory{},
//	    tasks.GitInit{},
//	    tasks.GitRemote{Name: "origin"},
//	    tasks.GitCheckout{Branch: "main"},
//	)
//	err := tasks.Apply(ctx, a, seq, repo)
//
// Tasks run strictly in order. The first error stops the sequence and is
// returned unchanged; nothing already done is rolled back.
//
// Git tasks launch git through app.App.Executor. A non-zero exit status is a
// system error. A git process that dies without an exit code is logged at
// warn level and counted as success. Launch, which starts a configured app
// in the target directory, follows the same rule.
package tasks
