// Package workspace defines the targets that setup tasks operate on.
//
// A Target is one of two variants:
//
//   - Repository: a clone at <dev>/<domain>/<owner>/<name>, named by its
//     canonical path such as "github.com/alice/dotfiles"
//   - Scratchpad: a labelled directory under the scratch root, such as
//     "2020w07"
//
// Both are immutable values. Target has an unexported method so no other
// package can add a variant, and consumers switch over the concrete types:
//
//	switch t := target.(type) {
//	case workspace.Repository:
//	    ...
//	case workspace.Scratchpad:
//	    ...
//	}
package workspace
