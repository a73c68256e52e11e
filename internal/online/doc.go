// Package online holds the clients for forage-dev's remote services.
//
// # Registry
//
// The registry is a static tree of JSON documents:
//
//	<registry>/index.json   ["vscode", "github", ...]
//	<registry>/vscode.json  {"name": "VSCode", "configs": [...]}
//
// Each entry carries fragments tagged with a platform ("any", "windows",
// "linux" or "darwin"). Apply folds the fragments for the current platform
// into a config; the others are skipped without comment.
//
// # Ignore files
//
// Gitignore fetches rules from a gitignore.io style API and maintains the
// generated block of an ignore file, which is delimited by the
// "# Created by .../api/<languages>" and "# End of ..." lines the service
// emits.
//
// Both clients send "Authorization: Bearer <token>" when the keychain has a
// credential for the endpoint's host.
package online
