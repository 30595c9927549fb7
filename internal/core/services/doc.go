// Package services implements the driving port interfaces.
// Services contain the core business logic of the librarian and
// orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no CGO or external dependencies.
package services
