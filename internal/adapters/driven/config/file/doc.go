// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML configuration under the librarian config directory
//   - PromptStore: user-editable judge and cover prompts with embedded defaults
package file
