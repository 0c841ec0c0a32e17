// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the user's configuration directory.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable advice prompts with embedded defaults
package file
