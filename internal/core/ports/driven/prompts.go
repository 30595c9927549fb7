package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptSelectorSystem is the judge's system prompt.
	// This prompt has no format placeholders.
	PromptSelectorSystem = "selector_system"

	// PromptCover is the cover image prompt.
	// The template expects %s (title) and %s (rationale) placeholders.
	PromptCover = "cover"
)
