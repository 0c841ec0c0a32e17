package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptAdviceSystem is the system prompt for advice generation.
	// This prompt has no format placeholders.
	PromptAdviceSystem = "advice_system"

	// PromptAdviceUser is the user prompt for advice generation.
	// The template expects %[1]s (case context) and %[2]s (question).
	PromptAdviceUser = "advice_user"
)
