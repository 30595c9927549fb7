// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - EmbeddingService: Generates vector embeddings for summaries and queries
//   - CollectionStore: Persistent, model-namespaced book collections
//   - ConfigStore: Application configuration
//   - PromptStore: User-editable judge and cover prompts
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: The judge model. Without it, the best-score hit is picked.
//   - Moderator: Remote safety classifier. Without it, the local word list is used.
//   - SpeechSynthesizer, Transcriber, ImageGenerator: Optional artifacts.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
