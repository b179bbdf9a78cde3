// Package chattypes defines the core data structures and contracts shared across chatllm.
//
// The package is organized into the following files:
//
// ## Core Interfaces (core_interfaces.go)
//
//   - Service: units of functionality registered at startup
//   - ServiceRegistry: registration and lookup of services
//
// ## Conversation Types (session_types.go)
//
//   - Role: who authored a message (user, assistant, system)
//   - Content: tagged variant holding plain text or a thinking/final split
//   - Message, Conversation: the transcript kept by the conversation store
//
// ## LLM Types (llm_types.go)
//
//   - ChatMessage: the outbound {role, text} pair sent to a provider
//   - StreamChunk: one incremental fragment of a streamed completion
//   - LLMClient: the provider contract
//
// ## Model Catalog Types (model_types.go)
//
//   - ModelCatalogEntry, ModelCatalogProvider: embedded YAML catalog entries
//
// ## Surface Types (surface_types.go)
//
//   - Surface: the rendering surface a turn writes to
//
// State is never held in package-level variables. A conversation store is an
// owned value passed into every turn, and the service registry is built by the
// caller at startup.
package chattypes
