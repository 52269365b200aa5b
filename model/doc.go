// Package model defines the minimal LLM client contract consumed by the
// orchestrator: a single synchronous prompt-in, narrative-out call. Provider
// adapters live in subpackages (anthropic, openai); MockClient supports tests
// and offline runs. An empty completion is a valid outcome meaning "no
// insight produced", not an error.
package model
