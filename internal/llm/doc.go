// Package llm provides text generation clients for budget recommendations.
// It supports Ollama, OpenAI and Anthropic over plain HTTP, with an optional
// response cache. Calls are made once; callers decide how to degrade when a
// provider fails.
package llm
