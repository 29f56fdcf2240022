// Package providers sends review prompts to a remote chat-completion service.
//
// [ChatCompletions] speaks the OpenAI-compatible chat-completions protocol
// used by Moonshot (Kimi), which is the default endpoint. One call is made per
// review and nothing is retried: every failure is classified into one of the
// typed errors in errors.go and returned immediately.
//
// The HTTP client is injectable so that tests can point the provider at an
// httptest server without making live API requests.
package providers
