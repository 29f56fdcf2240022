// Breakcheck reviews the unstaged changes of a git working tree for breaking
// changes using an OpenAI-compatible chat-completions model (Moonshot Kimi by
// default).
//
// Usage:
//
//	breakcheck review .                    # review the current working tree
//	breakcheck review ../svc --format json # machine-readable result
//	breakcheck config set model moonshot-v1-32k
//	breakcheck config show
//
// The API key is read from MOONSHOT_API_KEY, or from a .env file in the
// current directory.
package main
