// Package redact scrubs secrets from diff text before it leaves the machine.
//
// Redaction is opt-in. A [Policy] with Secrets enabled replaces common secret
// shapes (API keys, bearer tokens, JWTs, private key headers, cloud and chat
// provider tokens) with [REDACTED]. Files whose path matches one of the
// policy's glob patterns have their whole diff replaced instead of scanned.
package redact
