// Package directory is the HTTP client for the directory/ledger server:
// signup/login, the user directory, key-exchange requests and message
// storage. All bodies are JSON; authenticated routes carry a bearer
// token.
package directory
