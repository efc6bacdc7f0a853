// Package commands defines the sealedchat CLI and wires dependencies
// for subcommands.
//
// Commands
//
//   - init         Generate local identity keys
//   - fingerprint  Print the identity fingerprint
//   - signup       Register and publish public keys
//   - login        Obtain and cache a bearer token
//   - users        List directory users
//   - request      Send a key-exchange request
//   - incoming     List pending key-exchange requests
//   - accept       Accept a request and establish the session
//   - reject       Reject a request
//   - send         Encrypt and send a message
//   - send-file    Send a file
//   - history      Fetch and decrypt a conversation
//
// # Implementation
//
// The root command builds a dependency graph (stores, services,
// directory client) before any subcommand runs, so handlers share one
// app context.
package commands
