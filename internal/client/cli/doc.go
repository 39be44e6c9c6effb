// Package cli provides the contactbook command-line client.
//
// With a command on the command line the client runs it once and exits:
//
//	contactbook-cli -a 127.0.0.1:50051 login ann@example.com
//	contactbook-cli -t <access token> contacts list 0 20
//
// Without one it starts an interactive REPL that keeps the token pair from
// login in memory and rotates it when the access token expires.
//
// Every command prints its result as indented JSON.
package cli
