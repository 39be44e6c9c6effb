// Package config loads runtime configuration for the contactbook CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c / -config or CONTACTBOOK_CONFIG.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-t string   access token
//	-r string   refresh token
//	-w int      per-request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "...",
//	  "refresh_token": "...",
//	  "request_timeout": "10s"
//	}
//
// Empty JSON values leave the current setting unchanged.
package config
