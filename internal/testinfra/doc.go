// Package testinfra starts throwaway Postgres and Redis containers for the
// integration tests. Everything except this file is behind the integration
// build tag:
//
//	go test -tags integration ./internal/...
//
// Tests skip themselves when Docker is not reachable.
package testinfra
