// Package internal holds the process plumbing shared by the edge package and
// the edge command.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/edge" instead.
//
// # Contents
//
//   - Config: environment configuration parsed with caarlos0/env
//   - LoadHosts / ParseHosts: the YAML file listing extra virtual hosts
//   - Serve / RunHooks: one HTTP server with graceful shutdown, and the
//     shutdown hooks that run after it
//   - BindAddress / DisplayURL: the localhost bind alias and its display form
//   - ResponseWriter: records status, size and whether a response started
package internal
