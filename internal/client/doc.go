// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the cookiesync application runtime.
//
// It wires configuration, storage, the remote adapter, the cookie jar and
// the services into one [App] used by the command-line interface, and runs
// the background workers in daemon mode.
package client
