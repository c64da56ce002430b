// Package client talks to the budgetkeeper HTTP API on behalf of the CLI.
//
// # Overview
//
// The package provides:
//  1. The Client interface: probe, registration, stealth gate, login,
//     token refresh, logout, account view, monthly summary and settings.
//  2. HTTPClient, which attaches the bearer token, refreshes an expired
//     access token once per call and persists rotated tokens through a
//     TokenStore.
//  3. InitDatabase and RunMigrations for the local session database.
//
// # Error Handling
//
// Replies are mapped to sentinel errors matched with errors.Is. A masked
// server and a missing resource both surface as ErrNotFound; the CLI cannot
// and does not try to tell them apart.
package client
