// Package common contains shared constants and sentinel errors used across
// budgetkeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on internal calls.
const AccessTokenHeaderName = "access_token"

// GateTicketHeaderName carries the stealth gate ticket on the phase-two
// login request.
const GateTicketHeaderName = "X-Gate-Ticket"
