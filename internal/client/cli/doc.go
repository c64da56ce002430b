// Package cli provides the budgetkeeper command-line client as a set of
// google/subcommands commands.
//
// Key features:
//   - probe: ask whether the public surface answers
//   - register / login / logout
//   - travel: the stealth gate (unlabeled prompt, then the credential form)
//   - me / summary: account view and monthly totals
//   - travel-mode, duress, password, delete-account: settings
//
// Tokens live in the local session database between invocations. The
// "duress" badge printed by me comes from the unverified token claim and
// changes nothing but output.
package cli
