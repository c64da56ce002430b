package accounts

import "strings"

const accountColumns = `id, username, password_hash, duress_username, duress_password_hash,
	travel_enabled, travel_hide_stats, travel_until, version, created_at, updated_at`

// queries holds the statements of one SQL dialect.
type queries struct {
	insert           string
	selectByID       string
	selectByStandard string
	selectByDuress   string
	selectTraveling  string
	usernameTaken    string
	reserveUsername  string
	releaseUsername  string
	updateTravelMode string
	updatePassword   string
	updateDuress     string
	deleteUsernames  string
	deleteAccount    string
}

var postgresQueries = queries{
	insert: `INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT DO NOTHING`,
	selectByID:       `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`,
	selectByStandard: `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`,
	selectByDuress:   `SELECT ` + accountColumns + ` FROM accounts WHERE duress_username = $1`,
	selectTraveling: `SELECT ` + accountColumns + ` FROM accounts
		WHERE travel_enabled AND (travel_until IS NULL OR travel_until > $1)
		ORDER BY created_at LIMIT 1`,
	usernameTaken: `SELECT EXISTS (SELECT 1 FROM account_usernames WHERE username = $1)`,
	reserveUsername: `INSERT INTO account_usernames (username, account_id, kind)
		VALUES ($1, $2, $3) ON CONFLICT (username) DO NOTHING`,
	releaseUsername: `DELETE FROM account_usernames WHERE username = $1 AND account_id = $2`,
	updateTravelMode: `UPDATE accounts
		SET travel_enabled = $1, travel_hide_stats = $2, travel_until = $3, version = version + 1, updated_at = $4
		WHERE id = $5 AND version = $6`,
	updatePassword: `UPDATE accounts
		SET password_hash = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4`,
	updateDuress: `UPDATE accounts
		SET duress_username = $1, duress_password_hash = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5`,
	deleteUsernames: `DELETE FROM account_usernames WHERE account_id = $1`,
	deleteAccount:   `DELETE FROM accounts WHERE id = $1`,
}

// sqliteQueries are the postgres statements with ? placeholders and an
// integer boolean. Every postgres statement numbers its placeholders in
// order of appearance, so the argument lists are shared.
var sqliteQueries = func() queries {
	q := postgresQueries
	for _, s := range []*string{
		&q.insert, &q.selectByID, &q.selectByStandard, &q.selectByDuress, &q.selectTraveling,
		&q.usernameTaken, &q.reserveUsername, &q.releaseUsername,
		&q.updateTravelMode, &q.updatePassword, &q.updateDuress,
		&q.deleteUsernames, &q.deleteAccount,
	} {
		*s = toPositional(*s)
	}
	q.selectTraveling = strings.Replace(q.selectTraveling, "WHERE travel_enabled AND", "WHERE travel_enabled = 1 AND", 1)
	return q
}()

// toPositional rewrites $n placeholders as ?.
func toPositional(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' && i+1 < len(query) && isDigit(query[i+1]) {
			b.WriteByte('?')
			for i+1 < len(query) && isDigit(query[i+1]) {
				i++
			}
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
