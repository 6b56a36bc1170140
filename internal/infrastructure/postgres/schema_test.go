package postgres

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createTableRe = regexp.MustCompile(`(?s)CREATE TABLE (\w+) \(\n(.*?)\n\);`)

// parseMigrationColumns extracts table -> column names from the initial
// migration so the queries in this package can be checked against the
// schema they run on.
func parseMigrationColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()
	raw, err := os.ReadFile("../../../db/migrations/0001_init.up.sql")
	require.NoError(t, err)

	tables := map[string]map[string]bool{}
	for _, m := range createTableRe.FindAllStringSubmatch(string(raw), -1) {
		cols := map[string]bool{}
		for _, line := range strings.Split(m[2], "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			first := strings.Fields(line)[0]
			switch first {
			case "UNIQUE", "CHECK", "PRIMARY", "FOREIGN", "CONSTRAINT":
				continue
			}
			cols[first] = true
		}
		tables[m[1]] = cols
	}
	return tables
}

// Every column the repository implementations select, insert or update.
// A column listed here but missing from the migration would make the
// corresponding query fail with an undefined-column error at runtime.
var queriedColumns = map[string][]string{
	"users": {"id", "email", "password_hash", "first_name", "last_name", "phone",
		"is_active", "created_at", "updated_at"},
	"bank_accounts": {"id", "user_id", "external_account_id", "account_name", "account_type",
		"bank_name", "last_four", "is_primary", "is_active", "created_at"},
	"user_settings": {"user_id", "auto_donate_threshold", "round_up_enabled", "max_daily_roundup",
		"notification_email", "notification_push", "created_at", "updated_at"},
	"user_balances": {"user_id", "current_balance", "total_accumulated", "total_donated", "last_updated"},
	"transactions": {"id", "user_id", "account_id", "external_id", "amount", "rounded_amount",
		"roundup_amount", "merchant_name", "category", "transaction_date", "processed_at"},
	"organizations": {"id", "name", "description", "category", "ein", "website", "logo_url",
		"verified", "total_received", "created_at", "updated_at"},
	"donations": {"id", "user_id", "organization_id", "amount", "status", "created_at", "completed_at"},
	"user_organizations": {"id", "user_id", "ein", "name", "description", "website_url", "logo_url",
		"profile_url", "slug", "location", "ntee_code", "ntee_code_meaning", "is_disbursable",
		"tags", "matched_terms", "liked_at", "created_at", "updated_at"},
	"user_charity_preferences": {"id", "user_id", "organization_id", "allocation_percent",
		"is_active", "created_at", "updated_at"},
	"impact_metrics": {"id", "organization_id", "metric_name", "metric_value", "unit",
		"description", "created_at"},
}

func TestMigrationCoversQueriedColumns(t *testing.T) {
	tables := parseMigrationColumns(t)
	require.NotEmpty(t, tables)

	for table, columns := range queriedColumns {
		defined, ok := tables[table]
		require.True(t, ok, "table %s is not created by the migration", table)
		for _, col := range columns {
			assert.True(t, defined[col], "%s.%s is queried but not defined", table, col)
		}
	}
}

func TestMigrationHasNoExtraTables(t *testing.T) {
	tables := parseMigrationColumns(t)
	for table := range tables {
		_, ok := queriedColumns[table]
		assert.True(t, ok, "table %s is created but never queried", table)
	}
}
