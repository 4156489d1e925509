package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offlinelicense/internal/models"
)

func TestOpenSQLiteMigrates(t *testing.T) {
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "license.db"), false)
	require.NoError(t, err)

	var roles []models.Role
	require.NoError(t, db.Order("name").Find(&roles).Error)
	require.Len(t, roles, 2)
	assert.Equal(t, models.RoleAdministrator, roles[0].Name)

	// Migrating twice must not duplicate roles.
	require.NoError(t, Migrate(db))
	var n int64
	db.Model(&models.Role{}).Count(&n)
	assert.Equal(t, int64(2), n)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open("sqlite", "", false)
	assert.Error(t, err)
	_, err = Open("oracle", "dsn", false)
	assert.Error(t, err)
}
