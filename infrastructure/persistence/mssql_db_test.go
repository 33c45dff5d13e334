package persistence

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hootsuite-publisher/infrastructure/configuration"
)

func TestMSSQLDSN(t *testing.T) {
	t.Run("remote server", func(t *testing.T) {
		dsn := mssqlDSN(configuration.Db{Name: "publisher", Host: "db.example.net", Port: "1433", User: "app", Password: "p@ss"})

		u, err := url.Parse(dsn)
		require.NoError(t, err)
		assert.Equal(t, "sqlserver", u.Scheme)
		assert.Equal(t, "db.example.net:1433", u.Host)
		assert.Equal(t, "app", u.User.Username())
		pw, _ := u.User.Password()
		assert.Equal(t, "p@ss", pw)
		assert.Equal(t, "publisher", u.Query().Get("database"))
		assert.Equal(t, "true", u.Query().Get("encrypt"))
		assert.Empty(t, u.Query().Get("TrustServerCertificate"))
	})

	t.Run("local server without password", func(t *testing.T) {
		dsn := mssqlDSN(configuration.Db{Host: "localhost", Port: "1433", User: "sa"})

		u, err := url.Parse(dsn)
		require.NoError(t, err)
		assert.Equal(t, "sa", u.User.Username())
		_, hasPassword := u.User.Password()
		assert.False(t, hasPassword)
		assert.Equal(t, "true", u.Query().Get("TrustServerCertificate"))
		assert.Empty(t, u.Query().Get("database"))
	})
}
