package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseConfig_DSN(t *testing.T) {
	pg := &DatabaseConfig{Driver: "postgres", Host: "db", Port: "5432", Name: "pos", User: "u", Password: "p", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=pos port=5432 sslmode=disable TimeZone=UTC", pg.DSN())

	my := &DatabaseConfig{Driver: "mysql", Host: "db", Port: "3306", Name: "pos", User: "u", Password: "p"}
	assert.Equal(t, "u:p@tcp(db:3306)/pos?charset=utf8mb4&parseTime=True&loc=Local", my.DSN())

	lite := &DatabaseConfig{Driver: "sqlite", Path: ":memory:"}
	assert.Equal(t, ":memory:", lite.DSN())
}

func TestAttendanceConfig_Location(t *testing.T) {
	assert.Equal(t, time.Local, (&AttendanceConfig{Timezone: "Local"}).Location())
	assert.Equal(t, time.Local, (&AttendanceConfig{Timezone: "Not/AZone"}).Location())
	assert.Equal(t, "UTC", (&AttendanceConfig{Timezone: "UTC"}).Location().String())
}

func TestEmailConfig_SMTPConfigured(t *testing.T) {
	assert.False(t, (&EmailConfig{SMTPHost: "smtp.example.com"}).SMTPConfigured())
	assert.True(t, (&EmailConfig{SMTPHost: "smtp.example.com", FromEmail: "pos@example.com", ReportTo: []string{"owner@example.com"}}).SMTPConfigured())
}

func TestLoad_EnvFile(t *testing.T) {
	missing := load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, missing.EnvFileErr)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STORE_DEFAULT_BRANCH=makati\nWORK_START_HOUR=7\n"), 0o600))
	cfg := load(path)
	assert.NoError(t, cfg.EnvFileErr)
	assert.Equal(t, "makati", cfg.Store.DefaultBranch)
	assert.Equal(t, 7, cfg.Attendance.WorkStartHour)
}
