package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gormLogger "gorm.io/gorm/logger"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(Config{Host: "db", Port: "3306", User: "ledger", Password: "secret", Name: "money"})

	assert.Equal(t, "ledger:secret@tcp(db:3306)/money?charset=utf8mb4&parseTime=True&loc=UTC", dsn)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, gormLogger.Silent, parseLogLevel("silent"))
	assert.Equal(t, gormLogger.Error, parseLogLevel("ERROR"))
	assert.Equal(t, gormLogger.Info, parseLogLevel("info"))
	assert.Equal(t, gormLogger.Warn, parseLogLevel(""))
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, 10, orDefault(0, 10))
	assert.Equal(t, 3, orDefault(3, 10))
}
