package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAutoMigrateFlag(t *testing.T) {
	assert.True(t, hasAutoMigrateFlag([]string{"--auto-migrate"}))
	assert.True(t, hasAutoMigrateFlag([]string{"-v", "-M"}))
	assert.False(t, hasAutoMigrateFlag(nil))
	assert.False(t, hasAutoMigrateFlag([]string{"--migrate"}))
}
