//go:build !mobile

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMobile_Desktop(t *testing.T) {
	t.Setenv("TALKROOM_MOBILE_EMULATE", "")
	assert.False(t, IsMobile())

	t.Setenv("TALKROOM_MOBILE_EMULATE", "1")
	assert.True(t, IsMobile())
}
