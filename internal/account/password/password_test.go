package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("hunter22")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	assert.True(t, Verify("hunter22", encoded))
	assert.False(t, Verify("hunter2", encoded))
	assert.False(t, Verify("", encoded))
}

func TestHashesAreSalted(t *testing.T) {
	first, err := Hash("same-password")
	assert.NoError(t, err)
	second, err := Hash("same-password")
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyRejectsMalformedEncodings(t *testing.T) {
	assert.False(t, Verify("pw", ""))
	assert.False(t, Verify("pw", "plaintext"))
	assert.False(t, Verify("pw", "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"))
	assert.False(t, Verify("pw", "$argon2id$v=19$m=bad,t=1,p=4$c2FsdA$aGFzaA"))
}
