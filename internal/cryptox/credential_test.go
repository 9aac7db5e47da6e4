package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveCredential_FreshSaltPerCall(t *testing.T) {
	c1, err := DeriveCredential("p1")
	require.NoError(t, err)
	c2, err := DeriveCredential("p1")
	require.NoError(t, err)

	assert.Len(t, c1.Salt, SaltSize)
	assert.Len(t, c1.Key, KeySize)
	assert.Equal(t, PasswordIterations, c1.Iterations)
	assert.NotEqual(t, c1.Salt, c2.Salt)
	assert.NotEqual(t, c1.Key, c2.Key)
}

func TestVerify(t *testing.T) {
	c, err := DeriveCredential("correct horse")
	require.NoError(t, err)

	assert.True(t, Verify("correct horse", c))
	assert.False(t, Verify("battery staple", c))
	assert.False(t, Verify("", c))
}

func TestVerify_FailsClosed(t *testing.T) {
	good, err := DeriveCredential("p1")
	require.NoError(t, err)

	tests := []struct {
		name string
		cred *Credential
	}{
		{"nil credential", nil},
		{"missing salt", &Credential{Iterations: good.Iterations, Key: good.Key}},
		{"missing key", &Credential{Salt: good.Salt, Iterations: good.Iterations}},
		{"zero iterations", &Credential{Salt: good.Salt, Key: good.Key}},
		{"negative iterations", &Credential{Salt: good.Salt, Iterations: -1, Key: good.Key}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, Verify("p1", tt.cred))
		})
	}
}
