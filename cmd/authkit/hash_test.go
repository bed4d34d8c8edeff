// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashCmd(t *testing.T) {
	isolateConfig(t)

	out, err := execute(context.Background(), nil, "hash", "--scheme", "argon2id", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "scheme: argon2id")
	assert.Contains(t, out, "hash: $argon2id$")
	assert.NotContains(t, out, "salt:", "argon2id keeps its salt inside the PHC string")

	out, err = execute(context.Background(), nil, "hash", "--scheme", "salted-sha256", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "salt: ")
}

func TestHashCmd_Stdin(t *testing.T) {
	isolateConfig(t)

	cmd := newRootCmd(nil)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader("secret\n"))
	cmd.SetArgs([]string{"hash", "--stdin", "--scheme", "bcrypt"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, buf.String(), "hash: $2a$")
}

func TestHashCmd_RequiresPassword(t *testing.T) {
	isolateConfig(t)

	_, err := execute(context.Background(), nil, "hash")
	require.Error(t, err)
}
