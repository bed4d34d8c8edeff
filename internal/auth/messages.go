// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package auth

import (
	"fmt"
	"os"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Message keys resolved through a MessageSource.
const (
	MsgUserName       = "user.name"
	MsgUserPassword   = "user.password"
	MsgUserNotFound   = "user.notfound"
	MsgBadCredentials = "user.badcredentials"
)

// Literal texts used when a key has no translation.
const (
	fallbackUserName       = "username is required"
	fallbackUserPassword   = "password is required"
	fallbackUserNotFound   = "user not found"
	fallbackBadCredentials = "bad credentials"
)

// MessageSource resolves localized messages.
type MessageSource interface {
	// Message returns the text for key, or fallback if the key is unknown.
	Message(key, fallback string) string
}

// Catalog is an in-memory MessageSource keyed by dotted message keys.
type Catalog struct {
	messages map[string]string
}

// NewCatalog creates a Catalog from a flat key/text map.
func NewCatalog(messages map[string]string) *Catalog {
	c := &Catalog{messages: make(map[string]string, len(messages))}
	for k, v := range messages {
		c.messages[k] = v
	}
	return c
}

// LoadCatalog reads a YAML message file.
// Nested mappings are flattened into dotted keys, so both
//
//	user:
//	  name: "Enter a username"
//
// and
//
//	user.name: "Enter a username"
//
// define the key "user.name".
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, oops.Code("MESSAGES_READ_FAILED").With("path", path).Wrap(err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, oops.Code("MESSAGES_PARSE_FAILED").With("path", path).Wrap(err)
	}

	messages := make(map[string]string)
	flatten("", raw, messages)
	return &Catalog{messages: messages}, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			// empty entries fall back to the literal text
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Message implements MessageSource.
func (c *Catalog) Message(key, fallback string) string {
	if c == nil {
		return fallback
	}
	if msg, ok := c.messages[key]; ok && msg != "" {
		return msg
	}
	return fallback
}

// Len returns the number of known keys.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.messages)
}

func message(src MessageSource, key, fallback string) string {
	if src == nil {
		return fallback
	}
	return src.Message(key, fallback)
}
