// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package auth

import "slices"

// Authority is a capability marker granted to a principal.
type Authority string

// Principal is the authenticated identity handed to the session layer.
//
// A Principal is built fresh for every successful attempt and is not shared
// afterwards. Authorities always mirror Roles one to one, by name.
type Principal struct {
	Username              string
	PasswordHash          string
	Enabled               bool
	AccountNonExpired     bool
	CredentialsNonExpired bool
	AccountNonLocked      bool
	Authorities           []Authority

	UserID          string
	Nickname        string
	OrganizationID  string
	Salt            string
	ThirdPartyBound bool
	ThirdPartyID    string
	Roles           []Role
}

// BuildPrincipal assembles a Principal from a user record and its roles.
// Account-state flags are always true; no account lifecycle is modeled.
// It panics if user is nil.
func BuildPrincipal(user *User, roles []Role) *Principal {
	if user == nil {
		panic("auth: BuildPrincipal called with nil user")
	}

	authorities := make([]Authority, 0, len(roles))
	for _, r := range roles {
		authorities = append(authorities, Authority(r.Name))
	}
	if roles == nil {
		roles = []Role{}
	}

	return &Principal{
		Username:              user.Username,
		PasswordHash:          user.PasswordHash,
		Enabled:               true,
		AccountNonExpired:     true,
		CredentialsNonExpired: true,
		AccountNonLocked:      true,
		Authorities:           authorities,
		UserID:                user.ID,
		Nickname:              user.Nickname,
		OrganizationID:        user.OrganizationID,
		Salt:                  user.PasswordSalt,
		ThirdPartyBound:       user.ThirdPartyBound,
		ThirdPartyID:          user.ThirdPartyID,
		Roles:                 roles,
	}
}

// Name returns the principal's username.
func (p *Principal) Name() string {
	return p.Username
}

// HasAuthority reports whether the principal was granted a.
func (p *Principal) HasAuthority(a Authority) bool {
	return slices.Contains(p.Authorities, a)
}

// AuthorityNames returns the granted authorities as plain strings.
func (p *Principal) AuthorityNames() []string {
	names := make([]string, len(p.Authorities))
	for i, a := range p.Authorities {
		names[i] = string(a)
	}
	return names
}
