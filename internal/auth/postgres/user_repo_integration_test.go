// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

//go:build integration

package postgres_test

import (
	"context"

	"github.com/oklog/ulid/v2"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/guns21/authkit/internal/auth"
	"github.com/guns21/authkit/internal/auth/postgres"
	"github.com/guns21/authkit/pkg/errutil"
)

var _ = Describe("UserRepository", func() {
	var (
		ctx  context.Context
		repo *postgres.UserRepository
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = postgres.NewUserRepository(testPool)
		DeferCleanup(func() {
			_, _ = testPool.Exec(ctx, `DELETE FROM user_roles`)
			_, _ = testPool.Exec(ctx, `DELETE FROM roles`)
			_, _ = testPool.Exec(ctx, `DELETE FROM users`)
		})
	})

	createUser := func(username, password string) *auth.User {
		hash, err := auth.NewArgon2idHasher().Hash(password)
		Expect(err).NotTo(HaveOccurred())
		user := &auth.User{
			ID:             ulid.Make().String(),
			Username:       username,
			PasswordHash:   hash,
			Nickname:       "nick-" + username,
			OrganizationID: "org-1",
		}
		Expect(repo.CreateUser(ctx, user)).To(Succeed())
		return user
	}

	createRole := func(name string) {
		Expect(repo.CreateRole(ctx, &auth.Role{ID: ulid.Make().String(), Name: name})).To(Succeed())
	}

	Describe("GetUser", func() {
		It("returns the stored record", func() {
			created := createUser("alice", "pw-alice")

			got, err := repo.GetUser(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(created))
		})

		It("wraps ErrNotFound for unknown usernames", func() {
			_, err := repo.GetUser(ctx, "ghost")
			Expect(err).To(MatchError(auth.ErrNotFound))
		})

		It("rejects duplicate usernames", func() {
			createUser("alice", "pw")
			err := repo.CreateUser(ctx, &auth.User{ID: ulid.Make().String(), Username: "alice", PasswordHash: "x"})
			Expect(errutil.Code(err)).To(Equal("USER_ALREADY_EXISTS"))
		})
	})

	Describe("roles", func() {
		It("returns granted roles ordered by name", func() {
			createUser("alice", "pw")
			createRole("USER")
			createRole("ADMIN")
			Expect(repo.AssignRole(ctx, "alice", "USER")).To(Succeed())
			Expect(repo.AssignRole(ctx, "alice", "ADMIN")).To(Succeed())
			Expect(repo.AssignRole(ctx, "alice", "ADMIN")).To(Succeed())

			roles, err := repo.GetUserRoles(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(2))
			Expect(roles[0].Name).To(Equal("ADMIN"))
			Expect(roles[1].Name).To(Equal("USER"))
		})

		It("returns an empty list for unknown users", func() {
			roles, err := repo.GetUserRoles(ctx, "ghost")
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).NotTo(BeNil())
			Expect(roles).To(BeEmpty())
		})

		It("rejects duplicate role names", func() {
			createRole("ADMIN")
			err := repo.CreateRole(ctx, &auth.Role{ID: ulid.Make().String(), Name: "ADMIN"})
			Expect(errutil.Code(err)).To(Equal("ROLE_ALREADY_EXISTS"))
		})

		It("fails to grant a missing role", func() {
			createUser("alice", "pw")
			err := repo.AssignRole(ctx, "alice", "NOPE")
			Expect(err).To(MatchError(auth.ErrNotFound))
		})
	})

	Describe("as a provider lookup service", func() {
		It("authenticates end to end", func() {
			createUser("alice", "correct horse")
			createRole("ADMIN")
			Expect(repo.AssignRole(ctx, "alice", "ADMIN")).To(Succeed())

			provider, err := auth.NewProvider(repo, auth.NewHasherStrategy(auth.SchemeArgon2id, auth.NewArgon2idHasher()))
			Expect(err).NotTo(HaveOccurred())

			result, err := provider.Authenticate(ctx, "alice", "correct horse")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Principal.HasAuthority("ADMIN")).To(BeTrue())
			Expect(result.Principal.Nickname).To(Equal("nick-alice"))

			_, err = provider.Authenticate(ctx, "alice", "wrong")
			Expect(auth.IsBadCredentials(err)).To(BeTrue())

			_, err = provider.Authenticate(ctx, "ghost", "whatever")
			Expect(auth.IsUserNotFound(err)).To(BeTrue())
		})
	})
})
