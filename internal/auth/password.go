// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth hashes operator passwords with argon2id and checks login credentials.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/olegiv/noorshare/internal/model"
)

// Argon2id parameters (OWASP second choice: m=19456, t=2, p=1).
const (
	argonTime    = 2
	argonMemory  = 19 * 1024
	argonThreads = 1
	argonKeyLen  = 32
	argonSaltLen = 16
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyHash is verified for unknown emails so both failure paths cost the same.
var dummyHash = mustHash("noorshare-timing-equaliser")

// HashPassword returns an encoded argon2id hash:
// $argon2id$v=19$m=19456,t=2,p=1$<salt>$<hash>
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

type params struct {
	memory, time uint32
	threads      uint8
	salt, key    []byte
}

func decode(encoded string) (params, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return params{}, errors.New("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return params{}, fmt.Errorf("unsupported hash type: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params{}, fmt.Errorf("parsing version: %w", err)
	}

	var p params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return params{}, fmt.Errorf("parsing parameters: %w", err)
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return params{}, fmt.Errorf("decoding salt: %w", err)
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return params{}, fmt.Errorf("decoding hash: %w", err)
	}
	return p, nil
}

// CheckPassword verifies password against an encoded hash in constant time.
// Hashes made with other argon2id parameters are still accepted.
func CheckPassword(password, encoded string) (bool, error) {
	p, err := decode(encoded)
	if err != nil {
		return false, err
	}
	key := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(key, p.key) == 1, nil
}

// NeedsRehash reports whether encoded was made with parameters other than the current ones.
func NeedsRehash(encoded string) bool {
	p, err := decode(encoded)
	if err != nil {
		return true
	}
	return p.memory != argonMemory || p.time != argonTime || p.threads != argonThreads
}

// UserLookup finds users by email. It returns sql.ErrNoRows for unknown emails.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

// Authenticate returns the user matching email and password.
func Authenticate(ctx context.Context, users UserLookup, email, password string) (model.User, error) {
	user, err := users.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		_, _ = CheckPassword(password, dummyHash)
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		return model.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func mustHash(s string) string {
	h, err := HashPassword(s)
	if err != nil {
		panic(err)
	}
	return h
}
