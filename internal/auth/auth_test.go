// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	id := uuid.New()

	raw, err := tokens.Issue(id)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(raw, "."))

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)

	other, err := tokens.Issue(id)
	require.NoError(t, err)
	otherClaims, err := tokens.Parse(other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.TokenID, otherClaims.TokenID, "each token gets its own id")
}

func TestTokensRejects(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	id := uuid.New()

	expired := NewTokens("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	oldToken, err := expired.Issue(id)
	require.NoError(t, err)

	foreign, err := NewTokens("other-secret", time.Hour).Issue(id)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   id.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: id.String(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-uuid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":     "abc.def.ghi",
		"empty":       "",
		"expired":     oldToken,
		"wrong key":   foreign,
		"alg none":    none,
		"no exp":      noExp,
		"bad subject": badSubject,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Parse(raw)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestEnrollmentAndValidate(t *testing.T) {
	e, err := NewEnrollment("driver@autoparc.dz")
	require.NoError(t, err)
	require.NotEmpty(t, e.Secret)

	png, err := base64.StdEncoding.DecodeString(e.QRCode)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(png), "\x89PNG"), "QR code must be a PNG")

	code, err := totp.GenerateCode(e.Secret, time.Now())
	require.NoError(t, err)
	assert.True(t, ValidateCode(code, e.Secret))
	assert.False(t, ValidateCode("000000x", e.Secret))
	assert.False(t, ValidateCode("", e.Secret))
	assert.False(t, ValidateCode(code, ""))
}

// testValkeyClient returns a client on DB 15, skipping when Valkey is
// unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, revokedPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})
	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestRevocations(t *testing.T) {
	client := testValkeyClient(t)
	r := NewRevocations(client)
	ctx := context.Background()

	jti := uuid.NewString()
	revoked, err := r.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, jti, time.Now().Add(time.Minute)))
	revoked, err = r.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, revokedPrefix+jti).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)
	assert.Greater(t, ttl, time.Duration(0))

	past := uuid.NewString()
	require.NoError(t, r.Revoke(ctx, past, time.Now().Add(-time.Minute)))
	revoked, err = r.IsRevoked(ctx, past)
	require.NoError(t, err)
	assert.False(t, revoked, "expired tokens are not stored")
}
