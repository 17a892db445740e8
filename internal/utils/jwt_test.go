package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
    at, err := NewAccessToken("s3cret", "user-1", "member", time.Hour)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().Add(time.Hour), at.Exp, 5*time.Second)

    claims, err := ParseAccessToken("s3cret", at.Token)
    require.NoError(t, err)
    assert.Equal(t, "user-1", claims.UserID)
    assert.Equal(t, "member", claims.Role)
}

func TestParseAccessTokenRejects(t *testing.T) {
    good, err := NewAccessToken("s3cret", "user-1", "member", time.Hour)
    require.NoError(t, err)
    expired, err := NewAccessToken("s3cret", "user-1", "member", -time.Minute)
    require.NoError(t, err)
    noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "exp": time.Now().Add(time.Hour).Unix(),
    }).SignedString([]byte("s3cret"))
    require.NoError(t, err)
    noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"}).SignedString([]byte("s3cret"))
    require.NoError(t, err)

    _, err = ParseAccessToken("other", good.Token)
    assert.ErrorIs(t, err, ErrInvalidToken)

    _, err = ParseAccessToken("s3cret", expired.Token)
    assert.ErrorIs(t, err, ErrInvalidToken)

    _, err = ParseAccessToken("s3cret", noSub)
    assert.ErrorIs(t, err, ErrNoSubject)

    _, err = ParseAccessToken("s3cret", noExp)
    assert.ErrorIs(t, err, ErrInvalidToken)

    _, err = ParseAccessToken("s3cret", "not-a-token")
    assert.ErrorIs(t, err, ErrInvalidToken)
}
