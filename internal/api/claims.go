/*
Package api - bearer claim decoding

Token issuance happens elsewhere (an identity provider, or a gateway);
this package verifies a bearer token's HMAC signature and decodes its
claims into a reqctx.Context, narrowed to the four fields the core
needs.
*/
package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shiftcore/workforce/internal/models/enums"
	"github.com/shiftcore/workforce/internal/reqctx"
)

// Claims is the bearer token payload this service expects. OrgID and
// RoleLevel are mandatory; BranchID is only present for branch-scoped
// staff accounts.
type Claims struct {
	OrgID     uuid.UUID `json:"org_id"`
	UserID    uuid.UUID `json:"user_id"`
	RoleLevel int       `json:"role_level"`
	BranchID  *uuid.UUID `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}

var ErrMalformedToken = errors.New("api: malformed bearer token")

// ExtractTokenFromHeader pulls the raw token out of an "Authorization:
// Bearer <token>" header value.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMalformedToken
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedToken
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrMalformedToken
	}
	return token, nil
}

// DecodeRequestContext validates the token's signature against secret
// and maps its claims onto a reqctx.Context.
func DecodeRequestContext(tokenString, secret string) (reqctx.Context, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("api: unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return reqctx.Context{}, fmt.Errorf("api: invalid token: %w", err)
	}
	role := enums.RoleLevel(claims.RoleLevel)
	if !role.IsValid() {
		return reqctx.Context{}, fmt.Errorf("api: invalid role level %d", claims.RoleLevel)
	}
	if claims.OrgID == uuid.Nil || claims.UserID == uuid.Nil {
		return reqctx.Context{}, ErrMalformedToken
	}
	return reqctx.Context{
		OrgID:     claims.OrgID,
		UserID:    claims.UserID,
		RoleLevel: role,
		BranchID:  claims.BranchID,
	}, nil
}
