package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/tourops-pricing/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(token string) (model.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return model.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: user_id", ErrInvalidToken)
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: tenant_id", ErrInvalidToken)
	}

	return model.Principal{
		UserID:   userID,
		TenantID: tenantID,
		Role:     model.UserRole(strings.ToUpper(claims.Role)),
	}, nil
}

// Issue signs an access token for principal. Used by tooling and tests; the
// identity service issues production tokens.
func (p *Parser) Issue(principal model.Principal, registered jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           principal.UserID.String(),
		TenantID:         principal.TenantID.String(),
		Role:             string(principal.Role),
		RegisteredClaims: registered,
	})
	return token.SignedString(p.secret)
}
