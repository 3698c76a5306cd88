package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nurpe/wasteops-portal/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Issuer signs access tokens for authenticated profiles.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

func (i *Issuer) Issue(profile model.Profile) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": profile.ID.String(),
		"email":   profile.Email,
		"name":    profile.Name,
		"role":    string(profile.Role),
		"exp":     now.Add(i.ttl).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parser validates access tokens and recovers the request principal.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Parse(raw string) (model.Principal, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return model.Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Principal{}, ErrInvalidToken
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return model.Principal{}, ErrInvalidToken
	}

	rawRole, _ := claims["role"].(string)
	role, ok := model.ParseRole(rawRole)
	if !ok {
		return model.Principal{}, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return model.Principal{
		UserID: userID,
		Email:  email,
		Name:   name,
		Role:   role,
	}, nil
}
