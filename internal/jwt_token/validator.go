package jwttoken

import (
	"eventreg/internal/platform/middleware"
)

// Validator exposes a JWTService as a middleware.JWTValidator.
type Validator struct {
	service *JWTService
}

func NewValidator(service *JWTService) *Validator {
	return &Validator{service: service}
}

func (v *Validator) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	claims, err := v.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.JWTClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Member: claims.Member,
		Admin:  claims.Admin,
	}, nil
}
