package service

import "github.com/Optus-development-team/optsms-backend/internal/models"

type TokenService interface {
	CreateToken(subject string) (string, error)
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}
