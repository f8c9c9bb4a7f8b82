package service

import (
	"context"
	"errors"
	"labplanner/infras/jwt"
	"labplanner/infras/otel"
	"labplanner/internal/domains/auth/model/dto"
	"labplanner/shared/constant"
	"labplanner/shared/failure"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.TokenResponse, error)
	Me(ctx context.Context) (dto.MeResponse, error)
}

type serviceImpl struct {
	jwt  jwt.JWT
	otel otel.Otel
}

func New(jwt jwt.JWT, otel otel.Otel) Auth {
	return &serviceImpl{
		jwt:  jwt,
		otel: otel,
	}
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.TokenResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	pair, err := s.jwt.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("refresh token rejected")

		if errors.Is(err, jwt.ErrExpiredToken) {
			return res, failure.Unauthorized("refresh token has expired") // nolint:wrapcheck
		}

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	res.FromTokenPair(pair)

	return res, nil
}

func (s *serviceImpl) Me(ctx context.Context) (res dto.MeResponse, err error) {
	res.UserID, _ = ctx.Value(constant.ContextKeyUserID).(string)
	res.Email, _ = ctx.Value(constant.ContextKeyUserEmail).(string)
	res.Role, _ = ctx.Value(constant.ContextKeyUserRole).(string)

	if res.UserID == "" {
		return res, failure.Unauthorized("not authenticated") // nolint:wrapcheck
	}

	return res, nil
}
