package application

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	"github.com/oksasatya/go-pomodoro-planner/pkg/apperr"
	"github.com/oksasatya/go-pomodoro-planner/pkg/helpers"
)

// RefreshCookieWriter sets and clears the refresh token cookie on a response.
type RefreshCookieWriter interface {
	Set(w http.ResponseWriter, token string)
	Clear(w http.ResponseWriter)
}

type AuthService struct {
	Users  *UserService
	Tokens TokenIssuer
	Hasher PasswordHasher
	Cookie RefreshCookieWriter
	Logger *logrus.Logger
}

func NewAuthService(users *UserService, tokens TokenIssuer, hasher PasswordHasher, cookie RefreshCookieWriter, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Tokens: tokens, Hasher: hasher, Cookie: cookie, Logger: logger}
}

// AuthResponse is the password-free user merged with the token pair.
// Only the access token is serialized; the refresh token travels in the cookie.
type AuthResponse struct {
	entity.PublicUser
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (s *AuthService) respond(u *entity.User) (*AuthResponse, error) {
	pair, err := s.IssueTokenPair(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{PublicUser: u.Public(), AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (s *AuthService) SignUp(ctx context.Context, in AuthInput) (*AuthResponse, error) {
	existing, err := s.Users.GetByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperr.BadRequest(msgUserExists)
	}
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	u, err := s.Users.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user signed up")
	return s.respond(u)
}

func (s *AuthService) SignIn(ctx context.Context, in AuthInput) (*AuthResponse, error) {
	u, err := s.validateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.respond(u)
}

// validateUser reports an unknown email as NotFound and a wrong password as Unauthorized.
func (s *AuthService) validateUser(ctx context.Context, in AuthInput) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			s.Logger.WithField("email", in.Email).Warn("sign-in for unknown email")
		}
		return nil, err
	}
	if !s.Hasher.Verify(u.Password, in.Password) {
		s.Logger.WithField("user_id", u.ID).Warn("sign-in with wrong password")
		return nil, apperr.Unauthorized(msgInvalidPassword)
	}
	return u, nil
}

func (s *AuthService) IssueTokenPair(userID string) (helpers.TokenPair, error) {
	pair, err := s.Tokens.IssuePair(userID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("issue token pair failed")
		return helpers.TokenPair{}, err
	}
	return pair, nil
}

// RefreshTokens rotates both tokens for the owner of a valid refresh token.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	u, err := s.userFromRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return s.respond(u)
}

// SignOut clears the cookie once the refresh token is proven valid.
// Access tokens already issued stay usable until they expire.
func (s *AuthService) SignOut(ctx context.Context, w http.ResponseWriter, refreshToken string) (*MessageResponse, error) {
	u, err := s.userFromRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	s.RemoveRefreshTokenFromResponse(w)
	s.Logger.WithField("user_id", u.ID).Info("user signed out")
	return &MessageResponse{Message: "Logout successful"}, nil
}

func (s *AuthService) userFromRefresh(ctx context.Context, refreshToken string) (*entity.User, error) {
	if refreshToken == "" {
		return nil, apperr.Unauthorized("Refresh token not passed")
	}
	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, msgInvalidRefresh, err)
	}
	return s.Users.GetByID(ctx, claims.UserID)
}

func (s *AuthService) AddRefreshTokenToResponse(w http.ResponseWriter, refreshToken string) {
	s.Cookie.Set(w, refreshToken)
}

func (s *AuthService) RemoveRefreshTokenFromResponse(w http.ResponseWriter) {
	s.Cookie.Clear(w)
}
