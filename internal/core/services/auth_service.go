package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/club_tab_app/internal/apperrors"
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/dto"
	"github.com/SscSPs/club_tab_app/internal/platform/config"
	"github.com/SscSPs/club_tab_app/internal/utils"
)

// DevTelegramID is the identity used for logins without init data in DEV_MODE.
const DevTelegramID int64 = 999999999

type authService struct {
	BaseService
	cfg      *config.Config
	verifier portssvc.IdentityVerifier
	members  portssvc.MemberIdentitySvc
}

// NewAuthService creates the login flow: verify init data, resolve the member, issue a session token.
func NewAuthService(cfg *config.Config, verifier portssvc.IdentityVerifier, members portssvc.MemberIdentitySvc, opts ...ServiceOption) portssvc.AuthSvc {
	return &authService{
		BaseService: newBaseService(opts...),
		cfg:         cfg,
		verifier:    verifier,
		members:     members,
	}
}

var _ portssvc.AuthSvc = (*authService)(nil)

func devIdentity() domain.TelegramIdentity {
	last, username := "User", "devuser"
	return domain.TelegramIdentity{ID: DevTelegramID, FirstName: "Dev", LastName: &last, Username: &username}
}

// LoginWithInitData exchanges Telegram init data for a JWT. Members that are not yet
// approved still get a token so the client can show their pending state.
func (s *authService) LoginWithInitData(ctx context.Context, initData string) (*dto.AuthResponse, error) {
	var identity domain.TelegramIdentity
	if strings.TrimSpace(initData) == "" && s.cfg.DevMode {
		if err := s.members.BootstrapAdmins(ctx, []int64{DevTelegramID}); err != nil {
			s.LogError(ctx, err, "Failed to bootstrap dev user")
			return nil, err
		}
		identity = devIdentity()
		s.LogDebug(ctx, "DEV_MODE login without init data")
	} else {
		verified, err := s.verifier.Verify(initData)
		if err != nil {
			s.GetLogger(ctx).WarnContext(ctx, "Init data rejected", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
		}
		identity = *verified
	}

	member, err := s.members.ResolveIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}

	token, _, err := utils.GenerateJWT(member.MemberID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign session token", slog.String("member_id", member.MemberID))
		return nil, apperrors.NewAppError(500, "failed to issue session token", err)
	}

	s.LogInfo(ctx, "Member logged in",
		slog.String("member_id", member.MemberID),
		slog.Bool("is_active", member.IsActive))
	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.cfg.JWTExpiryDuration.Seconds()),
		Member:      dto.ToMemberResponse(member),
	}, nil
}
