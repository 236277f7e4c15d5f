package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"techno-ai-be/internal/config"
	"techno-ai-be/internal/dto"
	"techno-ai-be/internal/entity"
	"techno-ai-be/internal/pkg/logger"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/internal/repository/unitofwork"

	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	providerGoogle = "google"
	googleUserInfo = "https://www.googleapis.com/oauth2/v2/userinfo"
	oauthStateTTL  = 10 * time.Minute
	oauthLogModule = "OAuthService"
)

var (
	ErrUnsupportedProvider = serverutils.NewBadRequestError("unsupported provider")
	ErrInvalidOAuthState   = serverutils.NewBadRequestError("invalid or expired OAuth state")
)

type IOAuthService interface {
	// GetLoginURL starts the code flow. agreedToTerms is remembered with the
	// state so a first-time sign-in can register the account.
	GetLoginURL(provider string, agreedToTerms bool) (string, error)
	HandleCallback(ctx context.Context, provider, state, code string) (*dto.AuthResponse, error)
}

type googleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type oauthService struct {
	uowFactory  unitofwork.RepositoryFactory
	authService IAuthService
	googleConf  *oauth2.Config
	userInfoURL string
	states      *cache.Cache
	logger      logger.ILogger
}

func NewOAuthService(cfg config.AuthConfig, uowFactory unitofwork.RepositoryFactory, authService IAuthService, logger logger.ILogger) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &oauthService{
		uowFactory:  uowFactory,
		authService: authService,
		googleConf:  conf,
		userInfoURL: googleUserInfo,
		states:      cache.New(oauthStateTTL, oauthStateTTL),
		logger:      logger,
	}
}

func (s *oauthService) GetLoginURL(provider string, agreedToTerms bool) (string, error) {
	if provider != providerGoogle {
		return "", ErrUnsupportedProvider
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", serverutils.NewInternalError("failed to create OAuth state", err)
	}
	state := base64.URLEncoding.EncodeToString(b)
	s.states.Set(state, agreedToTerms, cache.DefaultExpiration)

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider, state, code string) (*dto.AuthResponse, error) {
	if provider != providerGoogle {
		return nil, ErrUnsupportedProvider
	}

	agreed, ok := s.states.Get(state)
	if !ok {
		return nil, ErrInvalidOAuthState
	}
	s.states.Delete(state)

	token, err := s.googleConf.Exchange(ctx, code)
	if err != nil {
		s.logger.Error(oauthLogModule, "Code exchange failed", map[string]interface{}{"error": err.Error()})
		return nil, serverutils.NewUnauthorizedError("code exchange failed")
	}

	profile, err := s.fetchProfile(ctx, s.googleConf.Client(ctx, token))
	if err != nil {
		s.logger.Error(oauthLogModule, "Failed getting user info", map[string]interface{}{"error": err.Error()})
		return nil, serverutils.NewInternalError("failed getting user info", err)
	}

	res, err := s.authService.GoogleLogin(ctx, &dto.GoogleLoginRequest{
		FullName:      profile.Name,
		Email:         profile.Email,
		Profile:       profile.Picture,
		Method:        string(entity.AuthMethodGoogle),
		AgreedToTerms: agreed.(bool),
	})
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	err = uow.UserRepository().SaveUserProvider(ctx, &entity.UserProvider{
		UserId:         res.User.Id,
		ProviderName:   providerGoogle,
		ProviderUserId: profile.ID,
		AvatarURL:      profile.Picture,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		s.logger.Warn(oauthLogModule, "Failed to save provider info", map[string]interface{}{
			"user_id": res.User.Id.String(),
			"error":   err.Error(),
		})
	}

	s.logger.Info(oauthLogModule, "User authenticated", map[string]interface{}{
		"user_id": res.User.Id.String(),
		"created": res.Created,
	})
	return res, nil
}

func (s *oauthService) fetchProfile(ctx context.Context, client *http.Client) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.Unmarshal(content, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
