package service

import (
	"context"
	"regexp"
	"strings"

	"techno-ai-be/internal/dto"
	"techno-ai-be/internal/entity"
	"techno-ai-be/internal/pkg/logger"
	"techno-ai-be/internal/pkg/serverutils"
	"techno-ai-be/internal/repository/specification"
	"techno-ai-be/internal/repository/unitofwork"
	"techno-ai-be/pkg/events"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrMissingRegisterFields = serverutils.NewBadRequestError("Full name, email, and method are required")
	ErrTermsNotAccepted      = serverutils.NewBadRequestError("You must agree to the Terms of Service and Privacy Policy to register")
	ErrInvalidMethod         = serverutils.NewBadRequestError(`Invalid method. Use "email" or "google"`)
	ErrInvalidGoogleMethod   = serverutils.NewBadRequestError(`Invalid method. Use "google" for Google authentication`)
	ErrInvalidEmail          = serverutils.NewBadRequestError("Invalid email format")
	ErrUserExists            = serverutils.NewBadRequestError("User already exists with this email")
	ErrPasswordTooShort      = serverutils.NewBadRequestError("Password must be at least 6 characters long")
	ErrMissingCredentials    = serverutils.NewBadRequestError("Email and password are required")
	ErrInvalidCredentials    = serverutils.NewBadRequestError("Invalid email or password")
	ErrUseGoogle             = serverutils.NewBadRequestError("Please use Google to sign in")
	ErrUseEmailLogin         = serverutils.NewBadRequestError("This email is already registered with email/password. Please use email login instead.")
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GoogleLogin(ctx context.Context, req *dto.GoogleLoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, eventPublisher events.Publisher, logger logger.ILogger) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := normalizeEmail(req.Email)
	method := entity.AuthMethod(req.Method)

	if fullName == "" || email == "" || req.Method == "" {
		return nil, ErrMissingRegisterFields
	}
	if !req.AgreedToTerms {
		return nil, ErrTermsNotAccepted
	}
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, serverutils.NewInternalError("Internal server error", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	user := &entity.User{
		FullName:      fullName,
		Email:         email,
		Method:        method,
		Role:          entity.UserRoleUser,
		AgreedToTerms: true,
	}

	if method == entity.AuthMethodEmail {
		if len(req.Password) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, serverutils.NewInternalError("Internal server error", err)
		}
		hashStr := string(hash)
		user.PasswordHash = &hashStr
	} else if req.Profile != "" {
		profile := req.Profile
		user.Profile = &profile
	}

	if err := s.create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.UserRegistered, user)
	return s.respond(user, true)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, serverutils.NewInternalError("Internal server error", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.Method != entity.AuthMethodEmail {
		return nil, ErrUseGoogle
	}
	if user.PasswordHash == nil || bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	s.publish(ctx, events.UserLogin, user)
	return s.respond(user, false)
}

// GoogleLogin signs in an existing Google account or registers a new one.
func (s *authService) GoogleLogin(ctx context.Context, req *dto.GoogleLoginRequest) (*dto.AuthResponse, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := normalizeEmail(req.Email)

	if fullName == "" || email == "" || req.Method == "" {
		return nil, ErrMissingRegisterFields
	}
	if entity.AuthMethod(req.Method) != entity.AuthMethodGoogle {
		return nil, ErrInvalidGoogleMethod
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, serverutils.NewInternalError("Internal server error", err)
	}

	if existing != nil {
		if existing.Method != entity.AuthMethodGoogle {
			return nil, ErrUseEmailLogin
		}
		s.publish(ctx, events.UserLogin, existing)
		return s.respond(existing, false)
	}

	if !req.AgreedToTerms {
		return nil, ErrTermsNotAccepted
	}

	user := &entity.User{
		FullName:      fullName,
		Email:         email,
		Method:        entity.AuthMethodGoogle,
		Role:          entity.UserRoleUser,
		AgreedToTerms: true,
	}
	if req.Profile != "" {
		profile := req.Profile
		user.Profile = &profile
	}

	if err := s.create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.UserRegistered, user)
	return s.respond(user, true)
}

func (s *authService) create(ctx context.Context, user *entity.User) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return serverutils.NewInternalError("Internal server error", err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		// The unique index catches a concurrent registration of the same email.
		return ErrUserExists
	}
	if err := uow.Commit(); err != nil {
		return serverutils.NewInternalError("Internal server error", err)
	}
	return nil
}

func (s *authService) respond(user *entity.User, created bool) (*dto.AuthResponse, error) {
	token, err := serverutils.GenerateToken(user.Id, string(user.Role))
	if err != nil {
		return nil, serverutils.NewInternalError("Internal server error", err)
	}
	return &dto.AuthResponse{Token: token, User: toUserDTO(user), Created: created}, nil
}

func (s *authService) publish(ctx context.Context, eventType string, user *entity.User) {
	if s.eventPublisher == nil {
		return
	}
	event := events.New(eventType, map[string]interface{}{
		"user_id":   user.Id.String(),
		"email":     user.Email,
		"full_name": user.FullName,
		"method":    string(user.Method),
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("AuthService", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserDTO(user *entity.User) dto.UserDTO {
	return dto.UserDTO{
		Id:            user.Id,
		FullName:      user.FullName,
		Email:         user.Email,
		Profile:       user.Profile,
		Method:        string(user.Method),
		AgreedToTerms: user.AgreedToTerms,
		CreatedAt:     user.CreatedAt,
	}
}
