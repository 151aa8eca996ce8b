package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/pkg/jwt"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// Config parámetros de emisión de tokens y hashing.
type Config struct {
	JWT        jwt.Issuer
	BcryptCost int
}

// AuthUseCase casos de uso de identidad: registro, login, refresh y alta de administradores.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	cfg       Config
	log       *logger.Logger
	dummyHash []byte
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, cfg Config, log *logger.Logger) *AuthUseCase {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	// Hash de relleno para que un identificador inexistente cueste lo mismo que una contraseña incorrecta.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("sweetshop-dummy-password"), cfg.BcryptCost)
	return &AuthUseCase{userRepo: userRepo, cfg: cfg, log: log, dummyHash: dummy}
}

// Register crea un cliente y devuelve el usuario con sus tokens. El rol siempre es customer.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, passwordTooLong()
	}
	user, err := uc.createUser(ctx, in.Username, in.Name, in.Email, in.Password, func(u *entity.User) {
		u.Role = entity.RoleCustomer
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("usuario registrado")
	return uc.authResponse(user)
}

// CreateAdmin fábrica administrativa: rol admin con flags de staff y superusuario.
func (uc *AuthUseCase) CreateAdmin(ctx context.Context, username, email, password string) (*dto.UserResponse, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(email) == "" {
		verr.Add("email", domain.CodeRequired, "los administradores deben tener email")
	}
	switch {
	case len(password) < minPasswordLen:
		verr.Add("password", domain.CodeTooShort, "debe tener al menos 8 caracteres")
	case len(password) > maxPasswordBytes:
		verr.Add("password", domain.CodeTooLong, "no puede superar 72 bytes")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	user, err := uc.createUser(ctx, username, "", email, password, func(u *entity.User) {
		u.Role = entity.RoleAdmin
		u.IsStaff = true
		u.IsSuperuser = true
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("administrador creado")
	return toUserResponse(user), nil
}

// Login autentica por email (sin distinguir mayúsculas) o username. Cualquier fallo
// devuelve domain.ErrInvalidCredentials sin indicar cuál parte falló.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	identifier := strings.TrimSpace(in.Identifier())
	if identifier == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.findByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	hash := uc.dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(in.Password)); err != nil || user == nil || !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.authResponse(user)
}

// Refresh valida un refresh token y emite un access token nuevo.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	claims, err := jwt.Parse(uc.cfg.JWT.Secret, refreshToken, jwt.TypeRefresh)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	access, err := uc.cfg.JWT.GenerateAccess(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{Access: access}, nil
}

// Authenticate resuelve un access token al usuario actual (middleware HTTP).
func (uc *AuthUseCase) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := jwt.Parse(uc.cfg.JWT.Secret, accessToken, jwt.TypeAccess)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.activeUser(ctx, claims.UserID)
}

func (uc *AuthUseCase) activeUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

func (uc *AuthUseCase) findByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	if strings.Contains(identifier, "@") {
		user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(identifier))
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	user, err := uc.userRepo.GetByUsername(ctx, identifier)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

func (uc *AuthUseCase) createUser(ctx context.Context, username, name, email, password string, apply func(*entity.User)) (*entity.User, error) {
	email = normalizeEmail(email)
	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, emailTaken()
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	gen, err := newUsernameGenerator(username, name, email)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	apply(user)

	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		candidate, err := gen.next(ctx, uc.userRepo)
		if err != nil {
			return nil, err
		}
		user.Username = candidate
		err = uc.userRepo.Create(ctx, user)
		switch {
		case err == nil:
			return user, nil
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			return nil, emailTaken()
		case errors.Is(err, domain.ErrUsernameAlreadyExists) && !gen.explicit:
			continue
		case errors.Is(err, domain.ErrUsernameAlreadyExists):
			return nil, usernameTaken()
		default:
			return nil, err
		}
	}
	return nil, usernameTaken()
}

func (uc *AuthUseCase) authResponse(user *entity.User) (*dto.AuthResponse, error) {
	access, err := uc.cfg.JWT.GenerateAccess(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := uc.cfg.JWT.GenerateRefresh(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		User:   *toUserResponse(user),
		Tokens: dto.TokenPair{Access: access, Refresh: refresh},
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func emailTaken() error {
	return domain.NewValidationError("email", domain.CodeUnique, "ya existe un usuario con este email")
}

// bcrypt solo admite hasta 72 bytes.
func passwordTooLong() error {
	return domain.NewValidationError("password", domain.CodeTooLong, "no puede superar 72 bytes")
}

func usernameTaken() error {
	return domain.NewValidationError("username", domain.CodeUnique, "ya existe un usuario con este username")
}

// ToUserResponse convierte la entidad en su vista pública.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	return toUserResponse(u)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
