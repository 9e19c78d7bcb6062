package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
	"github.com/farmaven/farmacia-api/pkg/jwt"
	"github.com/farmaven/farmacia-api/pkg/logger"
	"github.com/farmaven/farmacia-api/pkg/validate"
)

// TokenConfig parámetros de emisión de JWT.
type TokenConfig struct {
	Secret     string
	Issuer     string
	Expiration int // minutos
}

// UseCase autenticación: login con bcrypt y emisión de JWT.
type UseCase struct {
	userRepo repository.UserRepository
	token    TokenConfig
	log      *logger.Logger
}

// NewUseCase construye el caso de uso de autenticación.
func NewUseCase(userRepo repository.UserRepository, token TokenConfig, log *logger.Logger) *UseCase {
	return &UseCase{userRepo: userRepo, token: token, log: log}
}

// Login valida credenciales y devuelve token más usuario.
// Usuario inexistente, inactivo o contraseña errada responden lo mismo:
// ErrUnauthorized, sin revelar cuál de los tres falló.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}

	user, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(uc.token.Secret, user.ID, user.Email, string(user.Role), uc.token.Issuer, uc.token.Expiration)
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("login exitoso")
	return &dto.LoginResponse{
		Token: token,
		User:  UserToResponse(user),
	}, nil
}

// Register crea un usuario con contraseña hasheada (bcrypt, costo por defecto).
func (uc *UseCase) Register(in dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	role := entity.Role(in.Role)
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	uc.log.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("usuario registrado")
	resp := UserToResponse(user)
	return &resp, nil
}

// UserToResponse convierte la entidad a DTO sin exponer el hash.
func UserToResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
