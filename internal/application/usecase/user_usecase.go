package usecase

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/farmaven/farmacia-api/internal/application/dto"
	"github.com/farmaven/farmacia-api/internal/domain"
	"github.com/farmaven/farmacia-api/internal/domain/entity"
	"github.com/farmaven/farmacia-api/internal/domain/repository"
	"github.com/farmaven/farmacia-api/pkg/logger"
	"github.com/farmaven/farmacia-api/pkg/validate"
)

// UserUseCase administración de usuarios (solo admin llega aquí vía middleware).
type UserUseCase struct {
	repo repository.UserRepository
	log  *logger.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, log *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, log: log}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	resp := userToResponse(user)
	return &resp, nil
}

// List lista todos los usuarios.
func (uc *UserUseCase) List() ([]dto.UserResponse, error) {
	users, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userToResponse(u))
	}
	return out, nil
}

// Update actualiza nombre, email y rol de un usuario.
func (uc *UserUseCase) Update(id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, domain.ErrInvalidInput
	}
	role := entity.Role(in.Role)
	if !role.Valid() {
		return nil, domain.ErrInvalidInput
	}

	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if in.Email != user.Email {
		existing, err := uc.repo.GetByEmail(in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrEmailAlreadyExists
		}
	}

	user.Name = in.Name
	user.Email = in.Email
	user.Role = role
	if err := uc.repo.Update(user); err != nil {
		return nil, err
	}

	uc.log.Info().Str("email", user.Email).Str("role", in.Role).Msg("usuario actualizado")
	resp := userToResponse(user)
	return &resp, nil
}

// ChangePassword reemplaza la contraseña de un usuario.
func (uc *UserUseCase) ChangePassword(id string, in dto.ChangePasswordRequest) error {
	if err := validate.Struct(in); err != nil {
		return domain.ErrInvalidInput
	}

	user, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := uc.repo.UpdatePassword(id, string(hash)); err != nil {
		return err
	}
	uc.log.Info().Str("email", user.Email).Msg("contraseña actualizada")
	return nil
}

// ToggleActive activa o desactiva un usuario. Desactivar bloquea el login
// sin perder el histórico de facturas emitidas.
func (uc *UserUseCase) ToggleActive(id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	user.Active = !user.Active
	if err := uc.repo.SetActive(id, user.Active); err != nil {
		return nil, err
	}
	uc.log.Info().Str("email", user.Email).Bool("active", user.Active).Msg("estado de usuario cambiado")
	resp := userToResponse(user)
	return &resp, nil
}

// Delete elimina un usuario sin facturas emitidas. Con facturas se debe
// desactivar en lugar de borrar.
func (uc *UserUseCase) Delete(id string) error {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}

	used, err := uc.repo.HasInvoices(id)
	if err != nil {
		return err
	}
	if used {
		return domain.ErrConflictInUse
	}

	if err := uc.repo.Delete(id); err != nil {
		return err
	}
	uc.log.Info().Str("email", user.Email).Msg("usuario eliminado")
	return nil
}

func userToResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
