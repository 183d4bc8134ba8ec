package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE USER COMMAND
// Registers a back-office account. Also used at startup to seed the
// bootstrap admin into an empty user table.
// ══════════════════════════════════════════════════════════════════════════════

// CreateUserCommand contains the data for a new back-office account.
type CreateUserCommand struct {
	FullName string
	Email    string
	Password string
	Role     user.Role
}

// Validate validates the command.
func (c CreateUserCommand) Validate() error {
	if c.Email == "" {
		return shared.NewDomainError("user", "Create", shared.ErrEmptyValue, "email is required")
	}
	if c.Password == "" {
		return shared.NewDomainError("user", "Create", shared.ErrEmptyValue, "password is required")
	}
	switch c.Role {
	case user.RoleAdmin, user.RoleAgent, user.RoleSecretary, user.RoleAdmissionDirector:
		return nil
	default:
		return shared.NewDomainError("user", "Create", shared.ErrValidation,
			fmt.Sprintf("unknown role %q", string(c.Role)))
	}
}

// CreateUserResult contains the created account.
type CreateUserResult struct {
	User *user.User
}

// CreateUserHandler handles account creation.
type CreateUserHandler struct {
	userRepo user.Repository
	logger   *slog.Logger
}

// NewCreateUserHandler creates a new handler.
func NewCreateUserHandler(userRepo user.Repository, logger *slog.Logger) *CreateUserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateUserHandler{userRepo: userRepo, logger: logger}
}

// Handle creates the account.
// Returns shared.ErrAlreadyExists (wrapped) on a duplicate email.
func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) (*CreateUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("create_user: validation failed: %w", err)
	}

	u, err := user.New(cmd.FullName, cmd.Email, cmd.Password, cmd.Role)
	if err != nil {
		return nil, fmt.Errorf("create_user: %w", err)
	}

	if err := h.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create_user: %w", err)
	}

	h.logger.Info("user created", "user_id", u.ID, "email", u.Email, "role", string(u.Role))
	return &CreateUserResult{User: u}, nil
}
