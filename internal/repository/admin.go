package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/timvest/intake-server-go/internal/model"
)

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.AdminAccount, error)
}

// seededAdminRepo holds the accounts provided at startup. It is read-only.
type seededAdminRepo struct {
	byEmail map[string]model.AdminAccount
}

// NewSeededAdminRepository builds the admin store from seed accounts. Emails
// must be unique.
func NewSeededAdminRepository(accounts ...model.AdminAccount) (AdminRepository, error) {
	byEmail := make(map[string]model.AdminAccount, len(accounts))
	for _, account := range accounts {
		if strings.TrimSpace(account.Email) == "" {
			return nil, fmt.Errorf("admin account %d has no email", account.ID)
		}
		if _, exists := byEmail[account.Email]; exists {
			return nil, fmt.Errorf("duplicate admin email %q", account.Email)
		}
		byEmail[account.Email] = account
	}
	return &seededAdminRepo{byEmail: byEmail}, nil
}

func (r *seededAdminRepo) FindByEmail(ctx context.Context, email string) (*model.AdminAccount, error) {
	account, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return &account, nil
}
