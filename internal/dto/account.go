package dto

import (
	"github.com/yukikurage/workstream-api/internal/directory"
)

// AccountDTO represents a signed-in account in API responses
type AccountDTO struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Role     string           `json:"role"`
	Username string           `json:"username"`
	Access   directory.Access `json:"access"`
}

// ToAccountDTO converts a directory account to AccountDTO. The password hash is never exposed.
func ToAccountDTO(account directory.Account) AccountDTO {
	return AccountDTO{
		ID:       account.ID,
		Name:     account.Name,
		Role:     account.Role,
		Username: account.Username,
		Access:   account.Access,
	}
}
