package service

import "github.com/nurpe/balance-ledger/internal/model"

// AuthorizeClient allows only client profiles through. It gates every
// operation that debits a client balance and never touches the store.
func AuthorizeClient(profile *model.Profile) error {
	if profile == nil {
		return ErrUnauthorized
	}
	switch profile.Role {
	case model.RoleClient:
		return nil
	case model.RoleContractor:
		return ErrUnauthorized
	default:
		// Unknown roles are rejected.
		return ErrUnauthorized
	}
}
