package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/model"
)

var ErrUnauthenticated = errors.New("unauthenticated")

type ProfileGetter interface {
	GetProfile(ctx context.Context, id uint) (*model.Profile, error)
}

// Credentials are the raw values a request presents.
type Credentials struct {
	BearerToken string
	ProfileID   string
}

// Resolver turns request credentials into a profile. A bearer token wins over
// the plain profile id header, which is only honoured when allowed.
type Resolver struct {
	profiles           ProfileGetter
	parser             *Parser
	allowProfileHeader bool
}

func NewResolver(profiles ProfileGetter, parser *Parser, allowProfileHeader bool) *Resolver {
	return &Resolver{
		profiles:           profiles,
		parser:             parser,
		allowProfileHeader: allowProfileHeader,
	}
}

func (r *Resolver) Resolve(ctx context.Context, creds Credentials) (*model.Profile, error) {
	profileID, err := r.profileID(creds)
	if err != nil {
		return nil, err
	}

	profile, err := r.profiles.GetProfile(ctx, profileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown profile", ErrUnauthenticated)
		}
		return nil, err
	}
	return profile, nil
}

func (r *Resolver) profileID(creds Credentials) (uint, error) {
	token := strings.TrimSpace(creds.BearerToken)
	if token != "" {
		if r.parser == nil {
			return 0, fmt.Errorf("%w: bearer tokens are disabled", ErrUnauthenticated)
		}
		claims, err := r.parser.Parse(token)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
		}
		return claims.ProfileID, nil
	}

	raw := strings.TrimSpace(creds.ProfileID)
	if raw == "" || !r.allowProfileHeader {
		return 0, fmt.Errorf("%w: missing credentials", ErrUnauthenticated)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: malformed profile id", ErrUnauthenticated)
	}
	return uint(id), nil
}
