// Package users implements phone-based identification. Phones are the unique
// key; records are created lazily on first sign-in and never deleted.
package users

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/hamadpass/khodarji-backend/internal/storage"
	"github.com/hamadpass/khodarji-backend/pkg/enums"
	pkgerrors "github.com/hamadpass/khodarji-backend/pkg/errors"
	"github.com/hamadpass/khodarji-backend/pkg/latency"
	"github.com/hamadpass/khodarji-backend/pkg/types"
)

// phonePattern matches a 9-digit Jordanian subscriber number without a
// country code.
var phonePattern = regexp.MustCompile(`^7[0-9]{8}$`)

// Service resolves phones to user records.
type Service interface {
	SignIn(ctx context.Context, phone string) (*types.User, error)
}

type collectionStore interface {
	Read(ctx context.Context, key string, dest any) error
	Write(ctx context.Context, key string, value any) error
}

type service struct {
	store collectionStore
	sim   *latency.Simulator
}

// NewService builds the identification service over the durable store.
func NewService(store collectionStore, sim *latency.Simulator) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("storage required")
	}
	return &service{store: store, sim: sim}, nil
}

// SignIn validates the phone, then returns the matching user, creating one if
// the phone is new. The very first user ever created is granted admin; every
// later phone becomes a customer. Repeated calls for the same phone return
// the same record.
func (s *service) SignIn(ctx context.Context, phone string) (*types.User, error) {
	if err := s.sim.Wait(ctx, latency.OpSignIn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign in interrupted")
	}

	if !phonePattern.MatchString(phone) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid phone number (must be 7XXXXXXXX)")
	}

	var users []types.User
	if err := s.store.Read(ctx, storage.KeyUsers, &users); err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Phone == phone {
			user := users[i]
			return &user, nil
		}
	}

	role := enums.UserRoleCustomer
	if len(users) == 0 {
		role = enums.UserRoleAdmin
	}
	user := types.User{
		ID:    uuid.NewString(),
		Phone: phone,
		Role:  role,
	}
	users = append(users, user)
	if err := s.store.Write(ctx, storage.KeyUsers, users); err != nil {
		return nil, err
	}
	return &user, nil
}
