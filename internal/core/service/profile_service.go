package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/grandstay/booking-console/internal/core/domain"
	"github.com/grandstay/booking-console/internal/core/policy"
	"github.com/grandstay/booking-console/internal/core/ports"
	"github.com/grandstay/booking-console/internal/core/validation"
)

type profileService struct {
	customers ports.CustomerGateway
	validator *validation.Validator
	log       zerolog.Logger
}

// NewProfileService returns a ProfileService implementation.
func NewProfileService(customers ports.CustomerGateway, validator *validation.Validator, log zerolog.Logger) ports.ProfileService {
	return &profileService{customers: customers, validator: validator, log: log}
}

// Update saves p for customerID. Customers may only edit their own record.
func (s *profileService) Update(ctx context.Context, requester domain.Identity, customerID int64, p domain.Profile) (*domain.Customer, error) {
	switch {
	case policy.CanAccess(requester.Role, policy.ManageCustomers):
	case policy.CanAccess(requester.Role, policy.ManageOwnProfile):
		if !requester.HasSubject() {
			return nil, fmt.Errorf("update profile: %w", domain.ErrIdentityIncomplete)
		}
		if requester.SubjectID != customerID {
			return nil, fmt.Errorf("update profile %d: %w", customerID, domain.ErrForbidden)
		}
	default:
		return nil, fmt.Errorf("update profile: %w", domain.ErrForbidden)
	}

	if err := s.validator.Profile(p); err != nil {
		return nil, err
	}

	c, err := s.customers.UpdateCustomer(ctx, customerID, p)
	if err != nil {
		return nil, fmt.Errorf("update profile %d: %w", customerID, err)
	}
	s.log.Info().Int64("customer_id", customerID).Str("actor", requester.Username).Msg("profile updated")
	return c, nil
}
