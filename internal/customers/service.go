package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"calldesk-platform/internal/calls"
	"calldesk-platform/pkg/logger"
)

// Service implements the customer use cases.
//
// Customers are value-style aggregates: Update builds a full replacement
// entity (same id, new fields) and saves it rather than patching in place.
// The variable set supplied to Create/Update is the complete set — omitted
// variables are cleared, matching the repository's wholesale-replace
// contract. Callers that want to keep existing variables must resupply them.
type Service struct {
	repo  Repository
	calls calls.Repository
}

var (
	// ErrNotFound means the referenced customer does not exist.
	ErrNotFound = errors.New("customer not found")

	ErrInvalidArgument = errors.New("invalid argument")
)

func NewService(repo Repository, callRepo calls.Repository) *Service {
	return &Service{repo: repo, calls: callRepo}
}

// CreateInput carries the full initial state of a customer.
type CreateInput struct {
	Name        string
	PhoneNumber string
	Variables   map[string]string
}

// Create builds a new customer, applies the supplied variables, persists it,
// and returns the generated id.
func (s *Service) Create(ctx context.Context, in CreateInput) (string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}

	customer := New(in.Name, in.PhoneNumber)
	for key, value := range in.Variables {
		customer.SetVariable(key, value)
	}

	if err := s.repo.Save(ctx, customer); err != nil {
		return "", err
	}
	return customer.CustomerID, nil
}

// UpdateInput carries the full replacement state for an existing customer.
type UpdateInput struct {
	CustomerID  string
	Name        string
	PhoneNumber string
	Variables   map[string]string
}

// Update replaces a customer wholesale: same id, new name/phone, and the
// supplied variables as the complete new set.
func (s *Service) Update(ctx context.Context, in UpdateInput) error {
	if in.CustomerID == "" {
		return fmt.Errorf("%w: customer id is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}

	_, ok, err := s.repo.FindByID(ctx, in.CustomerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	replacement := Restore(in.CustomerID, in.Name, in.PhoneNumber, nil)
	for key, value := range in.Variables {
		replacement.SetVariable(key, value)
	}

	return s.repo.Save(ctx, replacement)
}

// Delete removes a customer, its variables, and all calls referencing it.
//
// The call cleanup is an explicit two-phase operation: the calls table does
// not cascade on customer deletion, so every call is fetched and deleted
// here before the customer row (which does cascade its variables) goes.
func (s *Service) Delete(ctx context.Context, customerID string) error {
	if customerID == "" {
		return fmt.Errorf("%w: customer id is required", ErrInvalidArgument)
	}

	_, ok, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	customerCalls, err := s.calls.FindAllByCustomerID(ctx, customerID)
	if err != nil {
		return fmt.Errorf("list customer calls: %w", err)
	}
	for _, call := range customerCalls {
		if err := s.calls.Delete(ctx, call.CallID); err != nil {
			return fmt.Errorf("delete call %s: %w", call.CallID, err)
		}
	}
	if len(customerCalls) > 0 {
		logger.From(ctx).Info("deleted customer calls",
			"customer_id", customerID,
			"count", len(customerCalls),
		)
	}

	return s.repo.Delete(ctx, customerID)
}

// Get returns a customer by id.
func (s *Service) Get(ctx context.Context, customerID string) (Customer, error) {
	customer, ok, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return Customer{}, err
	}
	if !ok {
		return Customer{}, ErrNotFound
	}
	return customer, nil
}

// GetAll returns every customer, order unspecified.
func (s *Service) GetAll(ctx context.Context) ([]Customer, error) {
	return s.repo.FindAll(ctx)
}

// Exists reports whether a customer id refers to an existing customer.
// It backs the call service's customer directory.
func (s *Service) Exists(ctx context.Context, customerID string) (bool, error) {
	_, ok, err := s.repo.FindByID(ctx, customerID)
	return ok, err
}
