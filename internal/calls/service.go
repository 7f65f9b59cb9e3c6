package calls

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calldesk-platform/pkg/logger"
)

// Service implements the call use cases: request a call for a customer,
// drive it through its state machine, and query calls.
//
// Each method is a single unit of work: load, mutate in memory, persist.
// There is no optimistic concurrency; the repository's Save is the only
// serialization point and last save wins.
type Service struct {
	repo      Repository
	customers CustomerDirectory
	slots     SlotLimiter

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

// CustomerDirectory answers whether a customer id refers to an existing
// customer. It keeps this package free of a dependency on the customer
// aggregate.
type CustomerDirectory interface {
	CustomerExists(ctx context.Context, customerID string) (bool, error)
}

// CustomerDirectoryFunc adapts a function to CustomerDirectory.
type CustomerDirectoryFunc func(ctx context.Context, customerID string) (bool, error)

func (f CustomerDirectoryFunc) CustomerExists(ctx context.Context, customerID string) (bool, error) {
	return f(ctx, customerID)
}

// SlotLimiter caps the number of concurrently in-progress calls.
// Acquire returns false when the cap is reached.
type SlotLimiter interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

var (
	// ErrNotFound means the referenced call does not exist.
	ErrNotFound = errors.New("call not found")
	// ErrCustomerNotFound means a call was requested for an unknown customer.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrTooManyActiveCalls means the active-call cap rejected a start.
	ErrTooManyActiveCalls = errors.New("too many active calls")

	ErrInvalidArgument = errors.New("invalid argument")
)

// NewService builds a call service. limiter may be nil, which disables the
// active-call cap.
func NewService(repo Repository, customers CustomerDirectory, limiter SlotLimiter) *Service {
	return &Service{
		repo:      repo,
		customers: customers,
		slots:     limiter,
		clock:     time.Now,
	}
}

// RequestInput describes a call request. A zero RequestedAt defaults to the
// service clock.
type RequestInput struct {
	CustomerID  string
	RequestedAt time.Time
}

// Request creates a queued call for an existing customer and returns the new
// call id.
func (s *Service) Request(ctx context.Context, in RequestInput) (string, error) {
	if in.CustomerID == "" {
		return "", ErrInvalidArgument
	}

	ok, err := s.customers.CustomerExists(ctx, in.CustomerID)
	if err != nil {
		return "", fmt.Errorf("customer lookup: %w", err)
	}
	if !ok {
		return "", ErrCustomerNotFound
	}

	requestedAt := in.RequestedAt
	if requestedAt.IsZero() {
		requestedAt = s.clock().UTC()
	}

	call := New(in.CustomerID, requestedAt)
	if err := s.repo.Save(ctx, call); err != nil {
		return "", err
	}
	return call.CallID, nil
}

// Start moves a queued call to in-progress, taking an active-call slot when
// a limiter is configured.
func (s *Service) Start(ctx context.Context, callID string) error {
	call, ok, err := s.repo.FindByID(ctx, callID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	if s.slots != nil {
		acquired, err := s.slots.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("acquire call slot: %w", err)
		}
		if !acquired {
			return ErrTooManyActiveCalls
		}
	}

	if err := call.Start(s.clock().UTC()); err != nil {
		s.releaseSlot(ctx)
		return s.rejectTransition(ctx, callID, err)
	}
	if err := s.repo.Save(ctx, call); err != nil {
		s.releaseSlot(ctx)
		return err
	}
	return nil
}

// Complete finishes an in-progress call and records its duration.
func (s *Service) Complete(ctx context.Context, callID string) error {
	return s.finish(ctx, callID, (*Call).Complete)
}

// Cancel ends a queued or in-progress call.
func (s *Service) Cancel(ctx context.Context, callID string) error {
	return s.finish(ctx, callID, (*Call).Cancel)
}

// Fail marks a queued or in-progress call as failed.
func (s *Service) Fail(ctx context.Context, callID string) error {
	return s.finish(ctx, callID, (*Call).Fail)
}

func (s *Service) finish(ctx context.Context, callID string, transition func(*Call, time.Time) error) error {
	call, ok, err := s.repo.FindByID(ctx, callID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	wasInProgress := call.Status == StatusInProgress

	if err := transition(&call, s.clock().UTC()); err != nil {
		return s.rejectTransition(ctx, callID, err)
	}
	if err := s.repo.Save(ctx, call); err != nil {
		return err
	}
	if wasInProgress {
		s.releaseSlot(ctx)
	}
	return nil
}

// rejectTransition logs a guard rejection and hands the typed error back to
// the caller. The call is never saved on this path.
func (s *Service) rejectTransition(ctx context.Context, callID string, err error) error {
	var ite *InvalidTransitionError
	if errors.As(err, &ite) {
		logger.From(ctx).Warn("call transition rejected",
			"call_id", callID,
			"op", ite.Op,
			"status", string(ite.Status),
		)
	}
	return err
}

func (s *Service) releaseSlot(ctx context.Context) {
	if s.slots == nil {
		return
	}
	if err := s.slots.Release(ctx); err != nil {
		logger.From(ctx).Warn("call slot release failed", "err", err)
	}
}

// Get returns a call by id.
func (s *Service) Get(ctx context.Context, callID string) (Call, error) {
	call, ok, err := s.repo.FindByID(ctx, callID)
	if err != nil {
		return Call{}, err
	}
	if !ok {
		return Call{}, ErrNotFound
	}
	return call, nil
}

// GetAll returns every call, order unspecified.
func (s *Service) GetAll(ctx context.Context) ([]Call, error) {
	return s.repo.FindAll(ctx)
}

// GetByCustomer returns all calls for a customer, empty if none.
func (s *Service) GetByCustomer(ctx context.Context, customerID string) ([]Call, error) {
	if customerID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.FindAllByCustomerID(ctx, customerID)
}
