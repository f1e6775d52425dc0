package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"strings"

	"gorm.io/gorm"

	apperrors "bites4life/internal/errors"
	"bites4life/internal/model"
	"bites4life/internal/repository"
)

const (
	minRiderCode = 1000
	maxRiderCode = 9999

	defaultCodeAttempts = 10
)

// CodeGenerator draws a candidate rider code.
type CodeGenerator func() string

// RandomCode draws uniformly from [1000, 9999].
func RandomCode() string {
	return strconv.Itoa(minRiderCode + rand.Intn(maxRiderCode-minRiderCode+1))
}

// RiderService drives the rider state machine against the store.
type RiderService interface {
	AddRider(ctx context.Context, name string) (*model.Rider, error)
	// CheckCode returns the rider for code. When device is non-empty and
	// device registration is enabled it is recorded as the rider's device first.
	CheckCode(ctx context.Context, code, device string) (*model.Rider, error)
	ListRiders(ctx context.Context) ([]model.Rider, error)
	DeleteRider(ctx context.Context, code string) error
	ReportStatus(ctx context.Context, code string, status model.Status) error
	MarkOnRoute(ctx context.Context, code string) error
	Ring(ctx context.Context, code string) error
	StopRing(ctx context.Context, code string) error
}

// RiderServiceOptions tunes a RiderService. Zero values select defaults.
type RiderServiceOptions struct {
	Clock           Clock
	Stamps          StampFormatter
	GenerateCode    CodeGenerator
	MaxCodeAttempts int
	RegisterDevice  bool
}

type riderService struct {
	repo           repository.RiderRepository
	clock          Clock
	stamps         StampFormatter
	generateCode   CodeGenerator
	maxAttempts    int
	registerDevice bool
}

// NewRiderService creates a new rider service.
func NewRiderService(repo repository.RiderRepository, opts RiderServiceOptions) RiderService {
	s := &riderService{
		repo:           repo,
		clock:          opts.Clock,
		stamps:         opts.Stamps,
		generateCode:   opts.GenerateCode,
		maxAttempts:    opts.MaxCodeAttempts,
		registerDevice: opts.RegisterDevice,
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.stamps.loc == nil {
		s.stamps = NewStampFormatter(nil, "")
	}
	if s.generateCode == nil {
		s.generateCode = RandomCode
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = defaultCodeAttempts
	}
	return s
}

// AddRider creates a rider under a freshly drawn code, redrawing on collision
// until the attempt budget runs out.
func (s *riderService) AddRider(ctx context.Context, name string) (*model.Rider, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.BadRequest("name is required")
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		rider := model.NewRider(name, s.generateCode(), s.clock.Now())
		err := s.repo.Create(ctx, rider)
		if err == nil {
			return rider, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicateCode) {
			return nil, err
		}
		log.Printf("rider code %s taken, redrawing (attempt %d/%d)", rider.Code, attempt, s.maxAttempts)
	}
	return nil, apperrors.ErrCodeSpaceExhausted
}

func (s *riderService) CheckCode(ctx context.Context, code, device string) (*model.Rider, error) {
	if s.registerDevice && strings.TrimSpace(device) != "" {
		found, err := s.repo.ApplyByCode(ctx, code, map[string]interface{}{"device_info": device})
		if err != nil {
			return nil, fmt.Errorf("register device: %w", err)
		}
		if !found {
			return nil, apperrors.ErrRiderNotFound
		}
	}

	rider, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRiderNotFound
		}
		return nil, err
	}
	return rider, nil
}

func (s *riderService) ListRiders(ctx context.Context) ([]model.Rider, error) {
	return s.repo.List(ctx)
}

func (s *riderService) DeleteRider(ctx context.Context, code string) error {
	deleted, err := s.repo.DeleteByCode(ctx, code)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.ErrRiderNotFound
	}
	return nil
}

// ReportStatus accepts any non-empty status, including "On Route"; only the
// admin path stamps a_time.
func (s *riderService) ReportStatus(ctx context.Context, code string, status model.Status) error {
	if !status.Valid() {
		return apperrors.BadRequest("status is required")
	}
	return s.apply(ctx, code, ReportStatusTransition(status, s.clock.Now(), s.stamps))
}

func (s *riderService) MarkOnRoute(ctx context.Context, code string) error {
	return s.apply(ctx, code, MarkOnRouteTransition(s.clock.Now(), s.stamps))
}

func (s *riderService) Ring(ctx context.Context, code string) error {
	return s.apply(ctx, code, RingTransition())
}

func (s *riderService) StopRing(ctx context.Context, code string) error {
	return s.apply(ctx, code, StopRingTransition())
}

func (s *riderService) apply(ctx context.Context, code string, t Transition) error {
	if strings.TrimSpace(code) == "" {
		return apperrors.BadRequest("code is required")
	}
	found, err := s.repo.ApplyByCode(ctx, code, t.Columns())
	if err != nil {
		return fmt.Errorf("update rider %s: %w", code, err)
	}
	if !found {
		return apperrors.ErrRiderNotFound
	}
	return nil
}
