package waitlist

import (
	"context"
	"errors"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/constants"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	msgJoined  = "You're on the waitlist!"
	msgUpdated = "You're already on the waitlist. We've updated your details."

	defaultThanksName = "there"
)

var tracer = otel.Tracer("github.com/akeren/waitlist-api/domain/waitlist")

type WaitlistService interface {
	// Signup admits or updates an entry and schedules the confirmation email.
	Signup(ctx context.Context, req *SignupRequest, clientIP string) (*SignupResponse, error)

	// GetStats returns landing page statistics, recomputed on every call.
	GetStats(ctx context.Context) (*StatsResponse, error)

	// GetThanks resolves a signup receipt into the thank-you payload. An
	// empty receipt yields a generic greeting.
	GetThanks(ctx context.Context, receipt string) (*ThanksResponse, error)
}

type ServiceConfig struct {
	EarlyAdopterLimit int
	Receipts          *ReceiptIssuer
	Metrics           *Metrics
}

type waitlistService struct {
	logger            *log.Logger
	repository        WaitlistRepository
	notifier          Notifier
	validator         *signupValidator
	earlyAdopterLimit int64
	receipts          *ReceiptIssuer
	metrics           *Metrics
}

func NewWaitlistService(logger *log.Logger, repository WaitlistRepository, notifier Notifier, cfg ServiceConfig) WaitlistService {
	limit := cfg.EarlyAdopterLimit
	if limit <= 0 {
		limit = constants.DefaultEarlyAdopterLimit
	}

	return &waitlistService{
		logger:            logger,
		repository:        repository,
		notifier:          notifier,
		validator:         newSignupValidator(),
		earlyAdopterLimit: int64(limit),
		receipts:          cfg.Receipts,
		metrics:           cfg.Metrics,
	}
}

func (s *waitlistService) Signup(ctx context.Context, req *SignupRequest, clientIP string) (*SignupResponse, error) {
	ctx, span := tracer.Start(ctx, "waitlist.Signup")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Signup received empty request")
		s.metrics.signup(outcomeRejected)
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	input, err := s.validator.Check(req)
	if err != nil {
		logger.Info("Signup rejected by validation", "fields", apperrors.GetValidationFields(err))
		s.metrics.signup(outcomeRejected)
		return nil, err
	}

	resp, err := s.admit(ctx, input, clientIP)
	if err != nil {
		logger.Error("Signup failed", "email", input.Email, "error", err)
		s.metrics.signup(outcomeFailed)
		recordSpanError(span, err)
		return nil, err
	}

	if resp.IsNewUser {
		s.metrics.signup(outcomeCreated)
	} else {
		s.metrics.signup(outcomeUpdated)
	}
	span.SetAttributes(
		attribute.Bool("waitlist.is_new_user", resp.IsNewUser),
		attribute.Bool("waitlist.is_early_adopter", resp.IsEarlyAdopter),
		attribute.Int64("waitlist.position", resp.Position),
	)

	logger.Info("Signup accepted",
		"email", input.Email,
		"is_new_user", resp.IsNewUser,
		"is_early_adopter", resp.IsEarlyAdopter,
		"position", resp.Position,
	)

	s.notifier.Dispatch(ctx, Confirmation{
		Email:          resp.Entry.Email,
		Name:           resp.Entry.Name,
		Role:           resp.Entry.Role,
		IsEarlyAdopter: resp.IsEarlyAdopter,
		IsNewUser:      resp.IsNewUser,
		Position:       resp.Position,
		TotalUsers:     resp.TotalUsers,
	})

	return resp, nil
}

// admit runs the store side of a signup. The count taken before the upsert
// decides early-adopter status, so concurrent creations near the limit can
// both qualify; the flag is never revisited afterwards.
func (s *waitlistService) admit(ctx context.Context, input *signupInput, clientIP string) (*SignupResponse, error) {
	total, err := s.repository.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	entry, created, err := s.repository.Upsert(ctx, UpsertCommand{
		Email:          input.Email,
		Name:           input.Name,
		Role:           input.Role,
		Source:         input.Source,
		IsEarlyAdopter: total < s.earlyAdopterLimit,
		IPAddress:      clientIP,
	})
	if err != nil {
		return nil, err
	}

	ahead, err := s.repository.CountBefore(ctx, entry.CreatedAt)
	if err != nil {
		return nil, err
	}

	totalUsers, err := s.repository.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := &SignupResponse{
		Entry:          ToEntryResponse(entry),
		IsNewUser:      created,
		IsEarlyAdopter: entry.IsEarlyAdopter,
		Position:       ahead + 1,
		TotalUsers:     totalUsers,
		Message:        msgUpdated,
	}
	if created {
		resp.Message = msgJoined
	}
	resp.Receipt = s.issueReceipt(ctx, entry)

	return resp, nil
}

func (s *waitlistService) issueReceipt(ctx context.Context, entry *models.WaitlistEntry) string {
	if s.receipts == nil {
		return ""
	}

	receipt, err := s.receipts.Issue(entry.Email, entry.Name, entry.IsEarlyAdopter)
	if err != nil {
		log.GetLoggerInstanceFromContext(ctx, s.logger).Error("Failed to issue signup receipt", "error", err)
		return ""
	}
	return receipt
}

func (s *waitlistService) GetStats(ctx context.Context) (*StatsResponse, error) {
	ctx, span := tracer.Start(ctx, "waitlist.GetStats")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	total, err := s.repository.CountAll(ctx)
	if err != nil {
		logger.Error("Failed to count waitlist entries", "error", err)
		recordSpanError(span, err)
		return nil, err
	}

	coaches, err := s.repository.CountByRole(ctx, models.RoleCoach)
	if err != nil {
		logger.Error("Failed to count coaches", "error", err)
		recordSpanError(span, err)
		return nil, err
	}

	early, err := s.repository.CountEarlyAdopters(ctx)
	if err != nil {
		logger.Error("Failed to count early adopters", "error", err)
		recordSpanError(span, err)
		return nil, err
	}

	stats := &StatsResponse{
		Total:          total,
		Coaches:        coaches,
		EarlyAdopters:  early,
		RemainingSpots: max(0, s.earlyAdopterLimit-early),
	}
	s.metrics.observeStats(stats)

	return stats, nil
}

func (s *waitlistService) GetThanks(ctx context.Context, receipt string) (*ThanksResponse, error) {
	ctx, span := tracer.Start(ctx, "waitlist.GetThanks")
	defer span.End()

	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	stats, err := s.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	resp := &ThanksResponse{Name: defaultThanksName, Stats: *stats}
	if receipt == "" {
		return resp, nil
	}

	if s.receipts == nil {
		return nil, NewInvalidReceiptError(nil)
	}

	claims, err := s.receipts.Parse(receipt)
	if err != nil {
		logger.Info("Rejected thank-you receipt", "error", err)
		return nil, NewInvalidReceiptError(err)
	}

	entry, err := s.repository.FindByEmail(ctx, claims.Subject)
	if err != nil {
		if apperrors.GetErrorType(err) == apperrors.ErrorTypeNotFound {
			return nil, NewInvalidReceiptError(err)
		}
		logger.Error("Failed to resolve thank-you receipt", "error", err)
		recordSpanError(span, err)
		return nil, err
	}

	ahead, err := s.repository.CountBefore(ctx, entry.CreatedAt)
	if err != nil {
		logger.Error("Failed to compute waitlist position", "error", err)
		recordSpanError(span, err)
		return nil, err
	}

	resp.Name = entry.Name
	if resp.Name == "" {
		resp.Name = defaultThanksName
	}
	resp.Email = entry.Email
	resp.Position = ahead + 1
	resp.IsEarlyAdopter = entry.IsEarlyAdopter

	return resp, nil
}

func recordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		span.SetStatus(codes.Error, appErr.Type)
		return
	}
	span.SetStatus(codes.Error, "error")
}
