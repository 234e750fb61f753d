package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/timvest/intake-server-go/internal/errors"
	"github.com/timvest/intake-server-go/internal/model"
	"github.com/timvest/intake-server-go/internal/repository"
	"github.com/timvest/intake-server-go/internal/util"
)

type SubmitApplicationInput struct {
	CompanyName   string   `json:"companyName"`
	ContactPerson string   `json:"contactPerson"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	CompanyType   string   `json:"companyType"`
	Services      []string `json:"services"`
	PaymentPlan   string   `json:"paymentPlan"`
}

// Validate applies presence checks plus the enumerated company type and payment
// plan. It returns field -> reason for every failing field.
func (in SubmitApplicationInput) Validate() map[string]string {
	problems := map[string]string{}

	required := []struct {
		field string
		value string
	}{
		{"companyName", in.CompanyName},
		{"contactPerson", in.ContactPerson},
		{"email", in.Email},
		{"phone", in.Phone},
		{"companyType", in.CompanyType},
		{"paymentPlan", in.PaymentPlan},
	}
	for _, r := range required {
		if util.IsBlank(r.value) {
			problems[r.field] = "is required"
		}
	}

	if _, ok := problems["companyType"]; !ok && !model.CompanyType(in.CompanyType).IsValid() {
		problems["companyType"] = "must be one of PTY, NPC, CC, NPO"
	}
	if _, ok := problems["paymentPlan"]; !ok && !model.PaymentPlan(in.PaymentPlan).IsValid() {
		problems["paymentPlan"] = "must be one of annual, monthly"
	}

	services := 0
	for _, s := range in.Services {
		if !util.IsBlank(s) {
			services++
		}
	}
	if services == 0 {
		problems["services"] = "at least one service is required"
	}

	return problems
}

type ApplicationService struct {
	repo            repository.ApplicationRepository
	notifier        Notifier
	allowRedecision bool
	now             func() time.Time
}

// NewApplicationService wires the intake and decision operations. With
// allowRedecision false a decided application cannot change status again.
func NewApplicationService(repo repository.ApplicationRepository, notifier Notifier, allowRedecision bool) *ApplicationService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &ApplicationService{
		repo:            repo,
		notifier:        notifier,
		allowRedecision: allowRedecision,
		now:             time.Now,
	}
}

// Submit always creates a new pending record; identical submissions are not
// deduplicated.
func (s *ApplicationService) Submit(ctx context.Context, input SubmitApplicationInput) (*model.Application, error) {
	if problems := input.Validate(); len(problems) > 0 {
		return nil, apperrors.ValidationError("Validation failed").WithDetails(problems)
	}

	services := make([]string, 0, len(input.Services))
	for _, svc := range input.Services {
		if svc = strings.TrimSpace(svc); svc != "" {
			services = append(services, svc)
		}
	}

	app, err := s.repo.Create(ctx, model.CreateApplicationParams{
		CompanyName:   strings.TrimSpace(input.CompanyName),
		ContactPerson: strings.TrimSpace(input.ContactPerson),
		Email:         strings.TrimSpace(input.Email),
		Phone:         strings.TrimSpace(input.Phone),
		CompanyType:   model.CompanyType(input.CompanyType),
		Services:      services,
		PaymentPlan:   model.PaymentPlan(input.PaymentPlan),
		Status:        model.ApplicationStatusPending,
		CreatedAt:     s.now().UTC(),
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	if err := s.notifier.ApplicationReceived(ctx, app); err != nil {
		log.Warn().Err(err).Int64("applicationId", app.ID).Msg("failed to send application confirmation")
	}

	return app, nil
}

func (s *ApplicationService) List(ctx context.Context) ([]model.Application, error) {
	apps, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if apps == nil {
		apps = []model.Application{}
	}
	return apps, nil
}

func (s *ApplicationService) UpdateStatus(ctx context.Context, id int64, status string) (*model.Application, error) {
	target := model.ApplicationStatus(status)
	if !target.IsValid() {
		return nil, apperrors.InvalidInput("status", "must be one of pending, approved, rejected")
	}

	app, err := s.repo.UpdateStatus(ctx, id, target, s.now().UTC(), s.transitionGuard(target))
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Database(err)
	}
	if app == nil {
		return nil, apperrors.NotFound("Application")
	}
	return app, nil
}

func (s *ApplicationService) Stats(ctx context.Context) (*model.ApplicationStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return stats, nil
}

// transitionGuard permits pending -> approved|rejected. Re-decision mode lets
// any valid status replace any other.
func (s *ApplicationService) transitionGuard(target model.ApplicationStatus) repository.StatusGuard {
	return func(current model.ApplicationStatus) error {
		if s.allowRedecision {
			return nil
		}
		if current != model.ApplicationStatusPending || !target.IsTerminal() {
			return apperrors.InvalidTransition(string(current), string(target))
		}
		return nil
	}
}

// ParseApplicationID parses a path id; anything that is not a positive integer
// cannot name a record.
func ParseApplicationID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.NotFound("Application")
	}
	return id, nil
}
