package repository

import (
	"context"
	"time"

	"github.com/timvest/intake-server-go/internal/model"
)

// StatusGuard inspects the current status before an update is applied. It runs
// while the record is locked, so a returned error aborts the update and leaves
// the record unchanged.
type StatusGuard func(current model.ApplicationStatus) error

// ApplicationRepository is the store behind the intake and admin services.
// FindByID and UpdateStatus return (nil, nil) when no record has the id.
type ApplicationRepository interface {
	Create(ctx context.Context, params model.CreateApplicationParams) (*model.Application, error)
	FindAll(ctx context.Context) ([]model.Application, error)
	FindByID(ctx context.Context, id int64) (*model.Application, error)
	UpdateStatus(ctx context.Context, id int64, status model.ApplicationStatus, updatedAt time.Time, guard StatusGuard) (*model.Application, error)
	Stats(ctx context.Context) (*model.ApplicationStats, error)
}

func tallyStats(apps []model.Application) *model.ApplicationStats {
	stats := &model.ApplicationStats{TotalApplications: len(apps)}
	for _, app := range apps {
		switch app.Status {
		case model.ApplicationStatusPending:
			stats.Pending++
		case model.ApplicationStatusApproved:
			stats.Approved++
		case model.ApplicationStatusRejected:
			stats.Rejected++
		}
	}
	return stats
}

func cloneApplication(app model.Application) model.Application {
	if app.Services != nil {
		app.Services = append([]string(nil), app.Services...)
	}
	if app.UpdatedAt != nil {
		t := *app.UpdatedAt
		app.UpdatedAt = &t
	}
	return app
}
