package repository

import (
	"context"
	"sync"
	"time"

	"github.com/timvest/intake-server-go/internal/model"
)

type memoryApplicationRepo struct {
	mu   sync.RWMutex
	apps []model.Application
}

// NewMemoryApplicationRepository returns a process-local store. Contents are
// lost on restart.
func NewMemoryApplicationRepository() ApplicationRepository {
	return &memoryApplicationRepo{}
}

func (r *memoryApplicationRepo) Create(ctx context.Context, params model.CreateApplicationParams) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app := model.Application{
		ID:            int64(len(r.apps)) + 1,
		CompanyName:   params.CompanyName,
		ContactPerson: params.ContactPerson,
		Email:         params.Email,
		Phone:         params.Phone,
		CompanyType:   params.CompanyType,
		Services:      append([]string(nil), params.Services...),
		PaymentPlan:   params.PaymentPlan,
		Status:        params.Status,
		CreatedAt:     params.CreatedAt,
	}
	r.apps = append(r.apps, app)

	out := cloneApplication(app)
	return &out, nil
}

func (r *memoryApplicationRepo) FindAll(ctx context.Context) ([]model.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Application, len(r.apps))
	for i, app := range r.apps {
		out[i] = cloneApplication(app)
	}
	return out, nil
}

func (r *memoryApplicationRepo) FindByID(ctx context.Context, id int64) (*model.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, nil
	}
	out := cloneApplication(r.apps[idx])
	return &out, nil
}

func (r *memoryApplicationRepo) UpdateStatus(
	ctx context.Context,
	id int64,
	status model.ApplicationStatus,
	updatedAt time.Time,
	guard StatusGuard,
) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, nil
	}

	app := &r.apps[idx]
	if guard != nil {
		if err := guard(app.Status); err != nil {
			return nil, err
		}
	}
	app.Status = status
	app.UpdatedAt = &updatedAt

	out := cloneApplication(*app)
	return &out, nil
}

func (r *memoryApplicationRepo) Stats(ctx context.Context) (*model.ApplicationStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return tallyStats(r.apps), nil
}

// ids are assigned as position+1 and records are never deleted.
func (r *memoryApplicationRepo) indexOf(id int64) int {
	if id < 1 || id > int64(len(r.apps)) {
		return -1
	}
	return int(id - 1)
}
