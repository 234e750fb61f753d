package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/timvest/intake-server-go/internal/model"
	redisclient "github.com/timvest/intake-server-go/internal/redis"
)

const maxUpdateRetries = 5

type redisApplicationRepo struct {
	client *goredis.Client
}

// NewRedisApplicationRepository stores each application as a JSON value keyed
// by id, with a list of ids preserving insertion order. Create reserves the id
// with INCR before writing, so a failed write leaves a gap in the sequence; ids
// remain unique and increasing.
func NewRedisApplicationRepository(client *goredis.Client) ApplicationRepository {
	return &redisApplicationRepo{client: client}
}

func (r *redisApplicationRepo) Create(ctx context.Context, params model.CreateApplicationParams) (*model.Application, error) {
	id, err := r.client.Incr(ctx, redisclient.ApplicationSequenceKey).Result()
	if err != nil {
		return nil, fmt.Errorf("next application id: %w", err)
	}

	app := model.Application{
		ID:            id,
		CompanyName:   params.CompanyName,
		ContactPerson: params.ContactPerson,
		Email:         params.Email,
		Phone:         params.Phone,
		CompanyType:   params.CompanyType,
		Services:      append([]string{}, params.Services...),
		PaymentPlan:   params.PaymentPlan,
		Status:        params.Status,
		CreatedAt:     params.CreatedAt,
	}
	data, err := json.Marshal(app)
	if err != nil {
		return nil, err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, redisclient.ApplicationKey(id), data, 0)
		pipe.RPush(ctx, redisclient.ApplicationIndexKey, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store application: %w", err)
	}
	return &app, nil
}

func (r *redisApplicationRepo) FindAll(ctx context.Context) ([]model.Application, error) {
	ids, err := r.client.LRange(ctx, redisclient.ApplicationIndexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Application{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisclient.ApplicationRecordPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	apps := make([]model.Application, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("application %s missing from store", ids[i])
		}
		var app model.Application
		if err := json.Unmarshal([]byte(raw), &app); err != nil {
			return nil, fmt.Errorf("decode application %s: %w", ids[i], err)
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func (r *redisApplicationRepo) FindByID(ctx context.Context, id int64) (*model.Application, error) {
	raw, err := r.client.Get(ctx, redisclient.ApplicationKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var app model.Application
	if err := json.Unmarshal(raw, &app); err != nil {
		return nil, fmt.Errorf("decode application %d: %w", id, err)
	}
	return &app, nil
}

func (r *redisApplicationRepo) UpdateStatus(
	ctx context.Context,
	id int64,
	status model.ApplicationStatus,
	updatedAt time.Time,
	guard StatusGuard,
) (*model.Application, error) {
	key := redisclient.ApplicationKey(id)
	var updated *model.Application

	txf := func(tx *goredis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, goredis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		var app model.Application
		if err := json.Unmarshal(raw, &app); err != nil {
			return fmt.Errorf("decode application %d: %w", id, err)
		}

		if guard != nil {
			if err := guard(app.Status); err != nil {
				return err
			}
		}

		app.Status = status
		app.UpdatedAt = &updatedAt
		data, err := json.Marshal(app)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &app
		return nil
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("update application %d: too much contention", id)
}

func (r *redisApplicationRepo) Stats(ctx context.Context) (*model.ApplicationStats, error) {
	apps, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return tallyStats(apps), nil
}
