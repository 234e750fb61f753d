package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/timvest/intake-server-go/internal/database"
	"github.com/timvest/intake-server-go/internal/model"
)

const applicationColumns = `id, company_name, contact_person, email, phone, company_type, services, payment_plan, status, created_at, updated_at`

// applicationRow carries the services array in a pq-scannable form.
type applicationRow struct {
	model.Application
	Services pq.StringArray `db:"services"`
}

func (row applicationRow) toModel() model.Application {
	app := row.Application
	app.Services = []string(row.Services)
	if app.Services == nil {
		app.Services = []string{}
	}
	return app
}

type postgresApplicationRepo struct {
	db *database.DB
}

func NewPostgresApplicationRepository(db *database.DB) ApplicationRepository {
	return &postgresApplicationRepo{db: db}
}

func (r *postgresApplicationRepo) Create(ctx context.Context, params model.CreateApplicationParams) (*model.Application, error) {
	var row applicationRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO applications (
			company_name, contact_person, email, phone, company_type,
			services, payment_plan, status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+applicationColumns,
		params.CompanyName, params.ContactPerson, params.Email, params.Phone, params.CompanyType,
		pq.Array(params.Services), params.PaymentPlan, params.Status, params.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	app := row.toModel()
	return &app, nil
}

func (r *postgresApplicationRepo) FindAll(ctx context.Context) ([]model.Application, error) {
	var rows []applicationRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+applicationColumns+` FROM applications
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}

	apps := make([]model.Application, len(rows))
	for i, row := range rows {
		apps[i] = row.toModel()
	}
	return apps, nil
}

func (r *postgresApplicationRepo) FindByID(ctx context.Context, id int64) (*model.Application, error) {
	var row applicationRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+applicationColumns+` FROM applications
		WHERE id = $1
	`, id)
	found, err := HandleNotFound(&row, err)
	if err != nil || found == nil {
		return nil, err
	}
	app := found.toModel()
	return &app, nil
}

func (r *postgresApplicationRepo) UpdateStatus(
	ctx context.Context,
	id int64,
	status model.ApplicationStatus,
	updatedAt time.Time,
	guard StatusGuard,
) (*model.Application, error) {
	var updated *model.Application

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var current applicationRow
		err := tx.GetContext(ctx, &current, `
			SELECT `+applicationColumns+` FROM applications
			WHERE id = $1
			FOR UPDATE
		`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		if guard != nil {
			if err := guard(current.Status); err != nil {
				return err
			}
		}

		var row applicationRow
		err = tx.GetContext(ctx, &row, `
			UPDATE applications SET status = $2, updated_at = $3
			WHERE id = $1
			RETURNING `+applicationColumns,
			id, status, updatedAt,
		)
		if err != nil {
			return err
		}
		app := row.toModel()
		updated = &app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *postgresApplicationRepo) Stats(ctx context.Context) (*model.ApplicationStats, error) {
	var stats model.ApplicationStats
	err := r.db.QueryRowxContext(ctx, `
		SELECT
			COUNT(*) as total,
			COUNT(*) FILTER (WHERE status = 'pending') as pending,
			COUNT(*) FILTER (WHERE status = 'approved') as approved,
			COUNT(*) FILTER (WHERE status = 'rejected') as rejected
		FROM applications
	`).Scan(&stats.TotalApplications, &stats.Pending, &stats.Approved, &stats.Rejected)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
