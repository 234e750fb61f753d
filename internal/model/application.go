package model

import (
	"time"
)

type Application struct {
	ID            int64             `db:"id" json:"id"`
	CompanyName   string            `db:"company_name" json:"companyName"`
	ContactPerson string            `db:"contact_person" json:"contactPerson"`
	Email         string            `db:"email" json:"email"`
	Phone         string            `db:"phone" json:"phone"`
	CompanyType   CompanyType       `db:"company_type" json:"companyType"`
	Services      []string          `db:"-" json:"services"`
	PaymentPlan   PaymentPlan       `db:"payment_plan" json:"paymentPlan"`
	Status        ApplicationStatus `db:"status" json:"status"`
	CreatedAt     time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt     *time.Time        `db:"updated_at" json:"updatedAt,omitempty"`
}

type CreateApplicationParams struct {
	CompanyName   string
	ContactPerson string
	Email         string
	Phone         string
	CompanyType   CompanyType
	Services      []string
	PaymentPlan   PaymentPlan
	Status        ApplicationStatus
	CreatedAt     time.Time
}

type ApplicationStats struct {
	TotalApplications int `json:"totalApplications"`
	Pending           int `json:"pending"`
	Approved          int `json:"approved"`
	Rejected          int `json:"rejected"`
}
