package model

type CompanyType string

const (
	CompanyTypePTY CompanyType = "PTY"
	CompanyTypeNPC CompanyType = "NPC"
	CompanyTypeCC  CompanyType = "CC"
	CompanyTypeNPO CompanyType = "NPO"
)

func (t CompanyType) IsValid() bool {
	switch t {
	case CompanyTypePTY, CompanyTypeNPC, CompanyTypeCC, CompanyTypeNPO:
		return true
	}
	return false
}

type PaymentPlan string

const (
	PaymentPlanAnnual  PaymentPlan = "annual"
	PaymentPlanMonthly PaymentPlan = "monthly"
)

func (p PaymentPlan) IsValid() bool {
	return p == PaymentPlanAnnual || p == PaymentPlanMonthly
}

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status is a decision.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

const RoleAdmin = "admin"
