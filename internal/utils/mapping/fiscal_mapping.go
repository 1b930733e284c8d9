package mapping

import (
	"github.com/SscSPs/club_tab_app/internal/core/domain"
	"github.com/SscSPs/club_tab_app/internal/models"
)

func ToModelFiscalPeriod(d domain.FiscalPeriod) models.FiscalPeriod {
	return models.FiscalPeriod{
		PeriodID:  d.PeriodID,
		StartedAt: d.StartedAt,
		EndedAt:   toNullTime(d.EndedAt),
		CreatedAt: d.CreatedAt,
	}
}

func ToDomainFiscalPeriod(m models.FiscalPeriod) domain.FiscalPeriod {
	return domain.FiscalPeriod{
		PeriodID:  m.PeriodID,
		StartedAt: m.StartedAt,
		EndedAt:   fromNullTime(m.EndedAt),
		CreatedAt: m.CreatedAt,
	}
}

func ToModelFiscalDebt(d domain.FiscalDebt) models.FiscalDebt {
	return models.FiscalDebt{
		DebtID:     d.DebtID,
		PeriodID:   d.PeriodID,
		MemberID:   d.MemberID,
		Amount:     d.Amount,
		Status:     string(d.Status),
		PaidAt:     toNullTime(d.PaidAt),
		CreatedAt:  d.CreatedAt,
		MemberName: toNullString(d.MemberName),
	}
}

func ToDomainFiscalDebt(m models.FiscalDebt) domain.FiscalDebt {
	return domain.FiscalDebt{
		DebtID:     m.DebtID,
		PeriodID:   m.PeriodID,
		MemberID:   m.MemberID,
		Amount:     m.Amount,
		Status:     domain.DebtStatus(m.Status),
		PaidAt:     fromNullTime(m.PaidAt),
		CreatedAt:  m.CreatedAt,
		MemberName: fromNullString(m.MemberName),
	}
}
