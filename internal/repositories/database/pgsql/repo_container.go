package pgsql

import (
	portsrepo "github.com/SscSPs/club_tab_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool PgxPool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:    NewBaseRepository(dbPool),
		MemberRepo:   newPgxMemberRepository(dbPool),
		TxRepo:       newPgxTransactionRepository(dbPool),
		FiscalRepo:   newPgxFiscalRepository(dbPool),
		ProductRepo:  newPgxProductRepository(dbPool),
		TemplateRepo: newPgxMessageTemplateRepository(dbPool),
	}
}
