package repository

import (
	"github.com/accountech/financeos/backend/internal/domain/account"
	"github.com/accountech/financeos/backend/internal/domain/business"
	"github.com/accountech/financeos/backend/internal/domain/category"
	"github.com/accountech/financeos/backend/internal/domain/ledger"
	"github.com/accountech/financeos/backend/internal/platform/dynamodb/client"
)

// Factory creates repository instances
type Factory struct {
	client    client.Client
	tableName string
}

// NewFactory creates a new repository factory
func NewFactory(client client.Client, tableName string) *Factory {
	return &Factory{
		client:    client,
		tableName: tableName,
	}
}

// BusinessRepository returns an implementation of the business.Repository interface
func (f *Factory) BusinessRepository() business.Repository {
	return NewDynamoDBBusinessRepository(f.client, f.tableName)
}

// AccountRepository returns an implementation of the account.Repository interface
func (f *Factory) AccountRepository() account.Repository {
	return NewDynamoDBAccountRepository(f.client, f.tableName)
}

// CategoryRepository returns an implementation of the category.Repository interface
func (f *Factory) CategoryRepository() category.Repository {
	return NewDynamoDBCategoryRepository(f.client, f.tableName)
}

// LedgerRepository returns an implementation of the ledger.Repository interface
func (f *Factory) LedgerRepository() ledger.Repository {
	return NewDynamoDBLedgerRepository(f.client, f.tableName)
}
