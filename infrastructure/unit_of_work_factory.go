package infrastructure

import (
	"parlay/application"
	"parlay/database"
	"parlay/domain/interfaces"
	"parlay/repository"
)

// repositoryFactory is satisfied by the postgres repository factory
type repositoryFactory interface {
	CreateWithPublisher(eventPublisher interfaces.EventPublisher) application.UnitOfWork
	Readers() application.Repositories
}

// UnitOfWorkFactory implements the application.UnitOfWorkFactory interface.
// It creates UnitOfWork instances that handle both database transactions and event publishing.
type UnitOfWorkFactory struct {
	repoFactory    repositoryFactory
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		repoFactory:    repository.NewUnitOfWorkFactory(db),
		eventPublisher: eventPublisher,
	}
}

// Create creates a new UnitOfWork with a transactional event publisher
func (f *UnitOfWorkFactory) Create() application.UnitOfWork {
	transactionalPublisher := NewNATSTransactionalPublisher(f.eventPublisher)

	return &unitOfWork{
		inner:                  f.repoFactory.CreateWithPublisher(transactionalPublisher),
		transactionalPublisher: transactionalPublisher,
	}
}

// Readers returns repositories for reads outside any transaction
func (f *UnitOfWorkFactory) Readers() application.Repositories {
	return f.repoFactory.Readers()
}
