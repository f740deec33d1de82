package repository

import (
	"parlay/application"
	"parlay/database"
	"parlay/domain/interfaces"
)

// NewTestUnitOfWorkFactory creates a unit of work factory for tests
// Tests should provide their own event publisher mock
func NewTestUnitOfWorkFactory(db *database.DB) *unitOfWorkFactory {
	return NewUnitOfWorkFactory(db)
}

// CreateTestUnitOfWork creates a unit of work for testing with the provided event publisher
func CreateTestUnitOfWork(db *database.DB, eventPublisher interfaces.EventPublisher) application.UnitOfWork {
	factory := NewTestUnitOfWorkFactory(db)
	return factory.CreateWithPublisher(eventPublisher)
}
