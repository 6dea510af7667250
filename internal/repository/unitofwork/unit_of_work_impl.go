package unitofwork

import (
	"context"
	"errors"
	"fmt"

	"ai-coach-be/internal/repository/contract"
	"ai-coach-be/internal/repository/implementation"

	"gorm.io/gorm"
)

var (
	ErrTxInProgress = errors.New("unitofwork: transaction already in progress")
	ErrNoTx         = errors.New("unitofwork: no transaction in progress")
)

// UnitOfWorkImpl is not safe for concurrent use. Callers get a fresh one
// from the factory per request.
type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{db: db}
}

func (u *UnitOfWorkImpl) conn() *gorm.DB {
	if u.tx == nil {
		return u.db
	}
	return u.tx
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTxInProgress
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	return u.finish(func(tx *gorm.DB) *gorm.DB { return tx.Commit() })
}

func (u *UnitOfWorkImpl) Rollback() error {
	return u.finish(func(tx *gorm.DB) *gorm.DB { return tx.Rollback() })
}

// finish ends the transaction either way and detaches it, so the
// repositories fall back to the plain connection.
func (u *UnitOfWorkImpl) finish(end func(*gorm.DB) *gorm.DB) error {
	if u.tx == nil {
		return ErrNoTx
	}
	tx := u.tx
	u.tx = nil
	return end(tx).Error
}

func (u *UnitOfWorkImpl) AthleteRepository() contract.AthleteRepository {
	return implementation.NewAthleteRepository(u.conn())
}

func (u *UnitOfWorkImpl) ActivityRepository() contract.ActivityRepository {
	return implementation.NewActivityRepository(u.conn())
}

func (u *UnitOfWorkImpl) TrainingPlanRepository() contract.TrainingPlanRepository {
	return implementation.NewTrainingPlanRepository(u.conn())
}

func (u *UnitOfWorkImpl) MemoryRepository() contract.MemoryRepository {
	return implementation.NewMemoryRepository(u.conn())
}

func (u *UnitOfWorkImpl) DecisionLogRepository() contract.DecisionLogRepository {
	return implementation.NewDecisionLogRepository(u.conn())
}
