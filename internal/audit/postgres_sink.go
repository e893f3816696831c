package audit

import (
	"context"
	"time"

	"github.com/yanun0323/errors"
	"gorm.io/gorm"
)

// OrderAudit is the table row written by PostgresSink.
type OrderAudit struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	Source     string    `gorm:"size:16;not null"`
	IndexID    string    `gorm:"size:40;not null;index:idx_order_audit_route"`
	VendorID   string    `gorm:"size:40;not null;index:idx_order_audit_route"`
	Vault      string    `gorm:"size:42;not null"`
	Trader     string    `gorm:"size:42;not null;index"`
	Collateral string    `gorm:"type:numeric(60,18);not null"`
	Spent      string    `gorm:"type:numeric(60,18);not null"`
	Minted     string    `gorm:"type:numeric(60,18);not null"`
	Locked     string    `gorm:"type:numeric(60,18);not null"`
	Burned     string    `gorm:"type:numeric(60,18);not null"`
	Withdraw   string    `gorm:"type:numeric(60,18);not null"`
	ObservedAt time.Time `gorm:"not null"`
}

// PostgresSink appends records to the order_audits table.
type PostgresSink struct {
	db *gorm.DB
}

// NewPostgresSink expects the OrderAudit table to be migrated already.
func NewPostgresSink(db *gorm.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Write(ctx context.Context, r Record) error {
	row := rowOf(r)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return errors.Wrap(err, "insert order audit")
	}
	return nil
}

func rowOf(r Record) OrderAudit {
	return OrderAudit{
		Source:     string(r.Source),
		IndexID:    r.IndexID,
		VendorID:   r.VendorID,
		Vault:      r.Vault.Hex(),
		Trader:     r.Trader.Hex(),
		Collateral: r.Order.Collateral.String(),
		Spent:      r.Order.Spent.String(),
		Minted:     r.Order.Minted.String(),
		Locked:     r.Order.Locked.String(),
		Burned:     r.Order.Burned.String(),
		Withdraw:   r.Order.Withdraw.String(),
		ObservedAt: r.ObservedAt.UTC(),
	}
}
