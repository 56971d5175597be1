package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferenceRoles are the person roles every catalog starts with
var ReferenceRoles = []PersonRole{
	{ID: RoleDirector, Description: "director"},
	{ID: RoleActor, Description: "actor"},
	{ID: RoleComposer, Description: "composer"},
}

// ReferenceStatuses are the movie statuses every catalog starts with
var ReferenceStatuses = []MovieStatus{
	{ID: StatusAnnounced, Description: "announced"},
	{ID: StatusInProduction, Description: "in production"},
	{ID: StatusPostProduction, Description: "post-production"},
	{ID: StatusReleased, Description: "released"},
}

// Seed inserts the reference roles and statuses. Existing rows are left alone,
// so running it repeatedly is safe.
func Seed(ctx context.Context, conn *gorm.DB) error {
	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles := append([]PersonRole(nil), ReferenceRoles...)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error; err != nil {
			return fmt.Errorf("failed to seed person roles: %w", err)
		}

		statuses := append([]MovieStatus(nil), ReferenceStatuses...)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&statuses).Error; err != nil {
			return fmt.Errorf("failed to seed movie statuses: %w", err)
		}
		return nil
	})
}
