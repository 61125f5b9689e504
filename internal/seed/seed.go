// Package seed provisions reference data and the bootstrap admin so a
// fresh installation is usable without manual SQL.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	orgdomain "github.com/axel-paillaud/ticketsync/internal/organization/domain"
	"github.com/axel-paillaud/ticketsync/internal/password"
	ticketdomain "github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var defaultStatuses = []ticketdomain.Status{
	{Name: "Open", Slug: "open", Color: "#2563eb", SortOrder: 1},
	{Name: "In progress", Slug: "in-progress", Color: "#d97706", SortOrder: 2},
	{Name: "Resolved", Slug: "resolved", Color: "#16a34a", IsClosed: true, SortOrder: 3},
	{Name: "Closed", Slug: "closed", Color: "#6b7280", IsClosed: true, SortOrder: 4},
}

var defaultPriorities = []ticketdomain.Priority{
	{Name: "low", Level: 1, Color: "#6b7280", Label: "Low"},
	{Name: "normal", Level: 2, Color: "#2563eb", Label: "Normal"},
	{Name: "high", Level: 3, Color: "#d97706", Label: "High"},
	{Name: "urgent", Level: 4, Color: "#dc2626", Label: "Urgent"},
}

// EnsureReferenceData inserts the status and priority rows tickets
// depend on. Existing rows are left untouched.
func EnsureReferenceData(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, status := range defaultStatuses {
			var existing ticketdomain.Status
			err := tx.Where("slug = ?", status.Slug).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			status.ID = node.Generate()
			if err := tx.Create(&status).Error; err != nil {
				return err
			}
		}

		for _, priority := range defaultPriorities {
			var existing ticketdomain.Priority
			err := tx.Where("name = ?", priority.Name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			priority.ID = node.Generate()
			if err := tx.Create(&priority).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureBootstrapOrgAndAdmin seeds a default organization and a
// verified admin account for self-hosted setups.
func EnsureBootstrapOrgAndAdmin(db *gorm.DB, node *snowflake.Node, orgName, adminEmail, adminPassword string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	adminEmail = strings.ToLower(strings.TrimSpace(adminEmail))
	if adminEmail == "" {
		return errors.New("bootstrap admin email is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ensureOrgTx(ctx, tx, node, orgName)
		if err != nil {
			return err
		}

		var user userdomain.User
		err = tx.WithContext(ctx).Where("email = ?", adminEmail).First(&user).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := password.Hash(adminPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user = userdomain.User{
			ID:           node.Generate(),
			Email:        adminEmail,
			FirstName:    "Admin",
			Role:         userdomain.RoleAdmin,
			OrgID:        org.ID,
			PasswordHash: hashed,
			IsVerified:   true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return tx.WithContext(ctx).Create(&user).Error
	})
}

func ensureOrgTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, name string) (*orgdomain.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Main"
	}
	orgSlug := slug.Make(name)

	var org orgdomain.Organization
	err := tx.WithContext(ctx).Where("slug = ?", orgSlug).First(&org).Error
	if err == nil {
		return &org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	org = orgdomain.Organization{
		ID:         node.Generate(),
		Name:       name,
		Slug:       orgSlug,
		IsActive:   true,
		HourlyRate: 80.00,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}
