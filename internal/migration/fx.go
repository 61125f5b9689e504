package migration

import (
	"github.com/axel-paillaud/ticketsync/internal/config"
	orgdomain "github.com/axel-paillaud/ticketsync/internal/organization/domain"
	"github.com/axel-paillaud/ticketsync/internal/seed"
	ticketdomain "github.com/axel-paillaud/ticketsync/internal/ticket/domain"
	tedomain "github.com/axel-paillaud/ticketsync/internal/timeentry/domain"
	userdomain "github.com/axel-paillaud/ticketsync/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql dev setups skip versioned migrations.
			if err := conn.AutoMigrate(
				&orgdomain.Organization{},
				&userdomain.User{},
				&userdomain.UserInvitation{},
				&ticketdomain.Status{},
				&ticketdomain.Priority{},
				&ticketdomain.Ticket{},
				&ticketdomain.Comment{},
				&ticketdomain.Attachment{},
				&tedomain.TimeEntry{},
			); err != nil {
				return err
			}
		}

		if err := seed.EnsureReferenceData(conn, node); err != nil {
			return err
		}
		if cfg.BootstrapAdmin {
			return seed.EnsureBootstrapOrgAndAdmin(conn, node,
				cfg.BootstrapOrgName, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
		}
		return nil
	}),
)
