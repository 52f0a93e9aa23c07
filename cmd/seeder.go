package cmd

import (
	"fmt"

	"github.com/frahmantamala/leave-management/internal/core/database"
	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the employee roster",
	Long:  `Seed the employee directory with the organisation roster. Existing employees are left untouched unless --clear is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log := logger.LoggerWrapper()

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer sqlxDB.Close()

		db, err := database.Open(sqlxDB.DB)
		if err != nil {
			return err
		}

		return db.Transaction(func(tx *gorm.DB) error {
			if clearData {
				if err := tx.Exec("DELETE FROM leave_applications").Error; err != nil {
					return fmt.Errorf("failed to clear leave applications: %w", err)
				}
				if err := tx.Exec("DELETE FROM employees").Error; err != nil {
					return fmt.Errorf("failed to clear employees: %w", err)
				}
				log.Info("cleared existing leave data")
			}

			inserted := 0
			for _, e := range employee.Roster() {
				row := employee.ToDataModel(e)
				res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row)
				if res.Error != nil {
					return fmt.Errorf("failed to insert employee %s: %w", e.Email, res.Error)
				}
				if res.RowsAffected == 1 {
					inserted++
					log.Info("seeded employee", "id", e.ID, "email", e.Email, "role", e.Role)
				}
			}

			// explicit ids bypass the sequence
			if err := tx.Exec("SELECT setval(pg_get_serial_sequence('employees', 'id'), (SELECT COALESCE(MAX(id), 1) FROM employees))").Error; err != nil {
				return fmt.Errorf("failed to reset employee id sequence: %w", err)
			}

			log.Info("employee roster seeded", "inserted", inserted, "roster_size", len(employee.Roster()))
			return nil
		})
	},
}
