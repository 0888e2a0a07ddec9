package db

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/model"
)

// Seed loads the demo fixture into an empty database. It is a no-op when
// profiles already exist.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Profile{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		profiles := FixtureProfiles()
		if err := tx.Create(&profiles).Error; err != nil {
			return fmt.Errorf("profiles: %w", err)
		}
		contracts := FixtureContracts()
		if err := tx.Create(&contracts).Error; err != nil {
			return fmt.Errorf("contracts: %w", err)
		}
		jobs := FixtureJobs()
		if err := tx.Create(&jobs).Error; err != nil {
			return fmt.Errorf("jobs: %w", err)
		}

		if tx.Dialector.Name() != "postgres" {
			return nil
		}
		for _, table := range []string{"profiles", "contracts", "jobs"} {
			stmt := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))`, table, table)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("reset %s sequence: %w", table, err)
			}
		}
		return nil
	})
}

func FixtureProfiles() []model.Profile {
	return []model.Profile{
		{ID: 1, FirstName: "Harry", LastName: "Potter", Profession: "Wizard", Balance: money("1150"), Role: model.RoleClient},
		{ID: 2, FirstName: "Mr", LastName: "Robot", Profession: "Hacker", Balance: money("231.11"), Role: model.RoleClient},
		{ID: 3, FirstName: "John", LastName: "Snow", Profession: "Knows nothing", Balance: money("451.3"), Role: model.RoleClient},
		{ID: 4, FirstName: "Ash", LastName: "Kethcum", Profession: "Pokemon master", Balance: money("1.3"), Role: model.RoleClient},
		{ID: 5, FirstName: "John", LastName: "Lenon", Profession: "Musician", Balance: money("64"), Role: model.RoleContractor},
		{ID: 6, FirstName: "Linus", LastName: "Torvalds", Profession: "Programmer", Balance: money("1214"), Role: model.RoleContractor},
		{ID: 7, FirstName: "Alan", LastName: "Turing", Profession: "Programmer", Balance: money("22"), Role: model.RoleContractor},
		{ID: 8, FirstName: "Aragorn", LastName: "II Elessar Telcontarion", Profession: "Fighter", Balance: money("314"), Role: model.RoleContractor},
	}
}

func FixtureContracts() []model.Contract {
	return []model.Contract{
		{ID: 1, Terms: "bla bla bla", Status: model.ContractStatusTerminated, ClientID: 1, ContractorID: 5},
		{ID: 2, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 1, ContractorID: 6},
		{ID: 3, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 2, ContractorID: 6},
		{ID: 4, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 2, ContractorID: 7},
		{ID: 5, Terms: "bla bla bla", Status: model.ContractStatusNew, ClientID: 3, ContractorID: 8},
		{ID: 6, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 3, ContractorID: 7},
		{ID: 7, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 4, ContractorID: 7},
		{ID: 8, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 4, ContractorID: 6},
		{ID: 9, Terms: "bla bla bla", Status: model.ContractStatusInProgress, ClientID: 4, ContractorID: 8},
	}
}

func FixtureJobs() []model.Job {
	return []model.Job{
		{ID: 1, Description: "work", Price: money("200"), ContractID: 1},
		{ID: 2, Description: "work", Price: money("201"), ContractID: 2},
		{ID: 3, Description: "work", Price: money("202"), ContractID: 3},
		{ID: 4, Description: "work", Price: money("200"), ContractID: 4},
		{ID: 5, Description: "work", Price: money("200"), ContractID: 7},
		{ID: 6, Description: "work", Price: money("2020"), Paid: true, PaymentDate: paidAt("2020-08-15T19:11:26.737Z"), ContractID: 7},
		{ID: 7, Description: "work", Price: money("200"), Paid: true, PaymentDate: paidAt("2020-08-15T19:11:26.737Z"), ContractID: 2},
		{ID: 8, Description: "work", Price: money("200"), Paid: true, PaymentDate: paidAt("2020-08-16T19:11:26.737Z"), ContractID: 3},
		{ID: 9, Description: "work", Price: money("200"), Paid: true, PaymentDate: paidAt("2020-08-17T19:11:26.737Z"), ContractID: 1},
		{ID: 10, Description: "work", Price: money("200"), Paid: true, PaymentDate: paidAt("2020-08-17T19:11:26.737Z"), ContractID: 5},
		{ID: 11, Description: "work", Price: money("21"), Paid: true, PaymentDate: paidAt("2020-08-10T19:11:26.737Z"), ContractID: 1},
		{ID: 12, Description: "work", Price: money("21"), Paid: true, PaymentDate: paidAt("2020-08-15T19:11:26.737Z"), ContractID: 2},
		{ID: 13, Description: "work", Price: money("121"), Paid: true, PaymentDate: paidAt("2020-08-15T19:11:26.737Z"), ContractID: 3},
		{ID: 14, Description: "work", Price: money("121"), Paid: true, PaymentDate: paidAt("2020-08-14T23:11:26.737Z"), ContractID: 3},
		{ID: 15, Description: "work", Price: money("50"), ContractID: 8},
	}
}

func money(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

func paidAt(raw string) *time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		panic(err)
	}
	t = t.UTC()
	return &t
}
