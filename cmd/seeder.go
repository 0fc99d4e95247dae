package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/registration"
	"github.com/frahmantamala/timekeeping/internal/timeentry"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with a demo company",
	Long:  `Register a demo company with its admin and record a sample working day.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		deps, err := initializeDependencies(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		return seed(ctx, deps)
	},
}

var demoRegistration = registration.RegistrationInput{
	TaxID:      "12.345.678/0001-99",
	LegalName:  "Acme Ltda",
	Name:       "Jane Doe",
	Email:      "admin@acme.com",
	PersonalID: "111.222.333-44",
	Password:   "password",
}

func seed(ctx context.Context, deps *Dependencies) error {
	out, err := deps.Registration.Register(ctx, demoRegistration)
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeValidation {
			deps.Logger.Info("demo company already registered", "detail", appErr.GetDetailedMessage())
			return nil
		}
		return fmt.Errorf("register demo company: %w", err)
	}
	deps.Logger.Info("seeded demo company", "company_id", out.CompanyID, "admin_email", out.Email)

	day := time.Now().UTC().Truncate(24 * time.Hour)
	punches := []struct {
		offset time.Duration
		kind   string
	}{
		{8 * time.Hour, timeentry.TypeWorkStart},
		{12 * time.Hour, timeentry.TypeLunchStart},
		{13 * time.Hour, timeentry.TypeLunchEnd},
		{17 * time.Hour, timeentry.TypeWorkEnd},
	}

	for _, p := range punches {
		entry := &timeentry.TimeEntry{
			EmployeeID: out.EmployeeID,
			PunchedAt:  day.Add(p.offset),
			Type:       p.kind,
		}
		if _, err := deps.TimeEntries.Create(ctx, entry); err != nil {
			return fmt.Errorf("record %s: %w", p.kind, err)
		}
	}
	deps.Logger.Info("seeded sample working day", "employee_id", out.EmployeeID, "entries", len(punches))
	return nil
}
