package database_test

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/timekeeping/internal/core/database"
)

var _ = Describe("UniqueViolation", func() {
	It("returns the postgres constraint name without the offending value", func() {
		err := fmt.Errorf("insert employee: %w", &pgconn.PgError{
			Code:           "23505",
			ConstraintName: "employees_email_key",
			Detail:         "Key (email)=(personal_id@acme.com) already exists.",
		})

		constraint, ok := database.UniqueViolation(err)
		Expect(ok).To(BeTrue())
		Expect(constraint).To(Equal("employees_email_key"))
	})

	It("ignores other postgres errors", func() {
		_, ok := database.UniqueViolation(&pgconn.PgError{Code: "23503", ConstraintName: "employees_company_id_fkey"})
		Expect(ok).To(BeFalse())
	})

	It("returns the sqlite table and column", func() {
		constraint, ok := database.UniqueViolation(errors.New("UNIQUE constraint failed: employees.personal_id"))
		Expect(ok).To(BeTrue())
		Expect(constraint).To(Equal("employees.personal_id"))
	})

	It("reports nothing for nil or unrelated errors", func() {
		_, ok := database.UniqueViolation(nil)
		Expect(ok).To(BeFalse())
		_, ok = database.UniqueViolation(errors.New("connection refused"))
		Expect(ok).To(BeFalse())
	})
})
