package registration_test

import (
	"context"
	stderrors "errors"

	"github.com/frahmantamala/timekeeping/internal/auth"
	companyPostgres "github.com/frahmantamala/timekeeping/internal/company/postgres"
	"github.com/frahmantamala/timekeeping/internal/core/database"
	companyDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/company"
	employeeDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/employee"
	"github.com/frahmantamala/timekeeping/internal/core/events"
	"github.com/frahmantamala/timekeeping/internal/employee"
	employeePostgres "github.com/frahmantamala/timekeeping/internal/employee/postgres"
	"github.com/frahmantamala/timekeeping/internal/registration"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type brokenEmployeeRepository struct {
	employee.Repository
}

func (brokenEmployeeRepository) Create(context.Context, *employeeDatamodel.Employee) error {
	return stderrors.New("disk full")
}

var _ = Describe("Registration against a database", func() {
	var (
		db  *gorm.DB
		ctx context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&companyDatamodel.Company{}, &employeeDatamodel.Employee{})).To(Succeed())
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	newService := func(employees employee.Repository) *registration.Service {
		return registration.NewService(
			companyPostgres.NewCompanyRepository(db),
			employees,
			auth.NewBcryptHasher(bcrypt.MinCost),
			database.NewTransactionManager(db),
			events.NopPublisher{},
			nil,
		)
	}

	count := func(model interface{}) int64 {
		var n int64
		Expect(db.Model(model).Count(&n).Error).To(Succeed())
		return n
	}

	It("commits the company and its admin together", func() {
		out, err := newService(employeePostgres.NewEmployeeRepository(db)).Register(ctx, acmeInput())
		Expect(err).NotTo(HaveOccurred())

		var stored employeeDatamodel.Employee
		Expect(db.First(&stored, out.EmployeeID).Error).To(Succeed())
		Expect(stored.CompanyID).To(Equal(out.CompanyID))
		Expect(count(&companyDatamodel.Company{})).To(Equal(int64(1)))
	})

	It("leaves no orphaned company when the employee write fails", func() {
		employees := brokenEmployeeRepository{Repository: employeePostgres.NewEmployeeRepository(db)}

		_, err := newService(employees).Register(ctx, acmeInput())
		Expect(err).To(MatchError(ContainSubstring("disk full")))

		Expect(count(&companyDatamodel.Company{})).To(BeZero())
		Expect(count(&employeeDatamodel.Employee{})).To(BeZero())
	})

	It("rejects a second registration of the same company", func() {
		service := newService(employeePostgres.NewEmployeeRepository(db))
		_, err := service.Register(ctx, acmeInput())
		Expect(err).NotTo(HaveOccurred())

		in := acmeInput()
		in.Email = "john@acme.com"
		in.PersonalID = "555.666.777-88"
		_, err = service.Register(ctx, in)
		Expect(validationMessages(err)).To(Equal(map[string][]string{
			"cnpj": {"Empresa já existente."},
		}))
		Expect(count(&companyDatamodel.Company{})).To(Equal(int64(1)))
		Expect(count(&employeeDatamodel.Employee{})).To(Equal(int64(1)))
	})
})
