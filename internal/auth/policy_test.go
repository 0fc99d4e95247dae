package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"time"

	"github.com/frahmantamala/timekeeping/internal"
	employeeDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/employee"
	timeentryDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/timeentry"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var _ = ginkgo.Describe("AccessPolicy", func() {
	var (
		db        *gorm.DB
		sqlxDB    *sqlx.DB
		policy    *AccessPolicy
		router    chi.Router
		principal *internal.Principal
		entryID   int64
	)

	withPrincipal := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if principal != nil {
				r = r.WithContext(internal.ContextWithPrincipal(r.Context(), principal))
			}
			next.ServeHTTP(w, r)
		})
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	serve := func(path string) int {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec.Code
	}

	ginkgo.BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		sqlDB, err := db.DB()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		gomega.Expect(db.AutoMigrate(&employeeDatamodel.Employee{}, &timeentryDatamodel.TimeEntry{})).To(gomega.Succeed())

		employees := []*employeeDatamodel.Employee{
			{ID: 1, CompanyID: 10, Name: "Jane", Email: "jane@acme.com", PersonalID: "1", Role: "ROLE_ADMIN", PasswordHash: "x"},
			{ID: 2, CompanyID: 10, Name: "John", Email: "john@acme.com", PersonalID: "2", Role: "ROLE_USUARIO", PasswordHash: "x"},
			{ID: 3, CompanyID: 20, Name: "Ana", Email: "ana@other.com", PersonalID: "3", Role: "ROLE_USUARIO", PasswordHash: "x"},
		}
		gomega.Expect(db.Create(&employees).Error).To(gomega.Succeed())
		entry := &timeentryDatamodel.TimeEntry{EmployeeID: 2, PunchedAt: time.Now(), Type: "INICIO_TRABALHO"}
		gomega.Expect(db.Create(entry).Error).To(gomega.Succeed())
		entryID = entry.ID

		sqlxDB = sqlx.NewDb(sqlDB, "sqlite3")
		policy = NewAccessPolicy(sqlxDB, slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))

		router = chi.NewRouter()
		router.Use(withPrincipal)
		router.With(policy.RequireEmployeeAccess).Get("/employees/{employeeID}/entries", ok)
		router.With(policy.RequireEntryAccess).Get("/entries/{id}", ok)
	})

	ginkgo.AfterEach(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	ginkgo.It("lets employees read their own entries", func() {
		principal = &internal.Principal{EmployeeID: 2, CompanyID: 10, Role: "ROLE_USUARIO"}
		gomega.Expect(serve("/employees/2/entries")).To(gomega.Equal(http.StatusOK))
		gomega.Expect(serve("/entries/" + itoa(entryID))).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("lets admins of the same company in", func() {
		principal = &internal.Principal{EmployeeID: 1, CompanyID: 10, Role: "ROLE_ADMIN"}
		gomega.Expect(serve("/employees/2/entries")).To(gomega.Equal(http.StatusOK))
		gomega.Expect(serve("/entries/" + itoa(entryID))).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("keeps other employees out", func() {
		principal = &internal.Principal{EmployeeID: 3, CompanyID: 20, Role: "ROLE_USUARIO"}
		gomega.Expect(serve("/employees/2/entries")).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(serve("/entries/" + itoa(entryID))).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.It("keeps admins of another company out", func() {
		principal = &internal.Principal{EmployeeID: 9, CompanyID: 20, Role: "ROLE_ADMIN"}
		gomega.Expect(serve("/employees/2/entries")).To(gomega.Equal(http.StatusForbidden))
	})

	ginkgo.It("lets unknown entries through to the handler", func() {
		principal = &internal.Principal{EmployeeID: 3, CompanyID: 20, Role: "ROLE_USUARIO"}
		gomega.Expect(serve("/entries/999")).To(gomega.Equal(http.StatusOK))
	})

	ginkgo.It("requires a principal", func() {
		principal = nil
		gomega.Expect(serve("/employees/2/entries")).To(gomega.Equal(http.StatusUnauthorized))
	})
})

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
