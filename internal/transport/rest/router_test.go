package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/timekeeping/api"
	"github.com/frahmantamala/timekeeping/internal/auth"
	companyDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/company"
	employeeDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/employee"
	timeentryDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/timeentry"
	"github.com/frahmantamala/timekeeping/internal/employee"
	employeePostgres "github.com/frahmantamala/timekeeping/internal/employee/postgres"
	"github.com/frahmantamala/timekeeping/internal/timeentry"
	timeentryPostgres "github.com/frahmantamala/timekeeping/internal/timeentry/postgres"
	"github.com/frahmantamala/timekeeping/internal/transport/middleware"
	"github.com/frahmantamala/timekeeping/internal/transport/rest"
)

// tokenService accepts a fixed set of bearer tokens.
type tokenService struct {
	claims map[string]*auth.Claims
}

func (s *tokenService) Authenticate(context.Context, auth.LoginDTO) (auth.AuthTokens, error) {
	return auth.AuthTokens{}, auth.ErrInvalidCredentials
}

func (s *tokenService) RefreshTokens(context.Context, string) (auth.AuthTokens, error) {
	return auth.AuthTokens{}, auth.ErrInvalidToken
}

func (s *tokenService) ValidateAccessToken(token string) (*auth.Claims, error) {
	if c, ok := s.claims[token]; ok {
		return c, nil
	}
	return nil, auth.ErrInvalidToken
}

var _ = Describe("Router", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	silent := slog.New(slog.NewTextHandler(io.Discard, nil))

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader)
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&companyDatamodel.Company{}, &employeeDatamodel.Employee{}, &timeentryDatamodel.TimeEntry{})).To(Succeed())

		Expect(db.Create(&[]*companyDatamodel.Company{
			{ID: 10, TaxID: "12345678000199", LegalName: "Acme"},
			{ID: 20, TaxID: "98765432000111", LegalName: "Other"},
		}).Error).To(Succeed())
		Expect(db.Create(&[]*employeeDatamodel.Employee{
			{ID: 1, CompanyID: 10, Name: "Jane", Email: "jane@acme.com", PersonalID: "11122233344", Role: "ROLE_ADMIN", PasswordHash: "x"},
			{ID: 2, CompanyID: 10, Name: "John", Email: "john@acme.com", PersonalID: "22233344455", Role: "ROLE_USUARIO", PasswordHash: "x"},
			{ID: 3, CompanyID: 20, Name: "Ana", Email: "ana@other.com", PersonalID: "33344455566", Role: "ROLE_USUARIO", PasswordHash: "x"},
		}).Error).To(Succeed())

		validator, err := middleware.NewOpenAPIValidator(context.Background(), api.OpenAPI, silent)
		Expect(err).NotTo(HaveOccurred())

		tokens := &tokenService{claims: map[string]*auth.Claims{
			"admin": {EmployeeID: 1, CompanyID: 10, Role: "ROLE_ADMIN"},
			"john":  {EmployeeID: 2, CompanyID: 10, Role: "ROLE_USUARIO"},
			"ana":   {EmployeeID: 3, CompanyID: 20, Role: "ROLE_USUARIO"},
		}}
		entries := timeentry.NewService(timeentryPostgres.NewTimeEntryRepository(db), nil, nil, silent)

		router = chi.NewRouter()
		rest.RegisterAllRoutes(router, rest.Dependencies{
			DB:               sqlDB,
			AllowedOrigins:   "*",
			Validator:        validator,
			AuthHandler:      auth.NewHandler(tokens, silent),
			AccessPolicy:     auth.NewAccessPolicy(sqlx.NewDb(sqlDB, "sqlite3"), silent),
			TimeEntryHandler: timeentry.NewHandler(entries, silent),
			EmployeeHandler:  employee.NewHandler(employee.NewService(employeePostgres.NewEmployeeRepository(db)), silent),
			Logger:           silent,
		})
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	It("serves liveness, readiness and the api document", func() {
		Expect(do(http.MethodGet, "/api/v1/ping", "", "").Code).To(Equal(http.StatusOK))

		health := do(http.MethodGet, "/api/v1/health", "", "")
		Expect(health.Code).To(Equal(http.StatusOK))
		var body rest.HealthResponse
		Expect(json.NewDecoder(health.Body).Decode(&body)).To(Succeed())
		Expect(body.Status).To(Equal(rest.HealthHealthy))
		Expect(body.Components).To(HaveKey("postgres"))

		doc := do(http.MethodGet, "/openapi.yml", "", "")
		Expect(doc.Code).To(Equal(http.StatusOK))
		Expect(doc.Body.String()).To(ContainSubstring("openapi: 3.0.3"))
	})

	It("requires a bearer token for time entries", func() {
		rec := do(http.MethodPost, "/api/v1/entries", "", `{"data":"2024-05-01T08:00:00Z","tipo":"INICIO_TRABALHO"}`)
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("records punches and serves them back to their owner", func() {
		for _, punch := range []string{
			`{"data":"2024-05-01T08:00:00Z","tipo":"INICIO_TRABALHO"}`,
			`{"data":"2024-05-01T12:00:00Z","tipo":"INICIO_ALMOCO"}`,
		} {
			Expect(do(http.MethodPost, "/api/v1/entries", "john", punch).Code).To(Equal(http.StatusCreated))
		}

		rec := do(http.MethodGet, "/api/v1/employees/2/entries/latest", "john", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var latest struct {
			Data timeentry.TimeEntryResponse `json:"data"`
		}
		Expect(json.NewDecoder(rec.Body).Decode(&latest)).To(Succeed())
		Expect(latest.Data.Type).To(Equal(timeentry.TypeLunchStart))

		page := do(http.MethodGet, "/api/v1/employees/2/entries?page=0&size=1", "john", "")
		Expect(page.Code).To(Equal(http.StatusOK))
		var body struct {
			Data timeentry.PageResponse `json:"data"`
		}
		Expect(json.NewDecoder(page.Body).Decode(&body)).To(Succeed())
		Expect(body.Data.TotalElements).To(Equal(int64(2)))
		Expect(body.Data.TotalPages).To(Equal(2))
		Expect(body.Data.Content).To(HaveLen(1))

		Expect(do(http.MethodGet, "/api/v1/employees/2/entries/all", "admin", "").Code).To(Equal(http.StatusOK))
	})

	It("keeps employees of other companies out", func() {
		Expect(do(http.MethodPost, "/api/v1/entries", "john", `{"data":"2024-05-01T08:00:00Z","tipo":"INICIO_TRABALHO"}`).Code).
			To(Equal(http.StatusCreated))

		Expect(do(http.MethodGet, "/api/v1/employees/2/entries/all", "ana", "").Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/api/v1/entries/1", "ana", "").Code).To(Equal(http.StatusForbidden))
	})

	It("reserves removal for admins", func() {
		Expect(do(http.MethodPost, "/api/v1/entries", "john", `{"data":"2024-05-01T08:00:00Z","tipo":"INICIO_TRABALHO"}`).Code).
			To(Equal(http.StatusCreated))

		Expect(do(http.MethodDelete, "/api/v1/entries/1", "john", "").Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodDelete, "/api/v1/entries/1", "admin", "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodGet, "/api/v1/entries/1", "admin", "").Code).To(Equal(http.StatusNotFound))
	})

	It("rejects malformed payloads before they reach a handler", func() {
		rec := do(http.MethodPost, "/api/v1/entries", "john", `{"data":"2024-05-01T08:00:00Z","tipo":"SIESTA"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("rejects page numbers above the documented maximum", func() {
		Expect(do(http.MethodGet, "/api/v1/employees/2/entries?page=1000001", "john", "").Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodGet, "/api/v1/employees/2/entries?page=1000000", "john", "").Code).To(Equal(http.StatusOK))
	})

	It("serves the caller's own profile", func() {
		rec := do(http.MethodGet, "/api/v1/employees/me", "ana", "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body struct {
			Data employee.Employee `json:"data"`
		}
		Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
		Expect(body.Data.Email).To(Equal("ana@other.com"))
	})

	It("answers 404 for unknown routes", func() {
		Expect(do(http.MethodGet, "/api/v1/unknown", "", "").Code).To(Equal(http.StatusNotFound))
	})
})
