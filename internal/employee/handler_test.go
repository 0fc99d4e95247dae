package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/timekeeping/internal"
	employeeDatamodel "github.com/frahmantamala/timekeeping/internal/core/datamodel/employee"
	"github.com/frahmantamala/timekeeping/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type memoryRepository struct {
	rows map[int64]*employeeDatamodel.Employee
}

func (m *memoryRepository) FindByPersonalID(context.Context, string) (*employeeDatamodel.Employee, error) {
	return nil, nil
}

func (m *memoryRepository) FindByEmail(context.Context, string) (*employeeDatamodel.Employee, error) {
	return nil, nil
}

func (m *memoryRepository) FindByID(_ context.Context, id int64) (*employeeDatamodel.Employee, error) {
	return m.rows[id], nil
}

func (m *memoryRepository) Create(_ context.Context, e *employeeDatamodel.Employee) error {
	m.rows[e.ID] = e
	return nil
}

var _ = Describe("Employee Handler", func() {
	var handler *employee.Handler

	get := func(p *internal.Principal) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/employees/me", nil)
		if p != nil {
			req = req.WithContext(internal.ContextWithPrincipal(req.Context(), p))
		}
		rec := httptest.NewRecorder()
		handler.GetCurrentEmployee(rec, req)
		return rec
	}

	BeforeEach(func() {
		repo := &memoryRepository{rows: map[int64]*employeeDatamodel.Employee{
			1: {ID: 1, CompanyID: 10, Name: "Jane", Email: "jane@acme.com", PersonalID: "11122233344", Role: "ROLE_ADMIN", PasswordHash: "secret-hash"},
		}}
		handler = employee.NewHandler(employee.NewService(repo), nil)
	})

	It("returns the authenticated employee without the password hash", func() {
		rec := get(&internal.Principal{EmployeeID: 1, CompanyID: 10, Role: "ROLE_ADMIN"})
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).NotTo(ContainSubstring("secret-hash"))

		var body struct {
			Data employee.Employee `json:"data"`
		}
		Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
		Expect(body.Data.Email).To(Equal("jane@acme.com"))
		Expect(body.Data.CompanyID).To(Equal(int64(10)))
		Expect(body.Data.Role).To(Equal(employee.RoleAdmin))
	})

	It("answers 404 when the employee no longer exists", func() {
		Expect(get(&internal.Principal{EmployeeID: 99}).Code).To(Equal(http.StatusNotFound))
	})

	It("requires a principal", func() {
		Expect(get(nil).Code).To(Equal(http.StatusUnauthorized))
	})
})
