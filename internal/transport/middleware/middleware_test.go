package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/timekeeping/api"
	"github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/transport/middleware"
)

var silent = slog.New(slog.NewTextHandler(io.Discard, nil))

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Details struct {
			Errors []internal.ValidationError `json:"errors"`
		} `json:"details"`
	} `json:"error"`
}

func decodeError(rec *httptest.ResponseRecorder) errorBody {
	var body errorBody
	Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
	return body
}

var _ = Describe("CORS", func() {
	It("answers preflight requests from allowed origins", func() {
		h := middleware.CORS("https://app.example.com")(ok)

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/entries", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://app.example.com"))
		Expect(rec.Header().Get("Access-Control-Max-Age")).To(Equal("600"))
		Expect(rec.Body.String()).To(BeEmpty())
	})

	It("exposes the trace id header to allowed origins", func() {
		h := middleware.CORS("https://other.example.com, https://app.example.com")(ok)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://app.example.com"))
		Expect(strings.EqualFold(rec.Header().Get("Access-Control-Expose-Headers"), middleware.TraceIDHeader)).To(BeTrue())
		Expect(rec.Header().Values("Vary")).To(ContainElement("Origin"))
	})

	It("leaves unknown origins undecorated", func() {
		h := middleware.CORS("https://app.example.com")(ok)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("accepts any origin with a wildcard", func() {
		h := middleware.CORS("*")(ok)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.Header.Set("Origin", "https://anywhere.example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})
})

var _ = Describe("RequestID", func() {
	It("echoes an incoming trace id", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TraceIDHeader, "trace-1")
		rec := httptest.NewRecorder()
		middleware.RequestID(ok).ServeHTTP(rec, req)

		Expect(rec.Header().Get(middleware.TraceIDHeader)).To(Equal("trace-1"))
	})

	It("generates one when absent", func() {
		rec := httptest.NewRecorder()
		middleware.RequestID(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Header().Get(middleware.TraceIDHeader)).NotTo(BeEmpty())
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("turns a panic into an internal error response", func() {
		boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
		rec := httptest.NewRecorder()
		middleware.RecoveryMiddleware(silent)(boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(decodeError(rec).Error.Code).To(Equal("INTERNAL_ERROR"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("boom"))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("masks passwords and tokens in logged bodies", func() {
		var logs bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

		echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			Expect(string(body)).To(ContainSubstring("hunter2"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"abc.def.ghi"}`))
		})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@b.co","senha":"hunter2"}`))
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()
		middleware.LoggingMiddleware(lg)(echo).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(logs.String()).To(ContainSubstring("a@b.co"))
		Expect(logs.String()).NotTo(ContainSubstring("hunter2"))
		Expect(logs.String()).NotTo(ContainSubstring("abc.def.ghi"))
		Expect(logs.String()).NotTo(ContainSubstring("Bearer abc"))
	})
})

var _ = Describe("RequireRole", func() {
	serve := func(p *internal.Principal) int {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/entries/1", nil)
		if p != nil {
			req = req.WithContext(internal.ContextWithPrincipal(req.Context(), p))
		}
		rec := httptest.NewRecorder()
		middleware.RequireRole(silent, internal.RoleAdmin)(ok).ServeHTTP(rec, req)
		return rec.Code
	}

	It("lets admins through", func() {
		Expect(serve(&internal.Principal{EmployeeID: 1, Role: internal.RoleAdmin})).To(Equal(http.StatusOK))
	})

	It("forbids other roles", func() {
		Expect(serve(&internal.Principal{EmployeeID: 2, Role: "ROLE_USUARIO"})).To(Equal(http.StatusForbidden))
	})

	It("rejects anonymous requests", func() {
		Expect(serve(nil)).To(Equal(http.StatusUnauthorized))
	})
})

var _ = Describe("OpenAPIValidator", func() {
	var handler http.Handler

	BeforeEach(func() {
		validator, err := middleware.NewOpenAPIValidator(context.Background(), api.OpenAPI, silent)
		Expect(err).NotTo(HaveOccurred())
		handler = validator.Middleware(ok)
	})

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	It("passes well-formed time entries", func() {
		rec := post("/api/v1/entries", `{"data":"2024-05-01T08:00:00Z","tipo":"INICIO_TRABALHO"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("rejects entry types outside the enum", func() {
		rec := post("/api/v1/entries", `{"data":"2024-05-01T08:00:00Z","tipo":"SIESTA"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		body := decodeError(rec)
		Expect(body.Error.Code).To(Equal(string(internal.ErrCodeValidationFailed)))
		Expect(body.Error.Details.Errors).NotTo(BeEmpty())
	})

	It("rejects registrations missing required fields", func() {
		rec := post("/api/v1/registrations", `{"nome":"Jane"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(rec).Error.Details.Errors).NotTo(BeEmpty())
	})

	It("rejects non-numeric path ids", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/entries/abc", nil))

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(rec).Error.Details.Errors[0].Field).To(Equal("id"))
	})

	It("leaves undeclared routes alone", func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})
