package security_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"webservicepoc/src/domain"
	"webservicepoc/src/security"
)

type fixedResolver struct {
	principal *domain.Principal
	err       error
}

func (f fixedResolver) Principal(r *http.Request) (*domain.Principal, error) {
	return f.principal, f.err
}

var _ = Describe("Middleware", func() {
	var (
		logger *slog.Logger
		seen   *domain.Principal
		next   http.Handler
	)

	serve := func(resolver security.PrincipalResolver, path string) *httptest.ResponseRecorder {
		handler := security.Middleware(logger, security.DefaultPolicy(), resolver, "/oauth2/authorization/google")(next)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
		return recorder
	}

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		seen = nil
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = security.PrincipalFrom(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	})

	It("should pass a USER through to the api with the principal in context", func() {
		user := &domain.Principal{UserID: 1, Role: domain.RoleUser}

		recorder := serve(fixedResolver{principal: user}, "/api/v1/posts")

		Expect(recorder.Code).To(Equal(http.StatusOK))
		Expect(seen).To(Equal(user))
	})

	It("should answer 403 to a GUEST on the api", func() {
		recorder := serve(fixedResolver{principal: &domain.Principal{UserID: 2, Role: domain.RoleGuest}}, "/api/v1/posts")

		Expect(recorder.Code).To(Equal(http.StatusForbidden))
		Expect(seen).To(BeNil())
	})

	It("should redirect anonymous requests to the login", func() {
		recorder := serve(fixedResolver{}, "/api/v1/posts")

		Expect(recorder.Code).To(Equal(http.StatusFound))
		Expect(recorder.Header().Get("Location")).To(Equal("/oauth2/authorization/google"))
	})

	It("should serve open paths to anonymous requests", func() {
		recorder := serve(fixedResolver{}, "/")

		Expect(recorder.Code).To(Equal(http.StatusOK))
		_, ok := security.PrincipalFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context())
		Expect(ok).To(BeFalse())
	})

	It("should treat resolver failures as anonymous", func() {
		recorder := serve(fixedResolver{err: errors.New("bad cookie")}, "/posts/save")

		Expect(recorder.Code).To(Equal(http.StatusFound))
	})
})
