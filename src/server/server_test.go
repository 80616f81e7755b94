package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"webservicepoc/src/domain"
	"webservicepoc/src/repositories"
	"webservicepoc/src/security"
	"webservicepoc/src/server"
	"webservicepoc/src/services/posts"
)

type principalResolver struct {
	principal *domain.Principal
}

func (p *principalResolver) Principal(r *http.Request) (*domain.Principal, error) {
	return p.principal, nil
}

var _ = Describe("Server", func() {
	var (
		ctx          context.Context
		resolver     *principalResolver
		postsService *posts.PostsService
		handler      http.Handler
		user         *domain.Principal
		guest        *domain.Principal
	)

	do := func(method string, target string, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		request := httptest.NewRequest(method, target, reader)
		if body != "" {
			request.Header.Set("Content-Type", "application/json")
		}
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	savePost := func(title string) int64 {
		id, err := postsService.Save(ctx, domain.PostsSaveRequest{Title: title, Content: "content", Author: "author"})
		Expect(err).ToNot(HaveOccurred())
		return id
	}

	BeforeEach(func() {
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		postsService = posts.NewPostsService(logger, repositories.NewMemoryPostsRepository(), nil)
		resolver = &principalResolver{}
		user = &domain.Principal{UserID: 1, Name: "tester", Email: "tester@example.com", Role: domain.RoleUser}
		guest = &domain.Principal{UserID: 2, Name: "visitor", Role: domain.RoleGuest}

		handler = server.NewServer(logger, 0, postsService, server.Auth{
			Policy:   security.DefaultPolicy(),
			Resolver: resolver,
			LoginURL: "/oauth2/authorization/google",
		}).Handler()
	})

	Describe("GET /hello", func() {
		It("should return hello", func() {
			resolver.principal = user

			recorder := do(http.MethodGet, "/hello", "")

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(Equal("hello"))
		})

		It("should send anonymous users to the login", func() {
			recorder := do(http.MethodGet, "/hello", "")

			Expect(recorder.Code).To(Equal(http.StatusFound))
			Expect(recorder.Header().Get("Location")).To(Equal("/oauth2/authorization/google"))
		})
	})

	Describe("GET /hello/dto", func() {
		BeforeEach(func() {
			resolver.principal = user
		})

		It("should echo name and an integer amount", func() {
			recorder := do(http.MethodGet, "/hello/dto?name=hello&amount=1000", "")

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Header().Get("Content-Type")).To(Equal("application/json"))
			Expect(recorder.Body.String()).To(MatchJSON(`{"name":"hello","amount":1000}`))
		})

		DescribeTable("malformed parameters",
			func(query string) {
				Expect(do(http.MethodGet, "/hello/dto"+query, "").Code).To(Equal(http.StatusBadRequest))
			},
			Entry("amount is not a number", "?name=hello&amount=abc"),
			Entry("amount is a decimal", "?name=hello&amount=10.5"),
			Entry("amount is missing", "?name=hello"),
			Entry("name is missing", "?amount=1"),
		)
	})

	Describe("/api/v1/posts access", func() {
		It("should deny a GUEST", func() {
			resolver.principal = guest
			Expect(do(http.MethodGet, "/api/v1/posts", "").Code).To(Equal(http.StatusForbidden))
		})

		It("should redirect anonymous requests", func() {
			Expect(do(http.MethodGet, "/api/v1/posts", "").Code).To(Equal(http.StatusFound))
		})

		It("should route a USER normally", func() {
			resolver.principal = user
			Expect(do(http.MethodGet, "/api/v1/posts", "").Code).To(Equal(http.StatusOK))
		})
	})

	Describe("posts API", func() {
		BeforeEach(func() {
			resolver.principal = user
		})

		It("should create a post and return its id", func() {
			recorder := do(http.MethodPost, "/api/v1/posts", `{"title":"테스트 게시글","content":"테스트 본문","author":"hd15807@gmail.com"}`)
			Expect(recorder.Code).To(Equal(http.StatusOK))

			id, err := strconv.ParseInt(strings.TrimSpace(recorder.Body.String()), 10, 64)
			Expect(err).ToNot(HaveOccurred())

			found, err := postsService.FindByID(ctx, id)
			Expect(err).ToNot(HaveOccurred())
			Expect(found.Title).To(Equal("테스트 게시글"))
			Expect(found.Author).To(Equal("hd15807@gmail.com"))
		})

		It("should use the logged in name when the author is omitted", func() {
			recorder := do(http.MethodPost, "/api/v1/posts", `{"title":"t","content":"c"}`)
			Expect(recorder.Code).To(Equal(http.StatusOK))

			items, err := postsService.FindAllDesc(ctx)
			Expect(err).ToNot(HaveOccurred())
			Expect(items[0].Author).To(Equal("tester"))
		})

		It("should reject an empty title", func() {
			Expect(do(http.MethodPost, "/api/v1/posts", `{"title":"","content":"c"}`).Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a malformed body", func() {
			Expect(do(http.MethodPost, "/api/v1/posts", `{"title":`).Code).To(Equal(http.StatusBadRequest))
		})

		It("should read a post by id", func() {
			id := savePost("title")

			recorder := do(http.MethodGet, "/api/v1/posts/"+strconv.FormatInt(id, 10), "")

			Expect(recorder.Code).To(Equal(http.StatusOK))
			var response server.PostsResponseDTO
			Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
			Expect(response).To(Equal(server.PostsResponseDTO{ID: id, Title: "title", Content: "content", Author: "author"}))
		})

		It("should update title and content", func() {
			id := savePost("title")

			recorder := do(http.MethodPut, "/api/v1/posts/"+strconv.FormatInt(id, 10), `{"title":"title2","content":"content2"}`)
			Expect(recorder.Code).To(Equal(http.StatusOK))

			found, err := postsService.FindByID(ctx, id)
			Expect(err).ToNot(HaveOccurred())
			Expect(found.Title).To(Equal("title2"))
			Expect(found.Content).To(Equal("content2"))
			Expect(found.Author).To(Equal("author"))
		})

		It("should delete a post", func() {
			id := savePost("title")
			path := "/api/v1/posts/" + strconv.FormatInt(id, 10)

			Expect(do(http.MethodDelete, path, "").Code).To(Equal(http.StatusOK))
			Expect(do(http.MethodGet, path, "").Code).To(Equal(http.StatusNotFound))
		})

		It("should list posts newest first", func() {
			savePost("first")
			savePost("second")

			recorder := do(http.MethodGet, "/api/v1/posts", "")

			var response []server.PostsListResponseDTO
			Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
			Expect(response).To(HaveLen(2))
			Expect(response[0].Title).To(Equal("second"))
		})

		DescribeTable("error mapping",
			func(method string, path string, body string, status int) {
				Expect(do(method, path, body).Code).To(Equal(status))
			},
			Entry("unknown id", http.MethodGet, "/api/v1/posts/999", "", http.StatusNotFound),
			Entry("non numeric id", http.MethodGet, "/api/v1/posts/abc", "", http.StatusBadRequest),
			Entry("update of unknown id", http.MethodPut, "/api/v1/posts/999", `{"title":"t","content":"c"}`, http.StatusNotFound),
			Entry("delete of unknown id", http.MethodDelete, "/api/v1/posts/999", "", http.StatusNotFound),
		)
	})

	Describe("pages", func() {
		It("should render the index for anonymous visitors with login links", func() {
			savePost("visible title")

			recorder := do(http.MethodGet, "/", "")

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(ContainSubstring("visible title"))
			Expect(recorder.Body.String()).To(ContainSubstring("/oauth2/authorization/google"))
		})

		It("should show the user name when logged in", func() {
			resolver.principal = user

			recorder := do(http.MethodGet, "/", "")

			Expect(recorder.Body.String()).To(ContainSubstring(`<span id="user">tester</span>`))
			Expect(recorder.Body.String()).To(ContainSubstring("/logout"))
		})

		It("should render the update page with the stored post", func() {
			resolver.principal = guest
			id := savePost("to edit")

			recorder := do(http.MethodGet, "/posts/update/"+strconv.FormatInt(id, 10), "")

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(ContainSubstring(`value="to edit"`))
		})

		It("should require a login for the save page", func() {
			Expect(do(http.MethodGet, "/posts/save", "").Code).To(Equal(http.StatusFound))
		})

		It("should serve static assets without a login", func() {
			recorder := do(http.MethodGet, "/css/app.css", "")

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(ContainSubstring(".table"))
		})
	})
})
