package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"fintrack-server/src/auth"
	"fintrack-server/src/models"
	"fintrack-server/src/service"
	"fintrack-server/src/testutil"
)

const (
	u1 = "11111111-1111-1111-1111-111111111111"
	u2 = "22222222-2222-2222-2222-222222222222"
)

var secret = []byte("test-secret")

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

type RouterSuite struct {
	suite.Suite
	store  *testutil.TransactionStore
	server *httptest.Server
}

func (s *RouterSuite) SetupTest() {
	s.store = testutil.NewTransactionStore()
	router := NewRouter(Deps{
		Transactions: service.NewTransactionService(s.store),
		Auth:         service.NewAuthService(testutil.NewUserStore(), secret, time.Hour),
		JWTSecret:    secret,
	})
	s.server = httptest.NewServer(router)
}

func (s *RouterSuite) TearDownTest() {
	s.server.Close()
}

func (s *RouterSuite) token(userID string) string {
	token, err := auth.IssueToken(userID, secret, time.Hour)
	s.Require().NoError(err)
	return token
}

// do sends a request as userID ("" for no credential) and decodes the JSON
// response into out when out is non-nil.
func (s *RouterSuite) do(method, path, userID, body string, out interface{}) int {
	req, err := http.NewRequest(method, s.server.URL+path, strings.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+s.token(userID))
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

const coffee = `{"title":"Coffee","amount":4.5,"type":"expense","category":"Food"}`

func (s *RouterSuite) TestCoffeeScenario() {
	require := s.Require()

	var created models.Transaction
	require.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/transactions", u1, coffee, &created))
	require.Equal(u1, created.OwnerID)
	require.NotEmpty(created.ID)

	var list []models.Transaction
	require.Equal(http.StatusOK, s.do(http.MethodGet, "/api/transactions", u1, "", &list))
	require.Len(list, 1)
	require.Equal(created.ID, list[0].ID)

	require.Equal(http.StatusOK, s.do(http.MethodGet, "/api/transactions", u2, "", &list))
	require.Empty(list)

	var errResp errorBody
	require.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/transactions/"+created.ID, u2, "", &errResp))
	require.Equal("transaction not found", errResp.Error)

	var msg map[string]string
	require.Equal(http.StatusOK, s.do(http.MethodDelete, "/api/transactions/"+created.ID, u1, "", &msg))
	require.Equal("transaction deleted", msg["message"])

	require.Equal(http.StatusOK, s.do(http.MethodGet, "/api/transactions", u1, "", &list))
	require.Empty(list)
}

func (s *RouterSuite) TestCreateIgnoresCallerSuppliedOwner() {
	require := s.Require()
	body := `{"id":"forged","owner_id":"` + u2 + `","userId":"` + u2 + `","amount":"12.30","type":"income","category":"Gift"}`

	var created models.Transaction
	require.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/transactions", u1, body, &created))
	require.Equal(u1, created.OwnerID)
	require.NotEqual("forged", created.ID)
	require.True(decimal.RequireFromString("12.3").Equal(created.Amount))
}

func (s *RouterSuite) TestCreateValidation() {
	require := s.Require()
	tests := map[string]struct {
		body   string
		fields []string
	}{
		"zero amount":     {`{"amount":0,"type":"expense","category":"Food"}`, []string{"amount"}},
		"negative amount": {`{"amount":-1,"type":"expense","category":"Food"}`, []string{"amount"}},
		"string amount":   {`{"amount":"abc","type":"expense","category":"Food"}`, []string{"amount"}},
		"bad type":        {`{"amount":1,"type":"transfer","category":"Food"}`, []string{"type"}},
		"empty body":      {`{}`, []string{"amount", "type", "category"}},
	}
	for name, tc := range tests {
		var errResp errorBody
		require.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/transactions", u1, tc.body, &errResp), name)
		require.Equal("invalid input", errResp.Error, name)
		require.Len(errResp.Fields, len(tc.fields), name)
		for _, f := range tc.fields {
			require.Contains(errResp.Fields, f, name)
		}
	}
	require.Equal(0, s.store.Len())

	var errResp errorBody
	require.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/transactions", u1, `{"amount":`, &errResp))
	require.Equal("invalid request", errResp.Error)
}

func (s *RouterSuite) TestUpdate() {
	require := s.Require()

	var created models.Transaction
	require.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/transactions", u1, coffee, &created))

	body := `{"id":"other","owner_id":"` + u2 + `","category":"Drinks","amount":5}`
	var updated models.Transaction
	require.Equal(http.StatusOK, s.do(http.MethodPut, "/api/transactions/"+created.ID, u1, body, &updated))
	require.Equal(created.ID, updated.ID)
	require.Equal(u1, updated.OwnerID)
	require.Equal("Drinks", updated.Category)
	require.Equal("Coffee", updated.Title)
	require.True(decimal.NewFromInt(5).Equal(updated.Amount))

	var errResp errorBody
	require.Equal(http.StatusNotFound, s.do(http.MethodPut, "/api/transactions/"+created.ID, u2, `{"title":"x"}`, &errResp))
	require.Equal(http.StatusNotFound, s.do(http.MethodPut, "/api/transactions/not-an-id", u1, `{"title":"x"}`, &errResp))
	require.Equal(http.StatusBadRequest, s.do(http.MethodPut, "/api/transactions/"+created.ID, u1, `{"type":"loan"}`, &errResp))
	require.Contains(errResp.Fields, "type")
}

func (s *RouterSuite) TestListNewestFirst() {
	require := s.Require()

	var first, second models.Transaction
	require.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/transactions", u1, coffee, &first))
	require.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/transactions", u1, coffee, &second))

	var list []models.Transaction
	require.Equal(http.StatusOK, s.do(http.MethodGet, "/api/transactions", u1, "", &list))
	require.Len(list, 2)
	require.Equal(second.ID, list[0].ID)
	require.Equal(first.ID, list[1].ID)
}

func (s *RouterSuite) TestSummary() {
	require := s.Require()
	require.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/transactions", u1,
		`{"amount":100,"type":"income","category":"Salary"}`, nil))
	require.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/transactions", u1, coffee, nil))

	var summary models.Summary
	require.Equal(http.StatusOK, s.do(http.MethodGet, "/api/transactions/summary", u1, "", &summary))
	require.Equal(2, summary.Count)
	require.True(decimal.RequireFromString("95.5").Equal(summary.Balance))
}

func (s *RouterSuite) TestAmountsAreJSONNumbers() {
	require := s.Require()
	require.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/transactions", u1, coffee, nil))

	var raw []map[string]interface{}
	require.Equal(http.StatusOK, s.do(http.MethodGet, "/api/transactions", u1, "", &raw))
	require.Len(raw, 1)
	require.Equal(4.5, raw[0]["amount"])
	require.Equal(u1, raw[0]["owner_id"])
}

func (s *RouterSuite) TestUnauthenticated() {
	require := s.Require()
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/transactions"},
		{http.MethodGet, "/api/transactions"},
		{http.MethodGet, "/api/transactions/summary"},
		{http.MethodPut, "/api/transactions/x"},
		{http.MethodDelete, "/api/transactions/x"},
	} {
		var errResp errorBody
		require.Equal(http.StatusUnauthorized, s.do(tc.method, tc.path, "", coffee, &errResp), tc.path)
		require.Equal("unauthenticated", errResp.Error)
	}
	require.Equal(0, s.store.Len())
}

func (s *RouterSuite) TestStoreFailureIsGeneric500() {
	require := s.Require()
	s.store.Err = errors.New("pq: password authentication failed for user \"admin\"")

	var errResp errorBody
	require.Equal(http.StatusInternalServerError, s.do(http.MethodGet, "/api/transactions", u1, "", &errResp))
	require.Equal("internal error", errResp.Error)
}

func (s *RouterSuite) TestRegisterLoginAndUseToken() {
	require := s.Require()

	var reg map[string]string
	require.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/register", "",
		`{"email":"ana@example.com","username":"ana","password":"Secr3t!pass"}`, &reg))
	require.NotEmpty(reg["token"])

	var conflict errorBody
	require.Equal(http.StatusConflict, s.do(http.MethodPost, "/api/register", "",
		`{"email":"ana@example.com","username":"ana","password":"Secr3t!pass"}`, &conflict))

	var bad errorBody
	require.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/register", "",
		`{"email":"nope","username":"ana","password":"Secr3t!pass"}`, &bad))
	require.Contains(bad.Fields, "email")

	var login map[string]string
	require.Equal(http.StatusOK, s.do(http.MethodPost, "/api/login", "",
		`{"username":"ana@example.com","password":"Secr3t!pass"}`, &login))

	var denied errorBody
	require.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/api/login", "",
		`{"username":"ana","password":"wrong"}`, &denied))
	require.Equal("invalid credentials", denied.Error)

	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/api/transactions", strings.NewReader(coffee))
	require.NoError(err)
	req.Header.Set("Authorization", "Bearer "+login["token"])
	resp, err := http.DefaultClient.Do(req)
	require.NoError(err)
	defer resp.Body.Close()
	require.Equal(http.StatusCreated, resp.StatusCode)

	var created models.Transaction
	require.NoError(json.NewDecoder(resp.Body).Decode(&created))
	userID, err := auth.ResolveIdentity("Bearer "+reg["token"], secret)
	require.NoError(err)
	require.Equal(userID, created.OwnerID)
}

func (s *RouterSuite) TestAuthRoutesAcceptWebClientShapes() {
	require := s.Require()

	var reg map[string]string
	require.Equal(http.StatusCreated, s.do(http.MethodPost, "/api/auth/register", "",
		`{"name":"Ana","email":"ana@example.com","password":"Secr3t!pass"}`, &reg))
	require.NotEmpty(reg["token"])

	var login map[string]string
	require.Equal(http.StatusOK, s.do(http.MethodPost, "/api/auth/login", "",
		`{"email":"ana@example.com","password":"Secr3t!pass"}`, &login))
	require.NotEmpty(login["token"])

	var denied errorBody
	require.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/login", "",
		`{"email":"ana@example.com","password":"nope"}`, &denied))
	require.Equal("invalid credentials", denied.Error)
}

func (s *RouterSuite) TestHugeAmountExponentIsRejected() {
	require := s.Require()
	for _, amount := range []string{`1e50000000`, `"1e-50000000"`, `1e400`} {
		var errResp errorBody
		body := `{"amount":` + amount + `,"type":"expense","category":"Food"}`
		require.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/transactions", u1, body, &errResp), amount)
		require.Equal("is out of range", errResp.Fields["amount"], amount)
	}
	require.Equal(0, s.store.Len())
}

func (s *RouterSuite) TestNonUUIDIdentityIsUnauthenticated() {
	require := s.Require()
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req, err := http.NewRequest(method, s.server.URL+"/api/transactions", strings.NewReader(coffee))
		require.NoError(err)
		req.Header.Set("Authorization", "Bearer "+s.token("user-1"))
		resp, err := http.DefaultClient.Do(req)
		require.NoError(err)
		resp.Body.Close()
		require.Equal(http.StatusUnauthorized, resp.StatusCode, method)
	}
	require.Equal(0, s.store.Len())
}

func TestHealth(t *testing.T) {
	router := NewRouter(Deps{JWTSecret: secret})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}
