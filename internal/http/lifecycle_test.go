package httpapi_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"treasury/internal/audit"
	"treasury/internal/distribution/handler"
	"treasury/internal/distribution/models"
	"treasury/internal/distribution/service"
	"treasury/internal/distribution/store/idempotency"
	"treasury/internal/distribution/store/ledger"
	"treasury/internal/distribution/store/state"
	"treasury/internal/distribution/transfer"
	httpapi "treasury/internal/http"
	"treasury/internal/jwttoken"
	"treasury/internal/passthrough"
	id "treasury/pkg/domain"
	"treasury/pkg/testutil"
)

// stack is the full in-memory wiring, mirroring cmd/server.
type stack struct {
	router   http.Handler
	gateway  *transfer.InMemoryGateway
	tokens   *jwttoken.JWTService
	admin    uuid.UUID
	governor uuid.UUID
}

func newStack(t *testing.T) *stack {
	t.Helper()

	admin := uuid.New()
	governor := uuid.New()

	dest, err := models.NewDestinations("acct-founder", "acct-dao", "acct-charity")
	require.NoError(t, err)
	initial, err := models.NewRouterState(dest,
		id.PrincipalID(admin), id.PrincipalID(governor), time.Now().UTC())
	require.NoError(t, err)

	stateSt := state.NewInMemory()
	require.NoError(t, stateSt.Init(context.Background(), initial))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gateway := transfer.NewInMemoryGateway()
	publisher := audit.NewPublisher(audit.NewInMemoryStore(), logger)

	svc := service.New(stateSt, ledger.NewInMemory(), gateway,
		service.WithLogger(logger),
		service.WithAuditPublisher(publisher),
		service.WithReferenceStore(idempotency.NewInMemoryStore(time.Hour)),
	)

	passSvc, err := passthrough.New("acct-sole", ledger.NewInMemory(), gateway,
		passthrough.WithLogger(logger),
	)
	require.NoError(t, err)

	tokens := jwttoken.NewJWTService("lifecycle-test-key", "treasury")

	router := httpapi.NewRouter(nil,
		handler.New(svc, logger, nil, jwttoken.NewJWTServiceAdapter(tokens)),
		passthrough.NewHandler(passSvc, logger, nil),
	)

	return &stack{
		router:   router,
		gateway:  gateway,
		tokens:   tokens,
		admin:    admin,
		governor: governor,
	}
}

func (st *stack) call(t *testing.T, method, path string, body any, principal uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, path, body)
	if principal != uuid.Nil {
		token, err := st.tokens.GenerateAccessToken(principal, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return testutil.DoRequest(st.router, req)
}

func TestTreasuryLifecycle(t *testing.T) {
	st := newStack(t)

	testutil.Given(t, "a treasury in the survival phase", func(t *testing.T) {
		testutil.When(t, "anyone deposits and distributes", func(t *testing.T) {
			rec := st.call(t, http.MethodPost, "/treasury/deposit",
				models.DepositRequest{AssetID: "USD", Amount: 1000}, uuid.Nil)
			testutil.AssertStatusOK(t, rec)

			rec = st.call(t, http.MethodPost, "/treasury/distribute",
				models.DistributeRequest{AssetID: "USD"}, uuid.Nil)
			testutil.AssertStatusOK(t, rec)

			testutil.Then(t, "the founder receives everything", func(t *testing.T) {
				dist := testutil.UnmarshalResponse[models.Distribution](t, rec)
				assert.Equal(t, int64(1000), dist.FounderAmount)
				assert.Zero(t, dist.DaoAmount)
				assert.Zero(t, dist.CharityAmount)
				assert.Equal(t, int64(1000), st.gateway.TotalTo("USD", "acct-founder"))
			})
		})

		testutil.When(t, "a second distribution follows with nothing held", func(t *testing.T) {
			rec := st.call(t, http.MethodPost, "/treasury/distribute",
				models.DistributeRequest{AssetID: "USD"}, uuid.Nil)
			testutil.AssertStatusAndError(t, rec, http.StatusConflict, "empty_balance")
		})

		testutil.When(t, "an anonymous caller tries to change the phase", func(t *testing.T) {
			rec := st.call(t, http.MethodPost, "/treasury/phase/transition", nil, uuid.Nil)
			testutil.AssertStatus(t, rec, http.StatusUnauthorized)
		})
	})

	testutil.Given(t, "the governor opens the transition phase", func(t *testing.T) {
		rec := st.call(t, http.MethodPost, "/treasury/phase/transition", nil, st.governor)
		testutil.AssertStatusOK(t, rec)
		testutil.AssertJSONContains(t, rec, "phase", "transition")

		testutil.When(t, "the governor schedules a split", func(t *testing.T) {
			rec := st.call(t, http.MethodPost, "/treasury/split/schedule",
				models.ScheduleSplitRequest{
					FounderBps: 1000, DaoBps: 4500, CharityBps: 4500,
					DelaySeconds: int64(models.MinScheduleDelay / time.Second),
				}, st.governor)
			testutil.AssertStatus(t, rec, http.StatusCreated)
		})

		testutil.Then(t, "the proposal is visible but not yet applicable", func(t *testing.T) {
			rec := st.call(t, http.MethodGet, "/treasury/split/scheduled", nil, uuid.Nil)
			testutil.AssertStatusOK(t, rec)

			rec = st.call(t, http.MethodPost, "/treasury/split/apply", nil, uuid.Nil)
			testutil.AssertStatusAndError(t, rec, http.StatusConflict, "split_not_ready")
		})

		testutil.Then(t, "distribution still follows the pinned survival split", func(t *testing.T) {
			rec := st.call(t, http.MethodPost, "/treasury/deposit",
				models.DepositRequest{AssetID: "USD", Amount: 400}, uuid.Nil)
			testutil.AssertStatusOK(t, rec)

			rec = st.call(t, http.MethodPost, "/treasury/distribute",
				models.DistributeRequest{AssetID: "USD"}, uuid.Nil)
			testutil.AssertStatusOK(t, rec)
			dist := testutil.UnmarshalResponse[models.Distribution](t, rec)
			assert.Equal(t, int64(400), dist.FounderAmount)
		})
	})

	testutil.Given(t, "the administrator activates the permanent split", func(t *testing.T) {
		rec := st.call(t, http.MethodPost, "/treasury/permanent",
			models.ActivatePermanentRequest{FounderCapBps: 1000, DaoBps: 4500, CharityBps: 4500},
			st.admin)
		testutil.AssertStatusOK(t, rec)
		testutil.AssertJSONContains(t, rec, "phase", "permanent")

		testutil.Then(t, "the pending proposal is destroyed", func(t *testing.T) {
			rec := st.call(t, http.MethodGet, "/treasury/split/scheduled", nil, uuid.Nil)
			testutil.AssertStatusAndError(t, rec, http.StatusConflict, "no_split_scheduled")
		})

		testutil.Then(t, "governance is frozen", func(t *testing.T) {
			rec := st.call(t, http.MethodPost, "/treasury/upgrade",
				models.AuthorizeUpgradeRequest{Implementation: "sha256:v2"}, st.admin)
			testutil.AssertStatusAndError(t, rec, http.StatusConflict, "already_permanent")

			rec = st.call(t, http.MethodPut, "/treasury/destinations",
				models.UpdateDestinationsRequest{Founder: "a", Dao: "b", Charity: "c"}, st.admin)
			testutil.AssertStatusAndError(t, rec, http.StatusConflict, "already_permanent")
		})

		testutil.Then(t, "distribution pays the permanent shares", func(t *testing.T) {
			rec := st.call(t, http.MethodPost, "/treasury/deposit",
				models.DepositRequest{AssetID: "USD", Amount: 10000}, uuid.Nil)
			testutil.AssertStatusOK(t, rec)

			rec = st.call(t, http.MethodPost, "/treasury/distribute",
				models.DistributeRequest{AssetID: "USD"}, uuid.Nil)
			testutil.AssertStatusOK(t, rec)
			dist := testutil.UnmarshalResponse[models.Distribution](t, rec)
			assert.Equal(t, int64(1000), dist.FounderAmount)
			assert.Equal(t, int64(4500), dist.DaoAmount)
			assert.Equal(t, int64(4500), dist.CharityAmount)
		})
	})
}

func TestPassthroughOverHTTP(t *testing.T) {
	st := newStack(t)

	rec := st.call(t, http.MethodPost, "/passthrough/deposit",
		models.DepositRequest{AssetID: "USD", Amount: 750}, uuid.Nil)
	testutil.AssertStatusOK(t, rec)
	testutil.AssertJSONContains(t, rec, "balance", float64(0))

	assert.Equal(t, int64(750), st.gateway.TotalTo("USD", "acct-sole"))

	rec = st.call(t, http.MethodGet, "/passthrough/balance/USD", nil, uuid.Nil)
	testutil.AssertStatusOK(t, rec)

	rec = st.call(t, http.MethodPost, "/passthrough/distribute",
		models.DistributeRequest{AssetID: "USD"}, uuid.Nil)
	testutil.AssertStatusAndError(t, rec, http.StatusConflict, "empty_balance")
}

func TestOperationalEndpoints(t *testing.T) {
	st := newStack(t)

	rec := st.call(t, http.MethodGet, "/healthz", nil, uuid.Nil)
	testutil.AssertStatusOK(t, rec)
	testutil.AssertJSONContains(t, rec, "status", "ok")

	rec = st.call(t, http.MethodGet, "/metrics", nil, uuid.Nil)
	testutil.AssertStatus(t, rec, http.StatusOK)
}
