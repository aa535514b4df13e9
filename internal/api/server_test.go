package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/boostly-network/boostly/internal/app/campaign"
	"github.com/boostly-network/boostly/internal/app/identity"
	"github.com/boostly-network/boostly/internal/app/ledger"
	"github.com/boostly-network/boostly/internal/app/storefront"
	"github.com/boostly-network/boostly/internal/domain"
	"github.com/boostly-network/boostly/internal/infra/sqlite"
	"github.com/boostly-network/boostly/internal/store"
)

// ─── API Tests ──────────────────────────────────────────────────────────────

func setupServer(t *testing.T) (*Server, http.Handler, *store.Store) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	lg := ledger.NewService(st)
	srv := NewServer(st,
		identity.NewService(st, lg),
		lg,
		campaign.NewService(st, lg),
		storefront.NewService(st, lg, 0),
	)
	srv.SetHub(NewCampaignHub())
	return srv, srv.Handler(), st
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set(sessionHeader, token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// signIn signs a username in and returns the token and account id.
func signIn(t *testing.T, h http.Handler, username string) (string, string) {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/session", "", map[string]string{"username": username})
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in %s: status %d: %s", username, w.Code, w.Body)
	}
	var resp struct {
		Token   string         `json:"token"`
		Account domain.Account `json:"account"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode sign-in: %v", err)
	}
	return resp.Token, resp.Account.ID
}

func TestHealth(t *testing.T) {
	_, h, _ := setupServer(t)
	w := doJSON(t, h, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSignIn_IssuesTokenAndBonus(t *testing.T) {
	_, h, _ := setupServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/session", "", map[string]string{"username": "maya"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["token"] == "" || resp["token"] == nil {
		t.Error("expected a session token")
	}
	account := resp["account"].(map[string]interface{})
	if account["coins"] != float64(identity.SignupBonus) {
		t.Errorf("coins = %v, want %d", account["coins"], identity.SignupBonus)
	}
}

func TestSignIn_EmptyUsername(t *testing.T) {
	_, h, _ := setupServer(t)
	w := doJSON(t, h, http.MethodPost, "/api/session", "", map[string]string{"username": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestMe_RequiresSession(t *testing.T) {
	_, h, _ := setupServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/me", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", w.Code)
	}
	w = doJSON(t, h, http.MethodGet, "/api/me", "bogus", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected 401, got %d", w.Code)
	}
}

func TestSignOut_RevokesToken(t *testing.T) {
	_, h, _ := setupServer(t)
	token, _ := signIn(t, h, "maya")

	w := doJSON(t, h, http.MethodDelete, "/api/session", token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = doJSON(t, h, http.MethodGet, "/api/me", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after sign-out, got %d", w.Code)
	}
}

func TestCampaignLifecycle_OverHTTP(t *testing.T) {
	_, h, st := setupServer(t)
	ownerToken, ownerID := signIn(t, h, "owner")
	workerToken, _ := signIn(t, h, "worker")

	// Owner needs more than the signup bonus for a 10x30 campaign.
	lg := ledger.NewService(st)
	if _, err := lg.SetBalance(ownerID, 500); err != nil {
		t.Fatalf("SetBalance() error: %v", err)
	}

	// Create
	w := doJSON(t, h, http.MethodPost, "/api/campaigns/", ownerToken, map[string]interface{}{
		"platform":        "youtube",
		"kind":            "view",
		"url":             "https://youtube.com/watch?v=abc",
		"description":     "Watch my video",
		"rewardPerAction": 10,
		"totalActions":    30,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body)
	}
	var created domain.Campaign
	json.Unmarshal(w.Body.Bytes(), &created)

	// Owner is down to 200 after the 300-coin escrow.
	w = doJSON(t, h, http.MethodGet, "/api/me", ownerToken, nil)
	var me domain.Account
	json.Unmarshal(w.Body.Bytes(), &me)
	if me.Coins != 200 {
		t.Errorf("owner coins = %d, want 200", me.Coins)
	}

	// Worker sees it in the feed, owner does not.
	w = doJSON(t, h, http.MethodGet, "/api/campaigns/", workerToken, nil)
	var feed struct {
		Campaigns []domain.Campaign `json:"campaigns"`
	}
	json.Unmarshal(w.Body.Bytes(), &feed)
	if len(feed.Campaigns) != 1 {
		t.Fatalf("worker feed = %d campaigns, want 1", len(feed.Campaigns))
	}
	w = doJSON(t, h, http.MethodGet, "/api/campaigns/", ownerToken, nil)
	json.Unmarshal(w.Body.Bytes(), &feed)
	if len(feed.Campaigns) != 0 {
		t.Errorf("owner feed = %d campaigns, want 0", len(feed.Campaigns))
	}

	// Worker fulfills and earns the reward.
	w = doJSON(t, h, http.MethodPost, "/api/campaigns/"+created.ID+"/fulfill", workerToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("fulfill: expected 200, got %d: %s", w.Code, w.Body)
	}
	var fulfilled struct {
		Campaign domain.Campaign `json:"campaign"`
		Account  domain.Account  `json:"account"`
	}
	json.Unmarshal(w.Body.Bytes(), &fulfilled)
	if fulfilled.Campaign.CompletedActions != 1 {
		t.Errorf("completed = %d, want 1", fulfilled.Campaign.CompletedActions)
	}
	if fulfilled.Account.Coins != identity.SignupBonus+10 {
		t.Errorf("worker coins = %d, want %d", fulfilled.Account.Coins, identity.SignupBonus+10)
	}

	// Owner fulfilling their own campaign is forbidden.
	w = doJSON(t, h, http.MethodPost, "/api/campaigns/"+created.ID+"/fulfill", ownerToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("own fulfill: expected 403, got %d", w.Code)
	}

	// Edit down; refund lands on the owner.
	w = doJSON(t, h, http.MethodPatch, "/api/campaigns/"+created.ID, ownerToken, map[string]interface{}{
		"rewardPerAction": 5,
		"description":     "Cheaper now",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("edit: expected 200, got %d: %s", w.Code, w.Body)
	}

	// Delete forfeits the rest.
	w = doJSON(t, h, http.MethodDelete, "/api/campaigns/"+created.ID, ownerToken, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	w = doJSON(t, h, http.MethodGet, "/api/campaigns/"+created.ID, ownerToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get deleted: expected 404, got %d", w.Code)
	}
}

func TestCreateCampaign_InsufficientFunds(t *testing.T) {
	_, h, _ := setupServer(t)
	token, _ := signIn(t, h, "poor") // 200 coin bonus

	w := doJSON(t, h, http.MethodPost, "/api/campaigns/", token, map[string]interface{}{
		"platform":        "youtube",
		"kind":            "view",
		"url":             "https://youtube.com/watch?v=abc",
		"description":     "Too rich for me",
		"rewardPerAction": 10,
		"totalActions":    100,
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d: %s", w.Code, w.Body)
	}
}

func TestCreateCampaign_ValidationErrors(t *testing.T) {
	_, h, _ := setupServer(t)
	token, _ := signIn(t, h, "maya")

	w := doJSON(t, h, http.MethodPost, "/api/campaigns/", token, map[string]interface{}{
		"platform":        "myspace",
		"kind":            "view",
		"url":             "https://example.com",
		"description":     "x",
		"rewardPerAction": 10,
		"totalActions":    5,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad platform: expected 400, got %d", w.Code)
	}
}

func TestTransactions_History(t *testing.T) {
	_, h, _ := setupServer(t)
	token, _ := signIn(t, h, "maya")

	w := doJSON(t, h, http.MethodGet, "/api/me/transactions", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Transactions) != 1 || resp.Transactions[0].Kind != domain.TxBonus {
		t.Errorf("expected only the signup bonus, got %+v", resp.Transactions)
	}
}

func TestPurchase_OverHTTP(t *testing.T) {
	_, h, st := setupServer(t)
	if err := st.Seed(); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	token, _ := signIn(t, h, "buyer")

	w := doJSON(t, h, http.MethodGet, "/api/packages", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("packages: expected 200, got %d", w.Code)
	}
	var catalog struct {
		Packages []storefront.PricedPackage `json:"packages"`
	}
	json.Unmarshal(w.Body.Bytes(), &catalog)
	if len(catalog.Packages) != 3 {
		t.Fatalf("packages = %d, want 3", len(catalog.Packages))
	}

	pkg := catalog.Packages[0]
	w = doJSON(t, h, http.MethodPost, "/api/packages/"+pkg.ID+"/purchase", token,
		map[string]string{"method": "pix"})
	if w.Code != http.StatusOK {
		t.Fatalf("purchase: expected 200, got %d: %s", w.Code, w.Body)
	}
	var account domain.Account
	json.Unmarshal(w.Body.Bytes(), &account)
	if account.Coins != identity.SignupBonus+pkg.Coins {
		t.Errorf("coins = %d, want %d", account.Coins, identity.SignupBonus+pkg.Coins)
	}

	w = doJSON(t, h, http.MethodPost, "/api/packages/"+pkg.ID+"/purchase", token,
		map[string]string{"method": "barter"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad method: expected 400, got %d", w.Code)
	}
}

func TestAdmin_RequiresRole(t *testing.T) {
	_, h, st := setupServer(t)
	if err := st.Seed(); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	userToken, _ := signIn(t, h, "pleb")

	w := doJSON(t, h, http.MethodGet, "/api/admin/accounts", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("standard user: expected 403, got %d", w.Code)
	}

	// The seeded admin account passes the role check.
	adminToken, _ := signIn(t, h, "admin")
	w = doJSON(t, h, http.MethodGet, "/api/admin/accounts?q=pleb", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d: %s", w.Code, w.Body)
	}
	var resp struct {
		Accounts []domain.Account `json:"accounts"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Accounts) != 1 || resp.Accounts[0].Username != "pleb" {
		t.Errorf("search = %+v, want just pleb", resp.Accounts)
	}
}

func TestAdmin_SetBalanceAndConfig(t *testing.T) {
	_, h, st := setupServer(t)
	if err := st.Seed(); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	adminToken, _ := signIn(t, h, "admin")
	_, userID := signIn(t, h, "target")

	w := doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/admin/accounts/%s/balance", userID),
		adminToken, map[string]int64{"coins": 12345})
	if w.Code != http.StatusOK {
		t.Fatalf("set balance: expected 200, got %d: %s", w.Code, w.Body)
	}
	var account domain.Account
	json.Unmarshal(w.Body.Bytes(), &account)
	if account.Coins != 12345 {
		t.Errorf("coins = %d, want 12345", account.Coins)
	}

	w = doJSON(t, h, http.MethodPut, "/api/admin/config", adminToken, domain.SystemConfig{
		MinRewardPerAction:  8,
		TaskFeePercent:      15,
		CoinPriceMultiplier: 1.5,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("set config: expected 200, got %d: %s", w.Code, w.Body)
	}
	cfg, _, _ := st.GetSystemConfig()
	if cfg.MinRewardPerAction != 8 {
		t.Errorf("MinRewardPerAction = %d, want 8", cfg.MinRewardPerAction)
	}
}

// ─── Campaign Hub Tests ─────────────────────────────────────────────────────

func TestCampaignHub_BroadcastAndSubscribe(t *testing.T) {
	hub := NewCampaignHub()

	ch, unsub := hub.Subscribe()
	defer unsub()

	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", hub.ClientCount())
	}

	hub.Broadcast([]domain.Campaign{{ID: "c1", CompletedActions: 7}})

	select {
	case data := <-ch:
		var received ProgressEvent
		if err := json.Unmarshal(data, &received); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if received.Type != "campaign_progress" {
			t.Errorf("type = %q, want campaign_progress", received.Type)
		}
		if len(received.Campaigns) != 1 || received.Campaigns[0].CompletedActions != 7 {
			t.Errorf("campaigns = %+v", received.Campaigns)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for broadcast")
	}
}

func TestCampaignHub_Unsubscribe(t *testing.T) {
	hub := NewCampaignHub()

	_, unsub := hub.Subscribe()
	if hub.ClientCount() != 1 {
		t.Errorf("expected 1, got %d", hub.ClientCount())
	}
	unsub()
	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 after unsub, got %d", hub.ClientCount())
	}
}

func TestLiveFeed_WithoutHub_Unavailable(t *testing.T) {
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	lg := ledger.NewService(st)
	srv := NewServer(st,
		identity.NewService(st, lg),
		lg,
		campaign.NewService(st, lg),
		storefront.NewService(st, lg, 0),
	)
	// No hub set: the live route must still answer, not fall through to
	// the campaign-by-id handler.
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/campaigns/live", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
	if body := rec.Body.String(); strings.Contains(body, "campaign not found") {
		t.Errorf("live route fell through to campaign lookup: %s", body)
	}
}

func TestCampaignHub_SSE_Endpoint(t *testing.T) {
	hub := NewCampaignHub()

	server := httptest.NewServer(http.HandlerFunc(hub.HandleLiveSSE))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Type") != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %s", resp.Header.Get("Content-Type"))
	}

	// Wait for the handler goroutine to register before broadcasting.
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Broadcast([]domain.Campaign{{ID: "c1"}})

	buf := make([]byte, 4096)
	n, err := resp.Body.Read(buf)
	if err != nil && err != io.EOF {
		t.Fatalf("read: %v", err)
	}
	if n == 0 {
		t.Fatal("expected SSE data")
	}
}
