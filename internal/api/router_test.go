package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AlexZinkM/pack-mint/internal/journal"
	"github.com/AlexZinkM/pack-mint/internal/logging"
	"github.com/AlexZinkM/pack-mint/internal/model"
	"github.com/AlexZinkM/pack-mint/solana"
	"github.com/AlexZinkM/pack-mint/solana/solanatest"

	sol "github.com/gagliardetto/solana-go"
)

const testSecret = "s3cret"

func newTestServer(t *testing.T, chain *solanatest.Chain) *httptest.Server {
	t.Helper()
	svc := solana.NewService(chain, journal.NewMemoryStore(time.Hour), solana.Options{
		MaxQuantity: 10,
		Network:     "devnet",
		PublicURL:   "https://mint.example",
		PayLabel:    "Neon Pack Mint",
	})
	srv := httptest.NewServer(SetupRouter(svc, RouterConfig{
		APISecret:      testSecret,
		AllowedOrigins: []string{"*"},
		Logger:         logging.Discard(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postMint(t *testing.T, srv *httptest.Server, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/mint", strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Secret", testSecret)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, r io.Reader) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestRootAndHealth(t *testing.T) {
	srv := newTestServer(t, solanatest.New(10))

	for path, want := range map[string]string{"/": "Server is running!", "/healthz": "ok"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || string(body) != want {
			t.Fatalf("GET %s: %d %q", path, resp.StatusCode, body)
		}
		if resp.Header.Get("X-Request-ID") == "" {
			t.Fatalf("GET %s: missing request id", path)
		}
	}

	resp, _ := http.Get(srv.URL + "/nope")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.StatusCode)
	}
}

func TestCandyMachine(t *testing.T) {
	chain := solanatest.New(30)
	chain.Machine.ItemsRedeemed = 3
	srv := newTestServer(t, chain)

	resp, err := http.Get(srv.URL + "/api/candy-machine")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	got := decode[model.CandyMachineResponse](t, resp.Body)
	if got.Minted == nil || got.TotalSupply == nil || *got.Minted > *got.TotalSupply {
		t.Fatalf("unexpected supply %+v", got)
	}
	if *got.Remaining != 27 {
		t.Fatalf("expected 27 remaining got %d", *got.Remaining)
	}
}

func TestCandyMachineUnavailable(t *testing.T) {
	chain := solanatest.New(30)
	chain.MachineErr = solanatest.ErrInjected
	srv := newTestServer(t, chain)

	resp, _ := http.Get(srv.URL + "/api/candy-machine")
	defer resp.Body.Close()
	body := decode[model.ErrorResponse](t, resp.Body)
	if resp.StatusCode != http.StatusInternalServerError || body.Code != model.ErrorCodeMachineUnavailable {
		t.Fatalf("unexpected %d %+v", resp.StatusCode, body)
	}
	if strings.Contains(body.Error, solanatest.ErrInjected.Error()) {
		t.Fatal("downstream error text leaked to client")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, solanatest.New(10))

	resp, err := http.Get(srv.URL + "/api/mint?secret=" + testSecret)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body := decode[model.ErrorResponse](t, resp.Body)
	if resp.StatusCode != http.StatusMethodNotAllowed || body.Code != model.ErrorCodeMethodNotAllowed {
		t.Fatalf("unexpected %d %+v", resp.StatusCode, body)
	}
}

func TestMintRequiresSecret(t *testing.T) {
	srv := newTestServer(t, solanatest.New(10))

	resp, err := http.Post(srv.URL+"/api/mint", "application/json", strings.NewReader(`{"walletAddress":"x"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.StatusCode)
	}
}

func TestMintBadRequests(t *testing.T) {
	chain := solanatest.New(10)
	srv := newTestServer(t, chain)
	buyer := sol.NewWallet().PublicKey().String()

	cases := map[string]string{
		"missing wallet": `{"quantity":1}`,
		"bad json":       `{"walletAddress":`,
		"bad wallet":     `{"walletAddress":"not-a-key"}`,
		"quantity 50":    `{"walletAddress":"` + buyer + `","quantity":50}`,
		"quantity 0":     `{"walletAddress":"` + buyer + `","quantity":0}`,
		"trailing data":  `{"walletAddress":"` + buyer + `"} {"quantity":5}`,
		"trailing junk":  `{"walletAddress":"` + buyer + `"}garbage`,
	}
	for name, body := range cases {
		resp := postMint(t, srv, body, nil)
		got := decode[model.ErrorResponse](t, resp.Body)
		if resp.StatusCode != http.StatusBadRequest || got.Code != model.ErrorCodeInvalidRequest {
			t.Fatalf("%s: unexpected %d %+v", name, resp.StatusCode, got)
		}
	}
	if chain.MintCalls() != 0 {
		t.Fatalf("rejected requests must not mint, got %d calls", chain.MintCalls())
	}
}

func TestMintSuccessAndReplay(t *testing.T) {
	chain := solanatest.New(30)
	srv := newTestServer(t, chain)
	body := `{"walletAddress":"` + sol.NewWallet().PublicKey().String() + `","quantity":3}`

	resp := postMint(t, srv, body, map[string]string{"Idempotency-Key": "abc"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	if resp.Header.Get("Idempotency-Key") != "abc" {
		t.Fatalf("expected key echoed got %q", resp.Header.Get("Idempotency-Key"))
	}
	got := decode[model.MintResponse](t, resp.Body)
	if !got.Success || len(got.Results) != 3 {
		t.Fatalf("unexpected response %+v", got)
	}

	replay := postMint(t, srv, body, map[string]string{"Idempotency-Key": "abc"})
	if replay.StatusCode != http.StatusOK || replay.Header.Get("Idempotent-Replayed") != "true" {
		t.Fatalf("expected replay, got %d %q", replay.StatusCode, replay.Header.Get("Idempotent-Replayed"))
	}
	if chain.MintCalls() != 3 {
		t.Fatalf("replay minted again: %d calls", chain.MintCalls())
	}

	other := postMint(t, srv, `{"walletAddress":"`+sol.NewWallet().PublicKey().String()+`","quantity":3}`,
		map[string]string{"Idempotency-Key": "abc"})
	if other.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", other.StatusCode)
	}
}

func TestMintGeneratesIdempotencyKey(t *testing.T) {
	srv := newTestServer(t, solanatest.New(30))
	resp := postMint(t, srv, `{"walletAddress":"`+sol.NewWallet().PublicKey().String()+`"}`, nil)
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Idempotency-Key") == "" {
		t.Fatalf("expected generated key, got %d %q", resp.StatusCode, resp.Header.Get("Idempotency-Key"))
	}
}

func TestMintPartialFailure(t *testing.T) {
	chain := solanatest.New(30)
	chain.FailMintAt = 2
	srv := newTestServer(t, chain)
	body := `{"walletAddress":"` + sol.NewWallet().PublicKey().String() + `","quantity":3}`

	resp := postMint(t, srv, body, map[string]string{"Idempotency-Key": "partial"})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.StatusCode)
	}
	got := decode[model.MintResponse](t, resp.Body)
	if got.Success || got.Code != model.ErrorCodeMintFailed || len(got.Results) != 1 {
		t.Fatalf("unexpected partial response %+v", got)
	}

	retry := postMint(t, srv, body, map[string]string{"Idempotency-Key": "partial"})
	done := decode[model.MintResponse](t, retry.Body)
	if retry.StatusCode != http.StatusOK || len(done.Results) != 3 || chain.Minted() != 3 {
		t.Fatalf("retry: %d %+v minted=%d", retry.StatusCode, done, chain.Minted())
	}
}

func TestMintSoldOut(t *testing.T) {
	chain := solanatest.New(2)
	chain.Machine.ItemsRedeemed = 2
	srv := newTestServer(t, chain)

	resp := postMint(t, srv, `{"walletAddress":"`+sol.NewWallet().PublicKey().String()+`"}`, nil)
	got := decode[model.MintResponse](t, resp.Body)
	if resp.StatusCode != http.StatusConflict || got.Code != model.ErrorCodeSoldOut {
		t.Fatalf("unexpected %d %+v", resp.StatusCode, got)
	}
}

func TestMintSaleEnded(t *testing.T) {
	chain := solanatest.New(5)
	ended := time.Now().Add(-time.Hour)
	chain.Machine.Guard.EndDate = &ended
	srv := newTestServer(t, chain)

	resp := postMint(t, srv, `{"walletAddress":"`+sol.NewWallet().PublicKey().String()+`"}`, nil)
	got := decode[model.MintResponse](t, resp.Body)
	if resp.StatusCode != http.StatusConflict || got.Code != model.ErrorCodeSaleEnded {
		t.Fatalf("unexpected %d %+v", resp.StatusCode, got)
	}
}

func TestTransactionRequest(t *testing.T) {
	srv := newTestServer(t, solanatest.New(10))

	resp, err := http.Get(srv.URL + "/api/mint/transaction")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	info := decode[model.TransactionRequestInfo](t, resp.Body)
	resp.Body.Close()
	if info.Label != "Neon Pack Mint" {
		t.Fatalf("unexpected label %q", info.Label)
	}

	payload, _ := json.Marshal(model.TransactionRequest{Account: sol.NewWallet().PublicKey().String()})
	resp, err = http.Post(srv.URL+"/api/mint/transaction", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	tx := decode[model.TransactionResponse](t, resp.Body)
	if resp.StatusCode != http.StatusOK || tx.Transaction == "" || tx.MintAddress == "" {
		t.Fatalf("unexpected %d %+v", resp.StatusCode, tx)
	}
}

func TestQRCode(t *testing.T) {
	srv := newTestServer(t, solanatest.New(10))

	resp, err := http.Get(srv.URL + "/api/mint/qr")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("unexpected %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestTransactionStatusAndBalance(t *testing.T) {
	chain := solanatest.New(10)
	sig := sol.Signature{8}
	chain.Statuses[sig] = model.TransactionStatusFinalized
	owner := sol.NewWallet().PublicKey()
	chain.Balances[owner] = 42
	srv := newTestServer(t, chain)

	resp, _ := http.Get(srv.URL + "/api/transactions/" + sig.String())
	st := decode[model.TransactionStatusResponse](t, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || st.Status != model.TransactionStatusFinalized {
		t.Fatalf("unexpected %d %+v", resp.StatusCode, st)
	}

	resp, _ = http.Get(srv.URL + "/api/transactions/bogus!")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.StatusCode)
	}

	resp, _ = http.Get(srv.URL + "/api/wallets/" + owner.String() + "/balance")
	bal := decode[model.BalanceResponse](t, resp.Body)
	resp.Body.Close()
	if bal.Lamports != 42 || bal.SOL != "0.000000042" {
		t.Fatalf("unexpected balance %+v", bal)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, solanatest.New(10))

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/mint", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-API-Secret")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Fatal("expected CORS headers on preflight")
	}
}

func TestSwaggerDoc(t *testing.T) {
	srv := newTestServer(t, solanatest.New(10))

	resp, err := http.Get(srv.URL + "/swagger/doc.json")
	if err != nil {
		t.Fatalf("GET doc.json: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	if !bytes.Contains(body, []byte("/api/mint")) {
		t.Fatal("doc.json does not describe /api/mint")
	}
}
