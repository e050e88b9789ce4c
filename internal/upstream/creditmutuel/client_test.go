package creditmutuel_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebartels/banksync/internal/bank"
	"github.com/ebartels/banksync/internal/upstream/creditmutuel"
)

func newClient(t *testing.T, handler http.Handler) *creditmutuel.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := creditmutuel.New(creditmutuel.Config{
		BaseURL:  srv.URL,
		Username: "user",
		Password: "pass",
	})
	require.NoError(t, err)

	return c
}

func TestClient_Login(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "Success", status: http.StatusOK},
		{name: "BadCredentials", status: http.StatusUnauthorized, wantErr: creditmutuel.ErrAuthFailed},
		{name: "Forbidden", status: http.StatusForbidden, wantErr: creditmutuel.ErrAuthFailed},
		{name: "VendorDown", status: http.StatusServiceUnavailable, wantErr: creditmutuel.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "user", r.PostForm.Get("_cm_user"))
				assert.Equal(t, "pass", r.PostForm.Get("_cm_pwd"))

				w.WriteHeader(tt.status)
			}))

			err := c.Login(context.Background())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestClient_ListAccounts(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comptes.json", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"label":"LIVRET A","balance":"999.00","currency":"EUR","number":"XXXXXXXX"},
			{"label":"C/C EUROCOMPTE","balance":-12.5,"currency":"EUR","number":"00012345"}
		]`))
	}))

	got, err := c.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, bank.RawAccount{
		Label: "LIVRET A", Balance: "999.00", Currency: "EUR", Number: "XXXXXXXX",
	}, got[0])
	assert.Equal(t, -12.5, got[1].Balance)
}

func TestClient_ListAccounts_Latin1Body(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// "PRÊT" in Latin-1 (Ê = 0xCA), served without a charset declaration.
		_, _ = w.Write([]byte(`[{"label":"PR` + "\xca" + `T IMMO","balance":"0","currency":"EUR","number":"42"}]`))
	}))

	got, err := c.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "PRÊT IMMO", got[0].Label)
}

func TestClient_ListTransactions(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comptes/XXXXXXXX/mouvements.json", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"label":"VIR SEPA LOCATION BOX","amount":"-89.00","date":"2020-04-02","dateValue":"2020-04-02"},
			{"label":"PRLV EDF","amount":"-45.50","date":"2020-04-02","dateValue":"2020-04-03"}
		]`))
	}))

	got, err := c.ListTransactions(context.Background(), "XXXXXXXX")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "VIR SEPA LOCATION BOX", got[0].Label)
	assert.Equal(t, "PRLV EDF", got[1].Label)
}

func TestClient_ListTransactions_VendorDown(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.ListTransactions(context.Background(), "XXXXXXXX")
	assert.ErrorIs(t, err, creditmutuel.ErrUnavailable)
}

func TestClient_SessionCookieReused(t *testing.T) {
	var sawCookie bool

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/authentification.json":
			http.SetCookie(w, &http.Cookie{Name: "IdSes", Value: "abc"})
		case "/comptes.json":
			if cookie, err := r.Cookie("IdSes"); err == nil && cookie.Value == "abc" {
				sawCookie = true
			}

			_, _ = w.Write([]byte(`[]`))
		}
	}))

	require.NoError(t, c.Login(context.Background()))

	_, err := c.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.True(t, sawCookie, "session cookie from login should ride along on later calls")
}
