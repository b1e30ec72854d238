package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franco-bianco/solana-lp-resolver/chain/chaintest"
	"github.com/franco-bianco/solana-lp-resolver/lpresolve"
	"github.com/franco-bianco/solana-lp-resolver/types"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fake := chaintest.New()
	mintAddr := chaintest.Key(1)
	data := make([]byte, 82)
	data[44] = 6
	data[45] = 1
	fake.SetAccount(mintAddr, types.TOKEN_PROGRAM_ID, data)

	resolver := lpresolve.New(fake, lpresolve.WithPoolAPI(nil))
	server := httptest.NewServer(newMux(resolver, 5*time.Second))
	t.Cleanup(server.Close)
	return server
}

func TestResolveEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/resolve?address=" + chaintest.Key(1).String())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res types.Resolution
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, types.OUTCOME_RESOLVED, res.Outcome)
	require.NotNil(t, res.Mint)
	assert.EqualValues(t, 6, res.Mint.Decimals)
}

func TestResolveEndpoint_Errors(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/resolve?address=nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(server.URL+"/resolve", "application/json", strings.NewReader(`{"address":"`+chaintest.Key(2).String()+`"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/resolve", nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
