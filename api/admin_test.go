// Copyright (c) 2025 The OpenStake developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openstake/openstake/log"
	"github.com/openstake/openstake/tick"
)

func startTestAdmin(t *testing.T, healthErr error) (string, *slog.LevelVar, *atomic.Bool, *tick.Manual) {
	t.Helper()

	level := &slog.LevelVar{}
	level.Set(log.LevelInfo)
	logReqs := &atomic.Bool{}
	ticker := tick.NewManual(0)

	admin := NewAdmin("127.0.0.1:0", level, logReqs, false).
		WithHealthCheck(func() error { return healthErr }).
		WithManualTicker(ticker)

	url, cancel, err := admin.Start()
	require.NoError(t, err)
	t.Cleanup(cancel)
	return url, level, logReqs, ticker
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(res.Body)
	require.NoError(t, err)
	return res, out.Bytes()
}

func TestAdminLogLevel(t *testing.T) {
	url, level, _, _ := startTestAdmin(t, nil)

	res, err := http.Get(url + "/loglevel")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	r, body := postJSON(t, url+"/loglevel", map[string]string{"level": "debug"})
	assert.Equal(t, http.StatusOK, r.StatusCode, string(body))
	assert.Equal(t, log.LevelDebug, level.Level())

	r, _ = postJSON(t, url+"/loglevel", map[string]string{"level": "bogus"})
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	assert.Equal(t, log.LevelDebug, level.Level())
}

func TestAdminRequestLoggerToggle(t *testing.T) {
	url, _, logReqs, _ := startTestAdmin(t, nil)

	enabled := true
	r, _ := postJSON(t, url+"/apilogs", map[string]*bool{"enabled": &enabled})
	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.True(t, logReqs.Load())

	r, _ = postJSON(t, url+"/apilogs", map[string]*bool{"enabled": nil})
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
}

func TestAdminHealth(t *testing.T) {
	url, _, _, _ := startTestAdmin(t, nil)

	res, err := http.Get(url + "/health")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	badURL, _, _, _ := startTestAdmin(t, errors.New("store closed"))
	res, err = http.Get(badURL + "/health")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestAdminTick(t *testing.T) {
	url, _, _, ticker := startTestAdmin(t, nil)

	r, body := postJSON(t, url+"/tick", map[string]uint32{"advance": 42})
	assert.Equal(t, http.StatusOK, r.StatusCode, string(body))

	var out struct {
		TimeReference uint32 `json:"timeReference"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, uint32(42), out.TimeReference)
	assert.Equal(t, uint32(42), ticker.Now())
}
