package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/visawatch/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valuesResponse = `{
  "range": "Students!A1:D4",
  "majorDimension": "ROWS",
  "values": [
    ["Name", "Email", "Visa Expiry", "Registration Expiry"],
    ["Ada", "ada@example.edu", "05-01-2025", "20-03-2025"],
    ["", "", ""],
    ["Grace", "grace@example.edu", "10-01-2025"]
  ]
}`

func newTestReader(t *testing.T, config Config, handler http.HandlerFunc) *Reader {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	srv, err := sheets.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	return NewReaderWithService(srv, config, nil)
}

func testConfig() Config {
	return Config{
		ServiceAccountPath: "unused.json",
		SpreadsheetID:      "sheet-123",
		Range:              "Students!A:D",
		RetryAttempts:      2,
		RetryDelay:         time.Millisecond,
	}
}

func TestReader_Load(t *testing.T) {
	var path, render string
	reader := newTestReader(t, testConfig(), func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		render = r.URL.Query().Get("valueRenderOption")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(valuesResponse))
	})

	tbl, err := reader.Load(context.Background())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/v4/spreadsheets/sheet-123/values/"), path)
	assert.Equal(t, "FORMATTED_VALUE", render)
	assert.Equal(t, []string{"Name", "Email", "Visa Expiry", "Registration Expiry"}, tbl.Columns)
	require.Len(t, tbl.Records, 2, "blank rows are dropped")
	assert.Equal(t, "05-01-2025", tbl.Records[0].Value("Visa Expiry"))
	assert.Equal(t, "", tbl.Records[1].Value("Registration Expiry"), "short rows are padded")
	assert.Contains(t, tbl.Source, "sheet-123")
}

func TestReader_Load_Empty(t *testing.T) {
	reader := newTestReader(t, testConfig(), func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"A1:A1","values":[["Name","Email"]]}`))
	})

	_, err := reader.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrEmptyTable)
}

func TestReader_Load_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	reader := newTestReader(t, testConfig(), func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"error":{"code":503,"message":"backend unavailable"}}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(valuesResponse))
	})

	tbl, err := reader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, tbl.Records, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestReader_Load_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	reader := newTestReader(t, testConfig(), func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found."}}`))
	})

	_, err := reader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Equal(t, int32(1), calls.Load())
}

func TestReader_Load_GivesUp(t *testing.T) {
	var calls atomic.Int32
	reader := newTestReader(t, testConfig(), func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := reader.Load(context.Background())
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNewReader_InvalidConfig(t *testing.T) {
	_, err := NewReader(context.Background(), Config{}, nil)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestNewReader_MissingKeyFile(t *testing.T) {
	config := testConfig()
	config.ServiceAccountPath = t.TempDir() + "/missing.json"

	_, err := NewReader(context.Background(), config, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to read service account key file")
}
