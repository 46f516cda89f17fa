package game

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fairdice/internal/fair"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc, st, _ := newTestService(t)

	app := fiber.New()
	RegisterRoutes(app.Group("/api"), svc, st)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func TestCreateMatchEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, data := doJSON(t, app, http.MethodPost, "/api/matches", CreateMatchRequest{Dice: specs()})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	var step StepResponse
	require.NoError(t, json.Unmarshal(data, &step))
	assert.NotEmpty(t, step.MatchID)
	assert.Equal(t, "first_move_guess", step.Phase)
}

func TestCreateMatchRejectsBadDice(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/matches", CreateMatchRequest{Dice: []string{"1,2,3,4,5,6"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/matches",
		CreateMatchRequest{Dice: []string{"1,2,x,4,5,6", "1,2,3,4,5,6", "1,2,3,4,5,6"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInputEndpoint(t *testing.T) {
	app := newTestApp(t)

	_, data := doJSON(t, app, http.MethodPost, "/api/matches", CreateMatchRequest{Dice: specs()})
	var created StepResponse
	require.NoError(t, json.Unmarshal(data, &created))

	n := 1
	resp, data := doJSON(t, app, http.MethodPost, "/api/matches/"+created.MatchID+"/input",
		InputRequest{Number: &n})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var step StepResponse
	require.NoError(t, json.Unmarshal(data, &step))
	assert.Equal(t, "dice_choice", step.Phase)
	require.Len(t, step.Rounds, 1)
	assert.True(t, fair.Verify(step.Rounds[0].Commitment, step.Rounds[0].Key, step.Rounds[0].HouseValue))

	// Out-of-range addend.
	n = 7
	resp, _ = doJSON(t, app, http.MethodPost, "/api/matches/"+created.MatchID+"/input",
		InputRequest{Number: &n})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Neither number nor action.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/matches/"+created.MatchID+"/input", InputRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/matches/missing/input", InputRequest{Action: "cancel"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVerifyEndpoint(t *testing.T) {
	app := newTestApp(t)

	g, err := fair.NewGenerator(6)
	require.NoError(t, err)
	v, comm, err := g.Generate()
	require.NoError(t, err)

	resp, data := doJSON(t, app, http.MethodPost, "/api/verify",
		VerifyRequest{Hmac: comm, Key: g.Key(), Value: v})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out VerifyResponse
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.Valid)

	resp, data = doJSON(t, app, http.MethodPost, "/api/verify",
		VerifyRequest{Hmac: comm, Key: g.Key(), Value: v + 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(data, &out))
	assert.False(t, out.Valid, "tampered value must not verify")
}

func TestOddsEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, data := doJSON(t, app, http.MethodGet,
		"/api/odds?dice=2,2,4,4,9,9&dice=1,1,6,6,8,8&dice=3,3,5,5,7,7", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "0.5556")

	resp, _ = doJSON(t, app, http.MethodGet, "/api/odds?dice=1,2,3,4,5,6", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatsEndpoint(t *testing.T) {
	app := newTestApp(t)

	_, data := doJSON(t, app, http.MethodPost, "/api/matches", CreateMatchRequest{Dice: specs()})
	var created StepResponse
	require.NoError(t, json.Unmarshal(data, &created))

	resp, _ := doJSON(t, app, http.MethodPost, "/api/matches/"+created.MatchID+"/input",
		InputRequest{Action: "cancel"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data = doJSON(t, app, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats map[string]int
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, 1, stats["cancelled"])
}

func TestRoundsEndpointReplaysAuditTrail(t *testing.T) {
	app := newTestApp(t)

	_, data := doJSON(t, app, http.MethodPost, "/api/matches", CreateMatchRequest{Dice: specs()})
	var created StepResponse
	require.NoError(t, json.Unmarshal(data, &created))

	n := 0
	resp, _ := doJSON(t, app, http.MethodPost, "/api/matches/"+created.MatchID+"/input",
		InputRequest{Number: &n})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data = doJSON(t, app, http.MethodGet, "/api/matches/"+created.MatchID+"/rounds", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		MatchID string        `json:"match_id"`
		Rounds  []RoundRecord `json:"rounds"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, created.MatchID, out.MatchID)
	require.Len(t, out.Rounds, 1)
	assert.Equal(t, PurposeFirstMove, out.Rounds[0].Purpose)
	assert.True(t, fair.Verify(out.Rounds[0].Commitment, out.Rounds[0].Key, out.Rounds[0].HouseValue))

	// A match with no revealed rounds has no audit trail to replay.
	resp, _ = doJSON(t, app, http.MethodGet, "/api/matches/missing/rounds", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
