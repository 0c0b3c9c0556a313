package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittogether/fittogether/internal/models"
	"github.com/fittogether/fittogether/internal/models/dto"
)

func loginToken(t *testing.T, env *testEnv, email, password string) string {
	t.Helper()
	res := postJSON(t, env, "/users/token", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, res.Code)
	var body dto.TokenResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body.AccessToken
}

func createWorkout(t *testing.T, env *testEnv, token, title string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"title": title})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/workouts", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	env.ServeHTTP(res, req)
	return res
}

func TestCreateWorkoutRequiresToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	res := createWorkout(t, env, "", "Morning run")
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	res = createWorkout(t, env, "garbage-string", "Morning run")
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestCreateWorkoutAttachesAuthenticatedUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	user := register(t, env, "a@x.com", "pw1pw1pw1")
	token := loginToken(t, env, "a@x.com", "pw1pw1pw1")

	res := createWorkout(t, env, token, "Morning run")
	require.Equal(t, http.StatusCreated, res.Code)

	var workout models.Workout
	require.NoError(t, json.NewDecoder(res.Body).Decode(&workout))
	assert.Equal(t, user.ID, workout.UserID)
	assert.Equal(t, "Morning run", workout.Title)
}

// A token whose subject has been deleted must fail exactly like garbage.
func TestCreateWorkoutDeletedIdentity(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	register(t, env, "a@x.com", "pw1pw1pw1")
	token := loginToken(t, env, "a@x.com", "pw1pw1pw1")

	delete(env.users.users, "a@x.com")

	deleted := createWorkout(t, env, token, "Morning run")
	garbage := createWorkout(t, env, "garbage-string", "Morning run")
	assert.Equal(t, http.StatusUnauthorized, deleted.Code)
	assert.Equal(t, garbage.Body.String(), deleted.Body.String())
}

func TestCreateWorkoutValidatesPayload(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	register(t, env, "a@x.com", "pw1pw1pw1")
	token := loginToken(t, env, "a@x.com", "pw1pw1pw1")

	res := createWorkout(t, env, token, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestListWorkoutsNewestFirst(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	register(t, env, "a@x.com", "pw1pw1pw1")
	token := loginToken(t, env, "a@x.com", "pw1pw1pw1")

	for _, title := range []string{"first", "second", "third"} {
		res := createWorkout(t, env, token, title)
		require.Equal(t, http.StatusCreated, res.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/workouts?limit=2", nil)
	res := httptest.NewRecorder()
	env.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	var workouts []models.Workout
	require.NoError(t, json.NewDecoder(res.Body).Decode(&workouts))
	require.Len(t, workouts, 2)
	assert.Equal(t, "third", workouts[0].Title)
	assert.Equal(t, "second", workouts[1].Title)
}

func TestListWorkoutsValidatesPagination(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	for _, query := range []string{"limit=0", "limit=101", "limit=abc", "offset=-1", "offset=abc"} {
		req := httptest.NewRequest(http.MethodGet, "/workouts?"+query, nil)
		res := httptest.NewRecorder()
		env.ServeHTTP(res, req)
		assert.Equal(t, http.StatusBadRequest, res.Code, query)
	}
}
