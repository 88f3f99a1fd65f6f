package runpod

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/efortin/podctl/pkg/provider"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", WithBaseURL(server.URL))
}

func TestListGPUTypes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/gputypes", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "NVIDIA A40", "displayName": "A40", "memoryInGb": 48,
			 "communityCloud": true, "communitySpotPrice": 0.18},
			{"id": "NVIDIA L4", "displayName": "L4", "memoryInGb": 24,
			 "secureCloud": true, "secureSpotPrice": 0.28}
		]`))
	})

	types, err := client.ListGPUTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 2)

	assert.Equal(t, "NVIDIA A40", types[0].ID)
	assert.Equal(t, 48, types[0].MemoryGB)
	require.NotNil(t, types[0].CommunitySpotPrice)
	assert.Equal(t, 0.18, *types[0].CommunitySpotPrice)
	assert.Nil(t, types[0].SecureSpotPrice)

	price, ok := types[1].SpotPrice()
	assert.True(t, ok)
	assert.Equal(t, 0.28, price)
}

func TestListPods(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pods", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id": "abc", "name": "proj-main-1700000000", "desiredStatus": "RUNNING",
			 "imageName": "img:main", "gpuTypeId": "NVIDIA A40", "gpuCount": 1, "costPerHr": 0.18}
		]`))
	})

	pods, err := client.ListPods(context.Background())
	require.NoError(t, err)
	require.Len(t, pods, 1)
	assert.Equal(t, "abc", pods[0].ID)
	assert.Equal(t, "proj-main-1700000000", pods[0].Name)
	assert.Equal(t, "RUNNING", pods[0].DesiredStatus)
	assert.Equal(t, 0.18, pods[0].CostPerHour)
}

func TestCreatePod(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pods", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "proj-main-1700000000", body["name"])
		assert.Equal(t, "NVIDIA A40", body["gpuTypeId"])
		assert.Equal(t, float64(20), body["containerDiskInGb"])
		env, _ := body["env"].(map[string]any)
		assert.Equal(t, "main", env["POD_TYPE"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "new-pod", "name": "proj-main-1700000000", "desiredStatus": "RUNNING"}`))
	})

	pod, err := client.CreatePod(context.Background(), provider.CreatePodRequest{
		Name:            "proj-main-1700000000",
		ImageName:       "img:main",
		GPUTypeID:       "NVIDIA A40",
		GPUCount:        1,
		ContainerDiskGB: 20,
		Env:             map[string]string{"POD_TYPE": "main"},
	})
	require.NoError(t, err)
	assert.Equal(t, "new-pod", pod.ID)
}

func TestCreatePodCapacityRejection(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no instances", `{"error": "There are no longer any instances available with the requested specifications."}`},
		{"insufficient funds", `{"error": "Insufficient funds to rent this instance."}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.CreatePod(context.Background(), provider.CreatePodRequest{GPUTypeID: "NVIDIA A40"})

			require.Error(t, err)
			assert.True(t, provider.IsCapacity(err), "expected a capacity error, got %v", err)
			var capErr *provider.CapacityError
			require.ErrorAs(t, err, &capErr)
			assert.Equal(t, "NVIDIA A40", capErr.GPUTypeID)
		})
	}
}

func TestCreatePodAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "invalid api key"}`))
	})

	_, err := client.CreatePod(context.Background(), provider.CreatePodRequest{GPUTypeID: "NVIDIA A40"})

	require.Error(t, err)
	assert.False(t, provider.IsCapacity(err))
	var apiErr *provider.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid api key", apiErr.Message)
	assert.False(t, provider.IsTransient(err))
}

func TestServerErrorIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream timeout"))
	})

	_, err := client.ListPods(context.Background())

	require.Error(t, err)
	assert.True(t, provider.IsTransient(err))
	var apiErr *provider.APIError
	require.ErrorAs(t, err, &apiErr)
	// A non-JSON error body is kept verbatim.
	assert.Equal(t, "upstream timeout", apiErr.Message)
}

func TestStartStopTerminateRoutes(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody = nil
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	})
	ctx := context.Background()

	require.NoError(t, client.StartPod(ctx, "p1", 2))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/pods/p1/start", gotPath)
	assert.Equal(t, float64(2), gotBody["gpuCount"])

	require.NoError(t, client.StopPod(ctx, "p1"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/pods/p1/stop", gotPath)

	require.NoError(t, client.TerminatePod(ctx, "p1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/pods/p1", gotPath)
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	client := NewClient("key", WithBaseURL("https://example.test/v1/"))
	assert.Equal(t, "https://example.test/v1", client.baseURL)
}
