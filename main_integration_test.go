package main_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAppBinary         = "./hilton_test_app" // Name for the test binary
	testAppPort           = "8089"              // Port for the test server
	testServiceApiPortApi = "8093"              // Service API of the API process
	testServiceApiPortBg  = "8094"              // Service API of the BG process
	testAppURL            = "http://localhost:" + testAppPort
	testServiceApiURL     = "http://localhost:" + testServiceApiPortApi
	startupTimeout        = 15 * time.Second
	pingEndpoint          = testAppURL + "/v1/ping"
)

// exportDir is shared by the test and the worker process.
var exportDir string

// fakeUpstream stands in for the marketplace REST API.
func fakeUpstream() *httptest.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/property/all", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"content": []gin.H{
				{"propertyId": 1, "title": "Sea View", "listingType": "sale", "price": 9000000, "status": "approved"},
				{"propertyId": 2, "title": "City Flat", "listingType": "rent", "monthlyRent": 25000, "deposit": 50000, "status": "approved"},
				{"propertyId": 3, "title": "Hill Cottage", "listingType": "sale", "price": 4000000, "status": "pending"},
			},
			"totalPages":    1,
			"totalElements": 3,
		})
	})
	r.GET("/property/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"propertyId": id, "title": "Listing " + c.Param("id")})
	})
	r.GET("/enquiry/property/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"content": []gin.H{}, "totalElements": 1})
	})
	r.POST("/api/admin/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"token": "integration-token"})
	})
	return httptest.NewServer(r)
}

// TestMain builds the binary and runs it in api and bg mode against a fake
// upstream. Redis is required; without REDIS_ADDR the suite is skipped.
func TestMain(m *testing.M) {
	godotenv.Load()
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Println("REDIS_ADDR not set, skipping integration tests")
		return
	}

	defer func() {
		log.Println("Integration Test Teardown: Cleaning up test binary...")
		_ = os.Remove(testAppBinary)
	}()

	log.Println("Integration Test Setup: Building application...")
	buildCmd := exec.Command("go", "build", "-o", testAppBinary, ".")
	buildOutput, err := buildCmd.CombinedOutput()
	if err != nil {
		log.Printf("Failed to build application: %v\nOutput:\n%s", err, string(buildOutput))
		return
	}

	upstream := fakeUpstream()
	defer upstream.Close()

	exportDir, err = os.MkdirTemp("", "hilton-exports-")
	if err != nil {
		log.Printf("Failed to create export dir: %v", err)
		return
	}
	defer os.RemoveAll(exportDir)

	// Each run gets its own slots so state left by earlier runs is not seen.
	prefix := "itest-" + uuid.NewString()
	env := append(os.Environ(),
		"API_BASE_URL="+upstream.URL,
		"REDIS_ADDR="+redisAddr,
		"LOCAL_STORE_PREFIX="+prefix,
		"EXPORT_DIR="+exportDir,
		"AWS_S3_BUCKET=",
		"GIN_MODE=release",
		"API_RATE_LIMIT=100",
		"API_RATE_BURST=100",
	)

	// --- Start API Process ---
	apiCmd := exec.Command(testAppBinary, "-m", "api")
	apiCmd.Env = append(env, "API_PORT="+testAppPort, "SERVICE_API_PORT="+testServiceApiPortApi)
	apiCmd.Stderr = os.Stderr
	apiCmd.Stdout = os.Stdout
	if err := apiCmd.Start(); err != nil {
		log.Printf("Failed to start API process: %v", err)
		return
	}
	log.Printf("Integration Test Setup: API process started (PID: %d)...", apiCmd.Process.Pid)

	// --- Start Background Worker Process ---
	bgCmd := exec.Command(testAppBinary, "-m", "bg")
	bgCmd.Env = append(env, "SERVICE_API_PORT="+testServiceApiPortBg)
	bgCmd.Stderr = os.Stderr
	bgCmd.Stdout = os.Stdout
	if err := bgCmd.Start(); err != nil {
		_ = apiCmd.Process.Kill()
		log.Printf("Failed to start Background Worker process: %v", err)
		return
	}
	log.Printf("Integration Test Setup: Background Worker process started (PID: %d)...", bgCmd.Process.Pid)

	defer func() {
		log.Println("Integration Test Teardown: Shutting down application processes...")
		for _, cmd := range []*exec.Cmd{bgCmd, apiCmd} {
			if processErr := cmd.Process.Signal(syscall.SIGTERM); processErr != nil {
				log.Printf("Integration Test Teardown: Failed to send SIGTERM: %v. Killing.", processErr)
				_ = cmd.Process.Kill()
				continue
			}
			_, _ = cmd.Process.Wait()
		}
		log.Println("Integration Test Teardown: Application processes stopped.")
	}()

	// Wait for the API application to be ready by polling the ping endpoint
	startTime := time.Now()
	ready := false
	for time.Since(startTime) < startupTimeout {
		resp, err := http.Get(pingEndpoint)
		if err == nil {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK && string(body) == "pong" {
				ready = true
				break
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	if !ready {
		log.Printf("Application failed to start within %v", startupTimeout)
		return
	}

	log.Println("Integration Test Setup: Running tests...")
	exitCode := m.Run()
	log.Printf("Integration Test Teardown: Tests finished with exit code %d.", exitCode)
	// Let TestMain return normally so the deferred teardown runs.
}

func doJSON(t *testing.T, method, url string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp, out
}

func TestIntegration_Ping(t *testing.T) {
	resp, err := http.Get(pingEndpoint)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestIntegration_ServiceApiHealth(t *testing.T) {
	resp, body := doJSON(t, http.MethodPost, testServiceApiURL+"/api", map[string]interface{}{"method": "health"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]interface{}{"mode": "api"}, body["result"])
}

func TestIntegration_PublicPropertyView(t *testing.T) {
	resp, body := doJSON(t, http.MethodPost, testAppURL+"/v1/views", map[string]interface{}{"resource": "properties", "public": true})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)
	defer doJSON(t, http.MethodDelete, testAppURL+"/v1/views/"+id, nil)

	resp, body = doJSON(t, http.MethodGet, testAppURL+"/v1/views/"+id+"/properties?sort=title", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "LOADED", body["state"])
	items := body["items"].([]interface{})
	require.Len(t, items, 2, "pending listings are hidden from the public view")
	assert.Equal(t, "City Flat", items[0].(map[string]interface{})["title"])
}

func TestIntegration_WishlistSurvivesRequests(t *testing.T) {
	resp, body := doJSON(t, http.MethodPost, testAppURL+"/v1/wishlist/9/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["saved"])

	_, body = doJSON(t, http.MethodGet, testAppURL+"/v1/wishlist", nil)
	assert.Contains(t, body["ids"], float64(9))

	_, body = doJSON(t, http.MethodPost, testAppURL+"/v1/wishlist/9/toggle", nil)
	assert.Equal(t, false, body["saved"])
}

func TestIntegration_BackgroundExport(t *testing.T) {
	resp, _ := doJSON(t, http.MethodPost, testAppURL+"/v1/exports", map[string]interface{}{"resource": "properties"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, testAppURL+"/v1/session", map[string]interface{}{"email": "admin@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer doJSON(t, http.MethodDelete, testAppURL+"/v1/session", nil)

	filename := "integration_" + uuid.NewString()[:8] + ".csv"
	resp, body := doJSON(t, http.MethodPost, testAppURL+"/v1/exports", map[string]interface{}{"resource": "properties", "filename": filename})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.NotEmpty(t, body["taskId"])

	path := filepath.Join(exportDir, filename)
	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 10*time.Second, 200*time.Millisecond, "worker should write the export")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Sea View"`)
	assert.Contains(t, string(data), `"Hill Cottage"`)
}
