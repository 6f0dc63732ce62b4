package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"kpidash/internal/app/server"
	"kpidash/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func TestRewardCalculationJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		Addr:               ":0",
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		FrontendDir:        "frontend/dist",
		Environment:        "test",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		StatementDir:       t.TempDir(),
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("journey-%d@example.com", time.Now().UnixNano())
	employeeID := createEmployee(t, client, ts.URL, token, employeeEmail)
	kpiID := createKpi(t, client, ts.URL, token)
	period := fmt.Sprintf("journey-%d", time.Now().UnixNano())

	recordID := createRecord(t, client, ts.URL, token, kpiID, employeeID, period)
	postJSON(t, client, ts.URL+"/api/v1/kpi-records/"+recordID+"/submit", token, nil)
	postJSON(t, client, ts.URL+"/api/v1/kpi-records/"+recordID+"/approve", token, nil)

	summary := calculate(t, client, ts.URL, token, period)
	if summary["succeeded"].(float64) != 1 {
		t.Fatalf("expected one calculated result, got %+v", summary)
	}

	resultID, result := firstResult(t, client, ts.URL, token, period)
	if result["status"] != "calculated" {
		t.Fatalf("expected calculated status, got %v", result["status"])
	}
	if result["achievementRate"].(float64) != 120 {
		t.Fatalf("expected 120%% achievement, got %v", result["achievementRate"])
	}
	if result["netAmount"].(float64) != 5000000 {
		t.Fatalf("expected net 5000000, got %v", result["netAmount"])
	}

	approved := postJSON(t, client, ts.URL+"/api/v1/rewards/results/"+resultID+"/approve", token, nil)
	var approvedResult map[string]any
	if err := json.Unmarshal(approved.Data, &approvedResult); err != nil {
		t.Fatalf("failed to decode approve response: %v", err)
	}
	if approvedResult["status"] != "approved" {
		t.Fatalf("expected approved status, got %v", approvedResult["status"])
	}

	paid := postJSON(t, client, ts.URL+"/api/v1/rewards/results/"+resultID+"/pay", token, nil)
	var paidResult map[string]any
	if err := json.Unmarshal(paid.Data, &paidResult); err != nil {
		t.Fatalf("failed to decode pay response: %v", err)
	}
	if paidResult["status"] != "paid" {
		t.Fatalf("expected paid status, got %v", paidResult["status"])
	}

	csv := getRaw(t, client, ts.URL+"/api/v1/rewards/results/export?period="+period, token)
	if !strings.Contains(csv, "120.0") || !strings.Contains(csv, "5000000") {
		t.Fatalf("export missing expected values: %s", csv)
	}
}

func TestApproveTwiceConflicts(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		Addr:               ":0",
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		FrontendDir:        "frontend/dist",
		Environment:        "test",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		StatementDir:       t.TempDir(),
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeEmail := fmt.Sprintf("conflict-%d@example.com", time.Now().UnixNano())
	employeeID := createEmployee(t, client, ts.URL, token, employeeEmail)
	kpiID := createKpi(t, client, ts.URL, token)
	period := fmt.Sprintf("conflict-%d", time.Now().UnixNano())

	recordID := createRecord(t, client, ts.URL, token, kpiID, employeeID, period)
	postJSON(t, client, ts.URL+"/api/v1/kpi-records/"+recordID+"/submit", token, nil)
	postJSON(t, client, ts.URL+"/api/v1/kpi-records/"+recordID+"/approve", token, nil)
	calculate(t, client, ts.URL, token, period)

	resultID, _ := firstResult(t, client, ts.URL, token, period)
	postJSON(t, client, ts.URL+"/api/v1/rewards/results/"+resultID+"/approve", token, nil)

	status := postStatus(t, client, ts.URL+"/api/v1/rewards/results/"+resultID+"/approve", token, nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 on second approve, got %d", status)
	}
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token, email string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/employees/", token, map[string]any{
		"name":   "Journey Employee",
		"email":  email,
		"role":   "employee",
		"status": "active",
	})
	return idFrom(t, resp)
}

func createKpi(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/kpis/", token, map[string]any{
		"name":          fmt.Sprintf("Journey KPI %d", time.Now().UnixNano()),
		"unit":          "VND",
		"weight":        50,
		"target":        100,
		"rewardAmount":  5000000,
		"rewardMode":    "fixed",
		"penaltyAmount": 2000000,
		"penaltyMode":   "fixed",
		"frequency":     "monthly",
	})
	return idFrom(t, resp)
}

func createRecord(t *testing.T, client *http.Client, baseURL, token, kpiID, employeeID, period string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/kpi-records/", token, map[string]any{
		"kpiId":      kpiID,
		"employeeId": employeeID,
		"period":     period,
		"target":     100,
		"startDate":  "2024-01-01",
		"endDate":    "2024-01-31",
	})
	recordID := idFrom(t, resp)

	progress := putJSON(t, client, baseURL+"/api/v1/kpi-records/"+recordID+"/progress", token, map[string]any{
		"actual": 120,
	})
	var payload map[string]any
	if err := json.Unmarshal(progress.Data, &payload); err != nil {
		t.Fatalf("failed to decode progress response: %v", err)
	}
	if payload["status"] != "in_progress" {
		t.Fatalf("expected in_progress, got %v", payload["status"])
	}
	return recordID
}

func calculate(t *testing.T, client *http.Client, baseURL, token, period string) map[string]any {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/rewards/calculate", token, map[string]any{
		"period": period,
	})
	var summary map[string]any
	if err := json.Unmarshal(resp.Data, &summary); err != nil {
		t.Fatalf("failed to decode run summary: %v", err)
	}
	return summary
}

func firstResult(t *testing.T, client *http.Client, baseURL, token, period string) (string, map[string]any) {
	t.Helper()
	resp := getJSON(t, client, baseURL+"/api/v1/rewards/results?period="+period, token)
	var payload struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode results: %v", err)
	}
	if len(payload.Items) == 0 {
		t.Fatal("expected at least one result")
	}
	id, _ := payload.Items[0]["id"].(string)
	if id == "" {
		t.Fatal("expected result id")
	}
	return id, payload.Items[0]
}

func idFrom(t *testing.T, resp envelope) string {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	id, _ := payload["id"].(string)
	if id == "" {
		t.Fatal("expected id in response")
	}
	return id
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	env, status := doJSON(t, client, http.MethodPost, url, token, body)
	if status >= 400 {
		t.Fatalf("unexpected status %d for POST %s", status, url)
	}
	return env
}

func putJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	env, status := doJSON(t, client, http.MethodPut, url, token, body)
	if status >= 400 {
		t.Fatalf("unexpected status %d for PUT %s", status, url)
	}
	return env
}

func postStatus(t *testing.T, client *http.Client, url, token string, body any) int {
	t.Helper()
	_, status := doJSON(t, client, http.MethodPost, url, token, body)
	return status
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) (envelope, int) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env, resp.StatusCode
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func getRaw(t *testing.T, client *http.Client, url, token string) string {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return string(raw)
}
