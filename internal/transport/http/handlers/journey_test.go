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

	"github.com/jackc/pgx/v5/pgxpool"

	"hrconsole/internal/app/server"
	"hrconsole/internal/platform/config"
	"hrconsole/internal/platform/db"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

func testApp(t *testing.T) (*httptest.Server, *pgxpool.Pool, config.Config) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		DataEncryptionKey:  strings.Repeat("0123456789abcdef", 4),
		Environment:        "test",
		StorageDir:         t.TempDir(),
		SeedAdminUsername:  "admin",
		SeedAdminName:      "Administrator",
		SeedAdminPassword:  "ChangeMe123!",
		EmailFrom:          "no-reply@test.local",
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       16 << 20,
		RateLimitPerMinute: 1000,
		CORSOrigins:        []string{"*"},
		MetricsEnabled:     true,
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("db connect failed: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool, "../../../../migrations"); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}
	if err := db.Seed(ctx, pool, cfg); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	app, err := server.New(cfg, pool)
	if err != nil {
		t.Fatalf("server init failed: %v", err)
	}
	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts, pool, cfg
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, payload any) (*http.Response, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: bad envelope %s: %v", method, url, raw, err)
		}
	}
	return resp, env
}

func login(t *testing.T, client *http.Client, baseURL, username, password string) string {
	t.Helper()
	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s returned %d: %v", username, resp.StatusCode, env.Error)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		t.Fatalf("login %s: no token in %s", username, env.Data)
	}
	return data.Token
}

func createDesignation(t *testing.T, client *http.Client, baseURL, token, name string) string {
	t.Helper()
	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/designations", token, map[string]string{"name": name})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create designation returned %d: %v", resp.StatusCode, env.Error)
	}
	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.ID == "" {
		t.Fatalf("create designation: no id in %s", env.Data)
	}
	return data.ID
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token, employeeNo, designationID string) string {
	t.Helper()
	resp, env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/employees", token, map[string]string{
		"employeeNo":     employeeNo,
		"name":           "Journey " + employeeNo,
		"email":          employeeNo + "@test.local",
		"dateOfBirth":    "1995-04-12",
		"gender":         "female",
		"employmentType": "onrole",
		"workingStatus":  "active",
		"designationId":  designationID,
		"joinDate":       "2023-01-09",
		"password":       "StaffPass1!",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create employee returned %d: %v", resp.StatusCode, env.Error)
	}
	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.ID == "" {
		t.Fatalf("create employee: no id in %s", env.Data)
	}
	return data.ID
}

func TestLeaveApprovalJourney(t *testing.T) {
	ts, pool, cfg := testApp(t)
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminUsername, cfg.SeedAdminPassword)

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	designationID := createDesignation(t, client, ts.URL, adminToken, "Engineer "+suffix)

	staffNo := "jrn" + suffix
	headNo := "hd" + suffix
	staffID := createEmployee(t, client, ts.URL, adminToken, staffNo, designationID)
	createEmployee(t, client, ts.URL, adminToken, headNo, designationID)

	// New directory logins start as staff; the approver needs the
	// project_head role.
	if _, err := pool.Exec(context.Background(),
		"UPDATE users SET role = 'project_head' WHERE username = $1", headNo); err != nil {
		t.Fatalf("promote approver: %v", err)
	}

	var testStart time.Time
	if err := pool.QueryRow(context.Background(), "SELECT now()").Scan(&testStart); err != nil {
		t.Fatalf("read db clock: %v", err)
	}

	// Staff file their own request.
	staffToken := login(t, client, ts.URL, staffNo, "StaffPass1!")
	resp, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/requests/leave", staffToken, map[string]string{
		"startDate": "2026-09-07",
		"endDate":   "2026-09-09",
		"duration":  "full",
		"reason":    "family function",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create leave returned %d: %v", resp.StatusCode, env.Error)
	}
	var leave struct {
		ID   string  `json:"id"`
		Days float64 `json:"days"`
	}
	if err := json.Unmarshal(env.Data, &leave); err != nil {
		t.Fatalf("leave payload: %v", err)
	}
	if leave.Days != 3 {
		t.Fatalf("expected 3 leave days, got %v", leave.Days)
	}

	// Management may not act before the team head.
	resp, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/requests/leave/"+leave.ID+"/decision", adminToken, map[string]string{
		"action": "approve",
		"remark": "fine by me",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for management acting first, got %d", resp.StatusCode)
	}

	headToken := login(t, client, ts.URL, headNo, "StaffPass1!")
	resp, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/requests/leave/"+leave.ID+"/decision", headToken, map[string]string{
		"action": "approve",
		"remark": "coverage arranged",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("team head decision returned %d: %v", resp.StatusCode, env.Error)
	}

	resp, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/requests/leave/"+leave.ID+"/decision", adminToken, map[string]string{
		"action": "approve",
		"remark": "approved",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("management decision returned %d: %v", resp.StatusCode, env.Error)
	}

	// Decision email fan-out goes through the background queue; wait for
	// the worker to record the run.
	deadline := time.Now().Add(5 * time.Second)
	for {
		var runs int
		err := pool.QueryRow(context.Background(),
			"SELECT COUNT(1) FROM job_runs WHERE job_type = 'notification_email' AND status = 'completed' AND started_at >= $1",
			testStart).Scan(&runs)
		if err != nil {
			t.Fatalf("count email jobs: %v", err)
		}
		if runs > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no completed notification_email job run recorded")
		}
		time.Sleep(50 * time.Millisecond)
	}

	// The list view carries the effective status.
	resp, env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/requests/leave?employeeId="+staffID, adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list leave returned %d: %v", resp.StatusCode, env.Error)
	}
	var rows []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatalf("list payload: %v", err)
	}
	found := false
	for _, row := range rows {
		if row.ID == leave.ID {
			found = true
			if row.Status != "approved" {
				t.Fatalf("expected approved, got %s", row.Status)
			}
		}
	}
	if !found {
		t.Fatal("approved request missing from list")
	}
}

func TestSalaryAndPayslipJourney(t *testing.T) {
	ts, _, cfg := testApp(t)
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminUsername, cfg.SeedAdminPassword)

	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	designationID := createDesignation(t, client, ts.URL, adminToken, "Accountant "+suffix)
	employeeID := createEmployee(t, client, ts.URL, adminToken, "sal"+suffix, designationID)

	// March 2024 has 5 Sundays: 26 working days, so 26000 basic pays
	// 1000 per day and 3 unpaid days deduct 3000.
	resp, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/salary", adminToken, map[string]any{
		"employeeId":     employeeID,
		"year":           2024,
		"month":          3,
		"basicSalary":    26000,
		"totalLeaveDays": 3,
		"paidLeaveDays":  0,
		"incentive":      500,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save salary returned %d: %v", resp.StatusCode, env.Error)
	}
	var saved struct {
		Record struct {
			ID string `json:"id"`
		} `json:"record"`
		Breakdown struct {
			WorkingDays int     `json:"workingDays"`
			Deduction   float64 `json:"deduction"`
			TotalSalary float64 `json:"totalSalary"`
		} `json:"breakdown"`
	}
	if err := json.Unmarshal(env.Data, &saved); err != nil {
		t.Fatalf("salary payload: %v", err)
	}
	if saved.Breakdown.WorkingDays != 26 {
		t.Fatalf("expected 26 working days, got %d", saved.Breakdown.WorkingDays)
	}
	if saved.Breakdown.Deduction != 3000 {
		t.Fatalf("expected deduction 3000, got %v", saved.Breakdown.Deduction)
	}
	if saved.Breakdown.TotalSalary != 23500 {
		t.Fatalf("expected total 23500, got %v", saved.Breakdown.TotalSalary)
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/salary/"+saved.Record.ID+"/payslip", nil)
	if err != nil {
		t.Fatalf("payslip request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+adminToken)
	pdfResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("payslip fetch: %v", err)
	}
	defer pdfResp.Body.Close()
	if pdfResp.StatusCode != http.StatusOK {
		t.Fatalf("payslip returned %d", pdfResp.StatusCode)
	}
	if ct := pdfResp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("payslip content type %q", ct)
	}
	pdf, _ := io.ReadAll(pdfResp.Body)
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("payslip response is not a PDF")
	}
}

func TestMaidAttendanceJourney(t *testing.T) {
	ts, _, cfg := testApp(t)
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminUsername, cfg.SeedAdminPassword)

	resp, env := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/maid/attendance", adminToken, map[string]string{
		"date":       "2026-08-25",
		"morningIn":  "08:30",
		"morningOut": "11:00",
		"eveningIn":  "17:00",
		"eveningOut": "19:00",
		"workDone":   "full clean",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save day returned %d: %v", resp.StatusCode, env.Error)
	}

	// A full-day leave wipes the punches for that date.
	resp, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/maid/attendance", adminToken, map[string]string{
		"date":          "2026-08-26",
		"morningIn":     "08:30",
		"leaveType":     "maid",
		"leaveDuration": "full",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save leave day returned %d: %v", resp.StatusCode, env.Error)
	}
	var day struct {
		MorningIn string `json:"morningIn"`
		LeaveType string `json:"leaveType"`
	}
	if err := json.Unmarshal(env.Data, &day); err != nil {
		t.Fatalf("day payload: %v", err)
	}
	if day.MorningIn != "" || day.LeaveType != "maid" {
		t.Fatalf("expected cleared punches on leave, got %+v", day)
	}

	resp, env = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/maid/week?anchor=2026-08-25", adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("week returned %d: %v", resp.StatusCode, env.Error)
	}
	var week struct {
		Days []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"days"`
	}
	if err := json.Unmarshal(env.Data, &week); err != nil {
		t.Fatalf("week payload: %v", err)
	}
	if len(week.Days) != 6 {
		t.Fatalf("expected Mon-Sat grid, got %d days", len(week.Days))
	}

	// Fill one sweep slot for the week of Aug 24.
	resp, env = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/maid/tasks/check", adminToken, map[string]any{
		"weekStart":     "2026-08-24",
		"taskCode":      "sweep",
		"checkIndex":    0,
		"completedDate": "2026-08-25",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("task check returned %d: %v", resp.StatusCode, env.Error)
	}
	var toggled struct {
		Checked bool `json:"checked"`
	}
	if err := json.Unmarshal(env.Data, &toggled); err != nil {
		t.Fatalf("toggle payload: %v", err)
	}
	if !toggled.Checked {
		t.Fatal("expected slot to be checked")
	}

	// Sweep has six slots, so index 6 is past the end.
	resp, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/maid/tasks/check", adminToken, map[string]any{
		"weekStart":     "2026-08-24",
		"taskCode":      "sweep",
		"checkIndex":    6,
		"completedDate": "2026-08-25",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("out-of-range check index returned %d, want 400", resp.StatusCode)
	}

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/maid/export?year=2026&month=8", nil)
	if err != nil {
		t.Fatalf("export request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+adminToken)
	exportResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("export fetch: %v", err)
	}
	defer exportResp.Body.Close()
	if exportResp.StatusCode != http.StatusOK {
		t.Fatalf("export returned %d", exportResp.StatusCode)
	}
	if ct := exportResp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("export content type %q", ct)
	}
	raw, _ := io.ReadAll(exportResp.Body)
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		t.Fatal("export response is not a PDF")
	}
}
