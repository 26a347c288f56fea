package assets

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/crucial707/asset-tracker/cmd/cli/config"
	"github.com/crucial707/asset-tracker/cmd/cli/output"
	"github.com/spf13/cobra"
)

// setup points the CLI at srv with a saved token in a temp config dir.
func setup(t *testing.T, srv *httptest.Server) {
	t.Helper()
	t.Setenv("ASSET_API_URL", srv.URL)
	t.Setenv("ASSETCTL_CONFIG_DIR", t.TempDir())
	if err := config.SaveToken("test-token"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestListAssets_TableOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/assets" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "available" {
			t.Errorf("status query = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"success":true,"assets":[
			{"id":"6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f","name":"asset-1","category":"laptop","status":"available","assignedTo":null},
			{"id":"7f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f","name":"asset-2","category":"laptop","status":"available","assignedTo":null}
		],"pagination":{"page":1,"limit":10,"total":2,"totalPages":1}}`))
	}))
	defer srv.Close()
	setup(t, srv)

	out, err := run(t, listAssetsCmd(), "--status", "available")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "asset-1") || !strings.Contains(out, "asset-2") || !strings.Contains(out, "Page 1 of 1") {
		t.Fatalf("expected asset names in output, got: %s", out)
	}
}

func TestUpdateAsset_SendsOnlyChangedFields(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/assets/abc" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"success":true,"data":{"id":"6f1c2d3e-4b5a-4c6d-8e7f-9a0b1c2d3e4f","name":"renamed","status":"available"}}`))
	}))
	defer srv.Close()
	setup(t, srv)

	if _, err := run(t, updateAssetCmd(), "abc", "--name", "renamed", "--clear", "location"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(got) != 2 || got["name"] != "renamed" {
		t.Errorf("payload = %v", got)
	}
	if v, ok := got["location"]; !ok || v != nil {
		t.Errorf("location should be sent as null, payload = %v", got)
	}
}

func TestAssignAsset_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"message":"invalid transition assigned -> assigned: asset is already assigned"}`))
	}))
	defer srv.Close()
	setup(t, srv)

	_, err := run(t, assignAssetCmd(), "abc", "--user", "u1")
	if err == nil || !strings.Contains(err.Error(), "already assigned") {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestReport_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"statusCounts":[{"status":"available","count":2}],"total":2}`))
	}))
	defer srv.Close()
	setup(t, srv)

	output.JSON = true
	defer func() { output.JSON = false }()

	out, err := run(t, reportCmd())
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, `"total": 2`) {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestCommands_RequireLogin(t *testing.T) {
	t.Setenv("ASSETCTL_CONFIG_DIR", t.TempDir())
	if _, err := run(t, getAssetCmd(), "abc"); err != config.ErrNotLoggedIn {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}
