package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/crypto"
	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/rpc"
)

type recordedCall struct {
	method string
	params map[string]interface{}
	auth   bool
}

func stubRPC(t *testing.T, result string) *[]recordedCall {
	t.Helper()
	calls := &[]recordedCall{}
	original := rpcCall
	rpcCall = func(method string, params interface{}, requireAuth bool) (json.RawMessage, *rpcError, error) {
		raw, err := json.Marshal(params)
		if err != nil {
			t.Fatalf("marshal params: %v", err)
		}
		decoded := map[string]interface{}{}
		_ = json.Unmarshal(raw, &decoded)
		*calls = append(*calls, recordedCall{method: method, params: decoded, auth: requireAuth})
		return json.RawMessage(result), nil, nil
	}
	t.Cleanup(func() { rpcCall = original })
	return calls
}

func TestArgValidationSkipsRPC(t *testing.T) {
	calls := stubRPC(t, `{}`)
	cases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "no command", args: nil, wantErr: "Usage:"},
		{name: "unknown command", args: []string{"teleport"}, wantErr: "Unknown command"},
		{name: "booking usage", args: []string{"booking"}, wantErr: "carehours-cli booking"},
		{name: "create missing offer", args: []string{"booking", "create", "--request", "1", "--hours", "2"}, wantErr: "--offer is required"},
		{name: "create zero hours", args: []string{"booking", "create", "--offer", "1", "--request", "1"}, wantErr: "--hours must be positive"},
		{name: "start missing id", args: []string{"booking", "start"}, wantErr: "--id is required"},
		{name: "dispute missing reason", args: []string{"booking", "dispute", "--id", "1"}, wantErr: "--reason is required"},
		{name: "dispute bad evidence", args: []string{"booking", "dispute", "--id", "1", "--reason", "late", "--evidence", "0x12"}, wantErr: "32-byte hex digest"},
		{name: "verify rating range", args: []string{"verify", "initiate", "--id", "1", "--rating", "101"}, wantErr: "between 0 and 100"},
		{name: "verify digest", args: []string{"verify", "evidence", "--id", "1", "--digest", "zz"}, wantErr: "--digest"},
		{name: "escalate fee", args: []string{"verify", "escalate", "--id", "1"}, wantErr: "--fee must be positive"},
		{name: "revoke reason", args: []string{"verify", "revoke", "--id", "1"}, wantErr: "--reason is required"},
		{name: "parquet needs out", args: []string{"evidence", "export", "--id", "1", "--format", "parquet"}, wantErr: "--out is required"},
		{name: "bad format", args: []string{"evidence", "export", "--id", "1", "--format", "xml"}, wantErr: "--format must be"},
		{name: "balance arity", args: []string{"balance"}, wantErr: "usage: carehours-cli balance"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tc.args, &stdout, &stderr); code != 1 {
				t.Fatalf("expected exit 1, got %d", code)
			}
			if !strings.Contains(stderr.String(), tc.wantErr) {
				t.Fatalf("stderr %q missing %q", stderr.String(), tc.wantErr)
			}
		})
	}
	if len(*calls) != 0 {
		t.Fatalf("unexpected RPC calls: %+v", *calls)
	}
}

func TestBookingCommandsBuildParams(t *testing.T) {
	calls := stubRPC(t, `{"booking":{"id":3}}`)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"booking", "create", "--offer", "2", "--request", "5", "--hours", "3", "--metadata", "weekends"}, &stdout, &stderr); code != 0 {
		t.Fatalf("create exit %d: %s", code, stderr.String())
	}
	if code := run([]string{"booking", "refund", "--id", "3"}, &stdout, &stderr); code != 0 {
		t.Fatalf("refund exit %d: %s", code, stderr.String())
	}
	if code := run([]string{"booking", "get", "--id", "3"}, &stdout, &stderr); code != 0 {
		t.Fatalf("get exit %d: %s", code, stderr.String())
	}
	if len(*calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(*calls))
	}
	create := (*calls)[0]
	if create.method != "booking_create" || !create.auth {
		t.Fatalf("unexpected create call %+v", create)
	}
	if create.params["offerId"] != float64(2) || create.params["metadata"] != "weekends" {
		t.Fatalf("unexpected create params %+v", create.params)
	}
	if (*calls)[1].method != "booking_timeoutRefund" {
		t.Fatalf("unexpected refund method %s", (*calls)[1].method)
	}
	if (*calls)[2].auth {
		t.Fatalf("booking_get should not require auth")
	}
	if !strings.Contains(stdout.String(), `"id": 3`) {
		t.Fatalf("expected indented result, got %s", stdout.String())
	}
}

func TestVerifyConfirmDefaultsToAgree(t *testing.T) {
	calls := stubRPC(t, `{}`)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"verify", "confirm", "--id", "4"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if code := run([]string{"verify", "confirm", "--id", "4", "--agrees=false"}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if (*calls)[0].params["agrees"] != true || (*calls)[1].params["agrees"] != false {
		t.Fatalf("unexpected confirm params %+v", *calls)
	}
}

func TestEvidenceExportWritesFiles(t *testing.T) {
	submitter := crypto.FormatAccount([20]byte{0x01})
	digest := "0x" + strings.Repeat("ab", 32)
	stubRPC(t, `[{"bookingId":1,"submissionId":1,"digest":"`+digest+`","submitter":"`+submitter+`","timestamp":4,"description":"timesheet","verified":true}]`)
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	jsonlPath := filepath.Join(dir, "evidence.jsonl")
	if code := run([]string{"evidence", "export", "--id", "1", "--out", jsonlPath}, &stdout, &stderr); code != 0 {
		t.Fatalf("jsonl exit %d: %s", code, stderr.String())
	}
	data, err := os.ReadFile(jsonlPath)
	if err != nil {
		t.Fatalf("read jsonl: %v", err)
	}
	if !strings.Contains(string(data), `"description":"timesheet"`) {
		t.Fatalf("unexpected jsonl %s", data)
	}
	if !strings.Contains(stderr.String(), "sha256:") {
		t.Fatalf("expected checksum on stderr, got %s", stderr.String())
	}

	parquetPath := filepath.Join(dir, "evidence.parquet")
	if code := run([]string{"evidence", "export", "--id", "1", "--format", "parquet", "--out", parquetPath}, &stdout, &stderr); code != 0 {
		t.Fatalf("parquet exit %d: %s", code, stderr.String())
	}
	if info, err := os.Stat(parquetPath); err != nil || info.Size() == 0 {
		t.Fatalf("expected parquet file, err=%v", err)
	}
}

func TestEvidenceExportRejectsMalformedDigest(t *testing.T) {
	stubRPC(t, `[{"bookingId":1,"submissionId":2,"digest":"0x12","submitter":"x"}]`)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"evidence", "export", "--id", "1"}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(stderr.String(), "malformed digest") {
		t.Fatalf("unexpected stderr %s", stderr.String())
	}
}

func TestKeygenAndToken(t *testing.T) {
	t.Setenv(envPassphrase, "correct horse battery")
	t.Setenv(envJWTSecret, "cli-test-secret-0123456789")
	path := filepath.Join(t.TempDir(), "key.json")

	var stdout, stderr bytes.Buffer
	if code := run([]string{"keygen", "--out", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("keygen exit %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Address: care1") {
		t.Fatalf("unexpected keygen output %s", stdout.String())
	}
	if code := run([]string{"keygen", "--out", path}, &stdout, &stderr); code != 1 {
		t.Fatalf("expected refusal to overwrite keystore")
	}

	stdout.Reset()
	if code := run([]string{"token", "--keystore", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("token exit %d: %s", code, stderr.String())
	}
	token := strings.TrimSpace(stdout.String())
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected a JWT, got %q", token)
	}
	account, err := crypto.KeystoreAccount(path)
	if err != nil {
		t.Fatalf("keystore account: %v", err)
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	if err != nil {
		t.Fatalf("decode claims: %v", err)
	}
	var claims map[string]interface{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		t.Fatalf("unmarshal claims: %v", err)
	}
	if claims["sub"] != crypto.FormatAccount(account) || claims["iss"] != rpc.TokenIssuer {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestGlobalRPCFlag(t *testing.T) {
	original := rpcEndpoint
	defer func() { rpcEndpoint = original }()
	rest, err := applyGlobalFlags([]string{"--rpc", "http://node:8645/rpc", "balance", "care1x"})
	if err != nil {
		t.Fatalf("flags: %v", err)
	}
	if rpcEndpoint != "http://node:8645/rpc" || len(rest) != 2 {
		t.Fatalf("unexpected parse %s %v", rpcEndpoint, rest)
	}
	if _, err := applyGlobalFlags([]string{"--rpc"}); err == nil {
		t.Fatalf("expected missing value error")
	}
}
