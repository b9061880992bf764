package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirseerhq/helpdesk-relay/internal/config"
	relayerrors "github.com/sirseerhq/helpdesk-relay/internal/errors"
	"github.com/sirseerhq/helpdesk-relay/internal/output"
	"github.com/sirseerhq/helpdesk-relay/internal/zendesk"
	"github.com/sirseerhq/helpdesk-relay/test/testutil"
)

// TestRunSync_EndToEnd drives the full pipeline against a mock helpdesk
// server through the real REST client.
func TestRunSync_EndToEnd(t *testing.T) {
	pages := [][]map[string]interface{}{
		{
			{"id": int64(1), "name": "Avery Chen", "role": "admin", "role_type": 4, "alias": "old"},
			{"id": int64(2), "name": "Brook Diaz", "role": "agent", "role_type": 0, "alias": "old"},
		},
		{
			{"id": int64(3), "name": "Casey Flynn", "role": "admin", "role_type": 4, "alias": "Support Team"},
			{"id": int64(4), "name": "Drew Ellis", "role": "admin", "role_type": 4, "alias": "old"},
		},
	}
	server := testutil.NewHelpdeskServer(t, pages)

	client := zendesk.NewRESTClient(server.BaseURL(), "ops@example.com", "test-token", 100)

	var results, progress bytes.Buffer
	err := runSync(context.Background(), client, output.NewWriter(&results), &progress, syncOptions{
		Alias:      "Support Team",
		Conditions: []config.Condition{{Role: "admin", RoleType: 4}},
	})
	if err != nil {
		t.Fatalf("runSync failed: %v", err)
	}

	if server.FetchCount() != 2 {
		t.Errorf("FetchCount = %d, want 2", server.FetchCount())
	}

	updates := server.Updates()
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates on the server, got %v", updates)
	}
	if updates[0].ID != 1 || updates[0].Alias != "Support Team" {
		t.Errorf("update 0 = %v, want user 1 alias Support Team", updates[0])
	}
	if updates[1].ID != 4 || updates[1].Alias != "Support Team" {
		t.Errorf("update 1 = %v, want user 4 alias Support Team", updates[1])
	}

	records := decodeRecords(t, &results)
	want := []struct {
		id     int64
		action string
	}{
		{1, output.ActionUpdated},
		{3, output.ActionSkipped},
		{4, output.ActionUpdated},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %v", len(want), records)
	}
	for i, w := range want {
		if records[i].ID != w.id || records[i].Action != w.action {
			t.Errorf("record %d = %+v, want user %d %s", i, records[i], w.id, w.action)
		}
	}
}

// TestRunSync_EndToEnd_FetchFailure verifies that a failing page aborts the
// run with no writes reaching the server.
func TestRunSync_EndToEnd_FetchFailure(t *testing.T) {
	pages := [][]map[string]interface{}{
		{
			{"id": int64(1), "name": "Avery Chen", "role": "admin", "role_type": 4, "alias": "old"},
		},
		{
			{"id": int64(2), "name": "Brook Diaz", "role": "admin", "role_type": 4, "alias": "old"},
		},
	}
	server := testutil.NewFailingPageServer(t, pages, 2, 500)

	client := zendesk.NewRESTClient(server.BaseURL(), "ops@example.com", "test-token", 100)

	var results, progress bytes.Buffer
	err := runSync(context.Background(), client, output.NewWriter(&results), &progress, syncOptions{
		Alias:      "Support Team",
		Conditions: []config.Condition{{Role: "admin", RoleType: 4}},
	})
	if err == nil {
		t.Fatal("expected fetch failure to abort the run")
	}
	if !errors.Is(err, relayerrors.ErrFetchFailed) {
		t.Errorf("error %v does not wrap ErrFetchFailed", err)
	}

	if updates := server.Updates(); len(updates) != 0 {
		t.Errorf("expected no updates after fetch failure, got %v", updates)
	}
	if results.Len() != 0 {
		t.Errorf("expected no result records after fetch failure, got %q", results.String())
	}
}

// TestRunSync_EndToEnd_UpdateFailure verifies that a rejected update is
// reported per user while the run carries on.
func TestRunSync_EndToEnd_UpdateFailure(t *testing.T) {
	pages := [][]map[string]interface{}{
		{
			{"id": int64(1), "name": "Avery Chen", "role": "admin", "role_type": 4, "alias": "old"},
			{"id": int64(2), "name": "Brook Diaz", "role": "admin", "role_type": 4, "alias": "old"},
		},
	}
	server := testutil.NewHelpdeskServer(t, pages)
	server.UpdateStatus[1] = 422

	client := zendesk.NewRESTClient(server.BaseURL(), "ops@example.com", "test-token", 100)

	var results, progress bytes.Buffer
	err := runSync(context.Background(), client, output.NewWriter(&results), &progress, syncOptions{
		Alias:      "Support Team",
		Conditions: []config.Condition{{Role: "admin", RoleType: 4}},
	})
	if err != nil {
		t.Fatalf("per-user update failures must not abort the run, got: %v", err)
	}

	updates := server.Updates()
	if len(updates) != 1 || updates[0].ID != 2 {
		t.Fatalf("expected only user 2 to land on the server, got %v", updates)
	}

	records := decodeRecords(t, &results)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %v", records)
	}
	if records[0].ID != 1 || records[0].Action != output.ActionFailed || records[0].Error == "" {
		t.Errorf("record 0 = %+v, want user 1 failed with error detail", records[0])
	}
	if records[1].ID != 2 || records[1].Action != output.ActionUpdated {
		t.Errorf("record 1 = %+v, want user 2 updated", records[1])
	}
}

// TestRunSync_EndToEnd_LargeDataset exercises pagination with a bigger
// synthetic population.
func TestRunSync_EndToEnd_LargeDataset(t *testing.T) {
	pages := [][]map[string]interface{}{
		testutil.GenerateUsers(1, 100, "admin", 4, "old"),
		testutil.GenerateUsers(101, 200, "end-user", 0, "old"),
		testutil.GenerateUsers(201, 250, "admin", 4, "Support Team"),
	}
	server := testutil.NewHelpdeskServer(t, pages)

	client := zendesk.NewRESTClient(server.BaseURL(), "ops@example.com", "test-token", 100)

	var results, progress bytes.Buffer
	err := runSync(context.Background(), client, output.NewWriter(&results), &progress, syncOptions{
		Alias:      "Support Team",
		Conditions: []config.Condition{{Role: "admin", RoleType: 4}},
	})
	if err != nil {
		t.Fatalf("runSync failed: %v", err)
	}

	if server.FetchCount() != 3 {
		t.Errorf("FetchCount = %d, want 3", server.FetchCount())
	}
	if updates := server.Updates(); len(updates) != 100 {
		t.Errorf("expected 100 updates, got %d", len(updates))
	}

	records := decodeRecords(t, &results)
	var updated, skipped int
	for _, r := range records {
		switch r.Action {
		case output.ActionUpdated:
			updated++
		case output.ActionSkipped:
			skipped++
		default:
			t.Errorf("unexpected action in record %+v", r)
		}
	}
	if updated != 100 || skipped != 50 {
		t.Errorf("updated = %d skipped = %d, want 100 and 50", updated, skipped)
	}
}
