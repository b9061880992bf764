// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package zendesk

import (
	"context"
	"errors"
	"testing"

	relayerrors "github.com/sirseerhq/helpdesk-relay/internal/errors"
)

// Compile-time check that MockClient implements Client
var _ Client = (*MockClient)(nil)

func TestMockClient_FetchUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("returns default test data", func(t *testing.T) {
		mock := NewMockClient()

		page, err := mock.FetchUsers(ctx, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(page.Users) != 3 {
			t.Errorf("expected 3 users, got %d", len(page.Users))
		}
		if page.NextPage != "" {
			t.Errorf("expected no next page, got %q", page.NextPage)
		}
		if mock.FetchCalls != 1 {
			t.Errorf("FetchCalls = %d, want 1", mock.FetchCalls)
		}
	})

	t.Run("serves pages in order with next markers", func(t *testing.T) {
		mock := NewMockClientWithOptions(WithPages(
			[]User{{ID: 1, Role: "agent"}},
			[]User{{ID: 2, Role: "admin", RoleType: 4}},
		))

		page1, err := mock.FetchUsers(ctx, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page1.NextPage == "" {
			t.Fatal("expected a next page marker on page 1")
		}

		page2, err := mock.FetchUsers(ctx, page1.NextPage)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page2.NextPage != "" {
			t.Errorf("expected final page, got next %q", page2.NextPage)
		}
		if len(page2.Users) != 1 || page2.Users[0].ID != 2 {
			t.Errorf("unexpected page 2: %+v", page2.Users)
		}
	})

	t.Run("fails at configured page", func(t *testing.T) {
		mock := NewMockClientWithOptions(
			WithPages([]User{{ID: 1, Role: "agent"}}, []User{{ID: 2, Role: "agent"}}),
			WithFetchFailureAt(2, nil),
		)

		if _, err := mock.FetchUsers(ctx, ""); err != nil {
			t.Fatalf("page 1 should succeed, got: %v", err)
		}
		_, err := mock.FetchUsers(ctx, "next")
		if err == nil {
			t.Fatal("expected page 2 to fail")
		}
		if !errors.Is(err, relayerrors.ErrFetchFailed) {
			t.Errorf("error %v does not wrap ErrFetchFailed", err)
		}
	})

	t.Run("simulates auth failure", func(t *testing.T) {
		mock := NewMockClientWithOptions(WithAuthFailure())

		_, err := mock.FetchUsers(ctx, "")
		if !errors.Is(err, relayerrors.ErrInvalidCredentials) {
			t.Errorf("error %v does not wrap ErrInvalidCredentials", err)
		}
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		mock := NewMockClient()
		if _, err := mock.FetchUsers(canceled, ""); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestMockClient_UpdateAlias(t *testing.T) {
	ctx := context.Background()

	t.Run("records calls", func(t *testing.T) {
		mock := NewMockClient()

		if err := mock.UpdateAlias(ctx, 1, "X"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.UpdateAlias(ctx, 3, "Y"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []UpdateCall{{ID: 1, Alias: "X"}, {ID: 3, Alias: "Y"}}
		if len(mock.UpdateCalls) != len(want) {
			t.Fatalf("UpdateCalls = %v, want %v", mock.UpdateCalls, want)
		}
		for i := range want {
			if mock.UpdateCalls[i] != want[i] {
				t.Errorf("UpdateCalls[%d] = %v, want %v", i, mock.UpdateCalls[i], want[i])
			}
		}
	})

	t.Run("fails for configured ids", func(t *testing.T) {
		updateErr := &UpdateError{UserID: 1, StatusCode: 422, Body: `{"error":"UpdateRejected"}`}
		mock := NewMockClientWithOptions(WithUpdateFailure(1, updateErr))

		err := mock.UpdateAlias(ctx, 1, "X")
		if err == nil {
			t.Fatal("expected error")
		}
		var ue *UpdateError
		if !errors.As(err, &ue) || ue.UserID != 1 {
			t.Errorf("expected the configured UpdateError, got %v", err)
		}

		if err := mock.UpdateAlias(ctx, 2, "X"); err != nil {
			t.Errorf("other ids should succeed, got %v", err)
		}
	})
}
