package slack

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/testsabirweb/slack_extract/pkg/models"
)

func TestFetchUsersPaginatesToExhaustion(t *testing.T) {
	// 5 members across pages of 2: exactly 3 requests expected.
	members := []map[string]interface{}{
		{"id": "U1", "real_name": "Alice"},
		{"id": "U2", "real_name": "Bob"},
		{"id": "U3", "profile": map[string]string{"real_name": "Carol"}},
		{"id": "U4", "name": "dave"},
		{"id": "U5"},
	}

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		start := 0
		switch r.URL.Query().Get("cursor") {
		case "":
			start = 0
		case "c2":
			start = 2
		case "c4":
			start = 4
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}

		end := start + 2
		if end > len(members) {
			end = len(members)
		}
		next := ""
		if end < len(members) {
			next = fmt.Sprintf("c%d", end)
		}
		writePage(w, map[string]interface{}{
			"members":           members[start:end],
			"response_metadata": map[string]string{"next_cursor": next},
		})
	}))
	defer srv.Close()

	client, _ := newTestClient(srv)

	users, err := client.FetchUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requests != 3 {
		t.Errorf("expected 3 page requests for 5 members with page size 2, got %d", requests)
	}
	if len(users) != 5 {
		t.Fatalf("expected 5 users, got %d", len(users))
	}

	// Name fallback chain: real_name, profile.real_name, name, raw ID.
	want := map[string]string{"U1": "Alice", "U2": "Bob", "U3": "Carol", "U4": "dave", "U5": "U5"}
	for id, name := range want {
		if users[id] != name {
			t.Errorf("user %s: expected %q, got %q", id, name, users[id])
		}
	}
}

func TestFetchUsersReturnsPartialDirectoryOnFailure(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			writePage(w, map[string]interface{}{
				"members":           []map[string]interface{}{{"id": "U1", "real_name": "Alice"}},
				"response_metadata": map[string]string{"next_cursor": "c1"},
			})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, _ := newTestClient(srv)

	users, err := client.FetchUsers(context.Background())
	if err == nil {
		t.Fatal("expected error from failed second page")
	}
	if users["U1"] != "Alice" {
		t.Error("expected the first page's entries to survive the failure")
	}
}

func TestVisitHistoryCursorContinuation(t *testing.T) {
	pages := [][]models.Message{
		{{Timestamp: "300.0", User: "U1", Text: "newest"}, {Timestamp: "200.0", User: "U2", Text: "middle"}},
		{{Timestamp: "100.0", User: "U3", Text: "oldest"}},
	}

	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("cursor")
		requests++
		switch cursor {
		case "":
			writePage(w, map[string]interface{}{
				"messages":          pages[0],
				"has_more":          true,
				"response_metadata": map[string]string{"next_cursor": "page2"},
			})
		case "page2":
			writePage(w, map[string]interface{}{"messages": pages[1], "has_more": false})
		default:
			t.Errorf("unexpected cursor %q", cursor)
		}
	}))
	defer srv.Close()

	client, _ := newTestClient(srv)

	var seen []string
	err := client.VisitHistory(context.Background(), "C1", "50", "400", func(m models.Message) bool {
		seen = append(seen, m.Timestamp)
		return true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requests != 2 {
		t.Errorf("expected 2 page requests, got %d", requests)
	}
	want := []string{"300.0", "200.0", "100.0"}
	if len(seen) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(seen))
	}
	for i, ts := range want {
		if seen[i] != ts {
			t.Errorf("message %d: expected ts %s, got %s", i, ts, seen[i])
		}
	}
}

func TestVisitHistoryTimestampFallback(t *testing.T) {
	// First page reports has_more without a cursor: continuation must fall
	// back to the last message's ts as the new latest bound.
	var secondQuery map[string]string
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch requests {
		case 1:
			writePage(w, map[string]interface{}{
				"messages": []models.Message{
					{Timestamp: "300.0", User: "U1", Text: "a"},
					{Timestamp: "200.0", User: "U2", Text: "b"},
				},
				"has_more": true,
			})
		case 2:
			secondQuery = map[string]string{
				"latest": r.URL.Query().Get("latest"),
				"cursor": r.URL.Query().Get("cursor"),
				"oldest": r.URL.Query().Get("oldest"),
			}
			writePage(w, map[string]interface{}{
				"messages": []models.Message{{Timestamp: "100.0", User: "U3", Text: "c"}},
				"has_more": false,
			})
		}
	}))
	defer srv.Close()

	client, _ := newTestClient(srv)

	count := 0
	err := client.VisitHistory(context.Background(), "C1", "50", "400", func(m models.Message) bool {
		count++
		return true
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if count != 3 {
		t.Errorf("expected 3 messages, got %d", count)
	}
	if secondQuery["latest"] != "200.0" {
		t.Errorf("expected fallback latest bound 200.0, got %q", secondQuery["latest"])
	}
	if secondQuery["cursor"] != "" {
		t.Errorf("expected no cursor on fallback request, got %q", secondQuery["cursor"])
	}
	if secondQuery["oldest"] != "50" {
		t.Errorf("expected oldest bound preserved, got %q", secondQuery["oldest"])
	}
}

func TestVisitHistoryStopsMidPage(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		writePage(w, map[string]interface{}{
			"messages": []models.Message{
				{Timestamp: "300.0"}, {Timestamp: "200.0"}, {Timestamp: "100.0"},
			},
			"has_more":          true,
			"response_metadata": map[string]string{"next_cursor": "more"},
		})
	}))
	defer srv.Close()

	client, _ := newTestClient(srv)

	count := 0
	err := client.VisitHistory(context.Background(), "C1", "", "", func(m models.Message) bool {
		count++
		return count < 2
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if count != 2 {
		t.Errorf("expected visit to stop after 2 messages, got %d", count)
	}
	if requests != 1 {
		t.Errorf("expected no further page requests after stop, got %d", requests)
	}
}

func TestFetchRepliesDropsEchoedRoot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ts"); got != "100.0" {
			t.Errorf("expected ts=100.0, got %q", got)
		}
		writePage(w, map[string]interface{}{
			"messages": []models.Message{
				{Timestamp: "100.0", User: "U1", Text: "root echo"},
				{Timestamp: "101.0", User: "U2", Text: "first"},
				{Timestamp: "102.0", User: "U1", Text: "second"},
			},
		})
	}))
	defer srv.Close()

	client, _ := newTestClient(srv)

	replies, err := client.FetchReplies(context.Background(), "C1", "100.0", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(replies) != 2 {
		t.Fatalf("expected 2 replies after dropping the echoed root, got %d", len(replies))
	}
	if replies[0].Timestamp != "101.0" || replies[1].Timestamp != "102.0" {
		t.Errorf("expected ascending ts order, got %s then %s", replies[0].Timestamp, replies[1].Timestamp)
	}
}

func TestFetchRepliesHonorsCapMidPage(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		writePage(w, map[string]interface{}{
			"messages": []models.Message{
				{Timestamp: "100.0", User: "U1", Text: "root"},
				{Timestamp: "101.0", User: "U2", Text: "r1"},
				{Timestamp: "102.0", User: "U2", Text: "r2"},
				{Timestamp: "103.0", User: "U2", Text: "r3"},
				{Timestamp: "104.0", User: "U2", Text: "r4"},
			},
			"response_metadata": map[string]string{"next_cursor": "more"},
		})
	}))
	defer srv.Close()

	client, _ := newTestClient(srv)

	replies, err := client.FetchReplies(context.Background(), "C1", "100.0", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(replies) != 3 {
		t.Fatalf("expected cap of 3 replies, got %d", len(replies))
	}
	if replies[0].Timestamp != "101.0" || replies[2].Timestamp != "103.0" {
		t.Error("expected the retained prefix of the ordered stream")
	}
	if requests != 1 {
		t.Errorf("expected pagination to stop at the cap, got %d requests", requests)
	}
}
