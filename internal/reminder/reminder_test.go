package reminder

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/flexledger/internal/models"
)

const displayName = "Shree Ganesh Flex & Advertising"

func pendingBill() models.Bill {
	return models.Bill{
		ID:           "INV-1",
		CustomerName: "Ravi",
		Items: []models.BillItem{
			{ServiceName: "Flex Banner"},
			{ServiceName: "ACP Board"},
		},
		TotalAmount: decimal.RequireFromString("1250.5"),
		Status:      models.StatusPending,
	}
}

func TestFallback(t *testing.T) {
	want := "Namaste Ravi, this is a reminder from Shree Ganesh Flex & Advertising regarding your pending payment of ₹1250.5. Please settle it at your earliest convenience. Thank you!"
	if got := Fallback(displayName, pendingBill()); got != want {
		t.Errorf("Fallback =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerateReminder_NoKey(t *testing.T) {
	g := New(Config{DisplayName: displayName})
	got := g.GenerateReminder(context.Background(), pendingBill())
	if got != Fallback(displayName, pendingBill()) {
		t.Errorf("without a key the fallback is expected, got %q", got)
	}
}

func newFakeOpenAI(t *testing.T, status int, content string) (*httptest.Server, *string) {
	t.Helper()
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.Unmarshal(body, &req); err == nil && len(req.Messages) > 0 {
			prompt = req.Messages[0].Content
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			io.WriteString(w, `{"error": {"message": "boom", "type": "server_error"}}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server, &prompt
}

func TestGenerateReminder_Completion(t *testing.T) {
	server, prompt := newFakeOpenAI(t, http.StatusOK, "  Namaste Ravi, kindly clear ₹1250.5.  ")
	g := New(Config{APIKey: "test", BaseURL: server.URL + "/v1", DisplayName: displayName})

	got := g.GenerateReminder(context.Background(), pendingBill())
	if got != "Namaste Ravi, kindly clear ₹1250.5." {
		t.Errorf("GenerateReminder = %q", got)
	}
	for _, want := range []string{displayName, "Ravi", "₹1250.5", "Flex Banner, ACP Board"} {
		if !strings.Contains(*prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerateReminder_FallsBack(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
	}{
		{name: "server error", status: http.StatusInternalServerError},
		{name: "empty completion", status: http.StatusOK, content: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newFakeOpenAI(t, tt.status, tt.content)
			g := New(Config{APIKey: "test", BaseURL: server.URL + "/v1", DisplayName: displayName})
			got := g.GenerateReminder(context.Background(), pendingBill())
			if got != Fallback(displayName, pendingBill()) {
				t.Errorf("expected fallback, got %q", got)
			}
		})
	}
}

func TestWhatsAppLink(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "bare number", phone: "98765 43210", want: "https://wa.me/919876543210?text=Pay%20now%21"},
		{name: "already prefixed", phone: "+91-98765-43210", want: "https://wa.me/919876543210?text=Pay%20now%21"},
		{name: "empty phone", phone: "", want: "https://wa.me/91?text=Pay%20now%21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WhatsAppLink(tt.phone, "91", "Pay now!"); got != tt.want {
				t.Errorf("WhatsAppLink(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

func TestEscapeText(t *testing.T) {
	if got := EscapeText("₹10 & more"); got != "%E2%82%B910%20%26%20more" {
		t.Errorf("EscapeText = %q", got)
	}
}
