package protocol

import (
	"encoding/json"
	"testing"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{"string", `"5"`, "5", false},
		{"number", `42`, "42", false},
		{"null", `null`, "", false},
		{"float", `1.5`, "", true},
		{"object", `{}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tt.input), &id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && id != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, id, tt.want)
			}
		})
	}
}

func TestLoadUsersResponse_NumericIDs(t *testing.T) {
	body := `{"added_users":[{"user_id":5,"username":"bob"},{"user_id":"7","username":"eve"}]}`

	var resp LoadUsersResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(resp.AddedUsers) != 2 {
		t.Fatalf("got %d users, want 2", len(resp.AddedUsers))
	}
	if resp.AddedUsers[0].UserID != "5" || resp.AddedUsers[1].UserID != "7" {
		t.Errorf("ids = %q, %q", resp.AddedUsers[0].UserID, resp.AddedUsers[1].UserID)
	}
}

func TestRemoveChatResponse_ID(t *testing.T) {
	tests := []struct {
		name string
		body string
		want ID
	}{
		{"http shape", `{"removed_chat":{"chat_id":"3"}}`, "3"},
		{"socket shape", `{"chat_id":"4"}`, "4"},
		{"empty", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp RemoveChatResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got := resp.ID(); got != tt.want {
				t.Errorf("ID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewEnvelope(t *testing.T) {
	env, err := NewEnvelope(SendMessage, SocketSendMessageRequest{MessageText: "hi", ChatID: "2"})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"event":"send_message","data":{"message_text":"hi","chat_id":"2"}}`
	if string(raw) != want {
		t.Errorf("envelope = %s, want %s", raw, want)
	}

	bare, err := NewEnvelope(CurrentChat, nil)
	if err != nil {
		t.Fatal(err)
	}
	if bare.Data != nil {
		t.Errorf("nil payload should leave Data empty, got %s", bare.Data)
	}
}

func TestEndpoint_Path(t *testing.T) {
	if got := CheckNewMessages.Path(); got != "/check_new_messages" {
		t.Errorf("Path() = %q", got)
	}
}
