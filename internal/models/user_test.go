package models

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestUserDisplayName_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		user := &User{
			ID:        rapid.Int64().Draw(t, "id"),
			FirstName: rapid.String().Draw(t, "firstName"),
			LastName:  rapid.String().Draw(t, "lastName"),
			Username:  rapid.String().Draw(t, "username"),
		}

		result := user.DisplayName()

		idStr := fmt.Sprintf("[%d]", user.ID)
		if !strings.Contains(result, idStr) {
			t.Fatalf("DisplayName must always contain user_id: got %q, expected to contain %q", result, idStr)
		}

		if user.FirstName != "" && !strings.Contains(result, user.FirstName) {
			t.Fatalf("DisplayName must contain first_name when non-empty: got %q", result)
		}

		if user.LastName != "" && !strings.Contains(result, user.LastName) {
			t.Fatalf("DisplayName must contain last_name when non-empty: got %q", result)
		}

		if user.Username != "" {
			usernameWithAt := "@" + user.Username
			if !strings.Contains(result, usernameWithAt) {
				t.Fatalf("DisplayName must contain @username when non-empty: got %q", result)
			}
		}
	})
}

func TestUserDisplayName(t *testing.T) {
	tests := []struct {
		user User
		want string
	}{
		{User{ID: 42, FirstName: "Анна", LastName: "Иванова", Username: "anna_run"}, "Анна Иванова @anna_run [42]"},
		{User{ID: 42, FirstName: "Анна"}, "Анна [42]"},
		{User{ID: 42, Username: "anna_run"}, "@anna_run [42]"},
		{User{ID: 42}, "[42]"},
	}
	for _, tt := range tests {
		if got := tt.user.DisplayName(); got != tt.want {
			t.Errorf("DisplayName() = %q, want %q", got, tt.want)
		}
	}
}
