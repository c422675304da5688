package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetGetDelete(t *testing.T) {
	gokeyring.MockInit()

	for _, item := range Items() {
		t.Run(string(item), func(t *testing.T) {
			if err := Set(item, "secret-"+string(item)); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}
			got, err := Get(item)
			if err != nil {
				t.Fatalf("Get() failed: %v", err)
			}
			if got != "secret-"+string(item) {
				t.Errorf("Get() = %q", got)
			}
			if err := Delete(item); err != nil {
				t.Fatalf("Delete() failed: %v", err)
			}
			if _, err := Get(item); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestItemsAreIndependent(t *testing.T) {
	gokeyring.MockInit()
	defer func() {
		_ = Delete(ConnectionString)
		_ = Delete(GeminiAPIKey)
	}()

	if err := SetConnectionString("postgres://u@localhost/hustle"); err != nil {
		t.Fatal(err)
	}
	if _, err := Get(GeminiAPIKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("gemini key visible after storing connection string: %v", err)
	}
	got, err := GetConnectionString()
	if err != nil || got != "postgres://u@localhost/hustle" {
		t.Errorf("GetConnectionString() = %q, %v", got, err)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()
	if err := Set(GeminiAPIKey, ""); err == nil {
		t.Error("Set(\"\") should return an error")
	}
}

func TestDeleteMissing(t *testing.T) {
	gokeyring.MockInit()
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteConnectionString() error = %v, want ErrNotFound", err)
	}
}

func TestParseItem(t *testing.T) {
	tests := []struct {
		in      string
		want    Item
		wantErr bool
	}{
		{"connection-string", ConnectionString, false},
		{"db", ConnectionString, false},
		{"gemini", GeminiAPIKey, false},
		{"gemini-api-key", GeminiAPIKey, false},
		{"password", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseItem(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseItem(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("mock keyring reported unavailable")
	}
}
