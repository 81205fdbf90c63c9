//go:build darwin

package config

import (
	"strings"
	"testing"
)

func TestKeychainExec_MissingItem(t *testing.T) {
	_, err := keychainExec(appName+"-test-absent", "no-such-account")
	if err == nil {
		t.Fatal("expected error for a missing keychain item")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %q, want it to report the item as not found", err)
	}
}
