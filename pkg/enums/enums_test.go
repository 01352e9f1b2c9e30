package enums

import "testing"

func TestParseDiscountType(t *testing.T) {
	got, err := ParseDiscountType(" Percentage ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DiscountTypePercentage {
		t.Fatalf("expected percentage, got %q", got)
	}
	if _, err := ParseDiscountType("bogo"); err == nil {
		t.Fatal("expected error for unknown discount type")
	}
	if DiscountTypeFixed.Symbol() != "₹" || DiscountTypePercentage.Symbol() != "%" {
		t.Fatal("unexpected discount symbols")
	}
}

func TestParseStorageDriver(t *testing.T) {
	for _, raw := range []string{"memory", "SQLITE", "postgres", "redis"} {
		driver, err := ParseStorageDriver(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if !driver.IsValid() {
			t.Fatalf("expected %q to be valid", driver)
		}
	}
	if !StorageDriverPostgres.IsSQL() || StorageDriverRedis.IsSQL() {
		t.Fatal("unexpected IsSQL classification")
	}
	if _, err := ParseStorageDriver("localstorage"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNotificationKind(t *testing.T) {
	if !NotificationSuccess.IsValid() || NotificationKind("info").IsValid() {
		t.Fatal("unexpected notification validity")
	}
	if _, err := ParseNotificationKind("error"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
