package services

import (
	"testing"

	"quotemanagement/testhelpers"
)

func TestGetCompanySettings_CreatesDefaultsOnFirstRead(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	settings, err := GetCompanySettings(app)
	if err != nil {
		t.Fatalf("GetCompanySettings failed: %v", err)
	}
	if got := settings.GetString("company_name"); got != DefaultCompanyName {
		t.Errorf("company_name = %q, want %q", got, DefaultCompanyName)
	}
	if got := settings.GetFloat("default_vat_rate"); !floatClose(got, DefaultVATRate) {
		t.Errorf("default_vat_rate = %v, want %v", got, DefaultVATRate)
	}
	if got := settings.GetInt("mail_port"); got != 587 {
		t.Errorf("mail_port = %d, want 587", got)
	}
	if !settings.GetBool("mail_tls") {
		t.Error("mail_tls should default to true")
	}
}

func TestGetCompanySettings_IsSingleton(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	first, err := GetCompanySettings(app)
	if err != nil {
		t.Fatalf("first read failed: %v", err)
	}
	second, err := GetCompanySettings(app)
	if err != nil {
		t.Fatalf("second read failed: %v", err)
	}
	if first.Id != second.Id {
		t.Errorf("settings ids differ: %q vs %q", first.Id, second.Id)
	}
}

func TestUpdateCompanySettings(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	updated, err := UpdateCompanySettings(app, map[string]any{
		"company_name":     "New Name SRL",
		"default_vat_rate": 22.0,
		"mail_server":      "smtp.example.com",
	})
	if err != nil {
		t.Fatalf("UpdateCompanySettings failed: %v", err)
	}
	if got := updated.GetString("company_name"); got != "New Name SRL" {
		t.Errorf("company_name = %q", got)
	}
	if got := updated.GetFloat("default_vat_rate"); !floatClose(got, 22.0) {
		t.Errorf("default_vat_rate = %v, want 22", got)
	}

	reread, err := GetCompanySettings(app)
	if err != nil {
		t.Fatalf("reread failed: %v", err)
	}
	if got := reread.GetString("mail_server"); got != "smtp.example.com" {
		t.Errorf("mail_server = %q, update did not persist", got)
	}
}
